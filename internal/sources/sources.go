// Package sources implements the retrieval strategies for region lookups.
// Every source answers the same question over a different transport path and
// translates its provider's payload shape into the uniform []core.Region.
package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"goregion/internal/core"
)

// Source is one concrete network path for a lookup. Implementations must
// honor ctx cancellation: once the race is decided, in-flight requests are
// aborted and the attempt resolves as a cancellation failure instead of
// panicking or blocking.
type Source interface {
	Name() string
	Fetch(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error)
}

// getJSON performs a context-bound GET and returns the raw body.
// Failures of any sort (including cancellation) come back as *core.SourceError.
func getJSON(ctx context.Context, client *http.Client, source, url string, setHeaders func(*http.Request)) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.NewTransportError(source, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if setHeaders != nil {
		setHeaders(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewCancelledError(source, ctx.Err())
		}
		return nil, core.NewTransportError(source, "request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewTransportError(source, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, core.NewCancelledError(source, ctx.Err())
		}
		return nil, core.NewTransportError(source, "failed to read response", err)
	}
	return body, nil
}

// decodeRegions converts a gjson array into regions, mapping the provider's
// code/name field names and normalizing all-uppercase names. Records with a
// missing code are dropped rather than failing the whole payload.
func decodeRegions(arr gjson.Result, codeField, nameField string) []core.Region {
	var out []core.Region
	arr.ForEach(func(_, item gjson.Result) bool {
		code := item.Get(codeField).String()
		if code == "" {
			return true
		}
		out = append(out, core.Region{
			Code: code,
			Name: core.NormalizeName(item.Get(nameField).String()),
		})
		return true
	})
	return out
}
