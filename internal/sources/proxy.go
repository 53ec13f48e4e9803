package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"goregion/internal/core"
)

// Proxy relays the canonical request through a first-party backend function.
// It costs one extra hop but is immune to cross-origin failures. The
// internal endpoint re-expresses the lookup as query parameters and
// requires a bearer credential.
type Proxy struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewProxy creates the proxy source.
func NewProxy(baseURL, token string, client *http.Client) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Proxy{baseURL: strings.TrimRight(baseURL, "/"), token: token, client: client}
}

func (p *Proxy) Name() string { return "proxy" }

func (p *Proxy) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.token)
}

// Fetch retrieves one lookup through the first-party proxy function.
func (p *Proxy) Fetch(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error) {
	q := url.Values{}
	q.Set("type", kind.String())
	if parentCode != "" {
		q.Set("code", parentCode)
	}
	body, err := getJSON(ctx, p.client, p.Name(), p.baseURL+"/api/regions?"+q.Encode(), p.setHeaders)
	if err != nil {
		return nil, err
	}
	arr := gjson.GetBytes(body, "data")
	if !arr.Exists() || !arr.IsArray() {
		return nil, core.NewTransportError(p.Name(), "missing data field in payload", nil)
	}
	return decodeRegions(arr, "code", "name"), nil
}
