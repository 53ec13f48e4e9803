package sources

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"goregion/internal/core"
)

// DefaultMirrorBaseURL is the hardcoded default for the primary mirror,
// used when no administrator override is configured.
const DefaultMirrorBaseURL = "https://emsifa.github.io/api-wilayah-indonesia/api"

// Mirror is the primary mirror source: static path conventions, no
// cross-origin restrictions, payload as a bare JSON array of {id, name}
// with all-uppercase names. Its base URL can be swapped at runtime for
// administrator-configured alternate endpoints.
type Mirror struct {
	mu      sync.RWMutex
	baseURL string
	client  *http.Client
}

// NewMirror creates the mirror source. An empty baseURL falls back to the
// hardcoded default.
func NewMirror(baseURL string, client *http.Client) *Mirror {
	if baseURL == "" {
		baseURL = DefaultMirrorBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Mirror{baseURL: baseURL, client: client}
}

func (m *Mirror) Name() string { return "mirror" }

// SetBaseURL swaps the mirror endpoint at runtime. An empty url restores
// the default.
func (m *Mirror) SetBaseURL(url string) {
	if url == "" {
		url = DefaultMirrorBaseURL
	}
	m.mu.Lock()
	m.baseURL = strings.TrimRight(url, "/")
	m.mu.Unlock()
}

// BaseURL returns the currently configured endpoint.
func (m *Mirror) BaseURL() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.baseURL
}

// endpoint maps a lookup onto the mirror's path convention.
func (m *Mirror) endpoint(kind core.Kind, parentCode string) string {
	switch kind {
	case core.KindProvince:
		return "/provinces.json"
	case core.KindRegency:
		return "/regencies/" + parentCode + ".json"
	case core.KindDistrict:
		return "/districts/" + parentCode + ".json"
	default:
		return "/villages/" + parentCode + ".json"
	}
}

// Fetch retrieves one lookup from the mirror.
func (m *Mirror) Fetch(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error) {
	body, err := getJSON(ctx, m.client, m.Name(), m.BaseURL()+m.endpoint(kind, parentCode), nil)
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, core.NewTransportError(m.Name(), "payload is not a JSON array", nil)
	}
	return decodeRegions(parsed, "id", "name"), nil
}
