package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"goregion/internal/core"
)

// DefaultCanonicalBaseURL is the canonical lookup service. Browser callers
// hit its CORS policy; from a backend the direct path works and still races
// against the mirror.
const DefaultCanonicalBaseURL = "https://dev.farizdotid.com/api/daerahindonesia"

// CanonicalURL builds the canonical service URL for one lookup. Shared with
// the relay sources, which wrap these URLs verbatim.
func CanonicalURL(baseURL string, kind core.Kind, parentCode string) string {
	base := strings.TrimRight(baseURL, "/")
	parent := url.QueryEscape(parentCode)
	switch kind {
	case core.KindProvince:
		return base + "/provinsi"
	case core.KindRegency:
		return base + "/kota?id_provinsi=" + parent
	case core.KindDistrict:
		return base + "/kecamatan?id_kota=" + parent
	default:
		return base + "/kelurahan?id_kecamatan=" + parent
	}
}

// canonicalRoot names the field each canonical response nests its array
// under.
func canonicalRoot(kind core.Kind) string {
	switch kind {
	case core.KindProvince:
		return "provinsi"
	case core.KindRegency:
		return "kota_kabupaten"
	case core.KindDistrict:
		return "kecamatan"
	default:
		return "kelurahan"
	}
}

// decodeCanonical translates a canonical-service payload (records with
// numeric ids and "nama" fields, nested under a per-kind root) into regions.
func decodeCanonical(source string, kind core.Kind, body []byte) ([]core.Region, error) {
	arr := gjson.GetBytes(body, canonicalRoot(kind))
	if !arr.Exists() || !arr.IsArray() {
		return nil, core.NewTransportError(source, "missing "+canonicalRoot(kind)+" field in payload", nil)
	}
	return decodeRegions(arr, "id", "nama"), nil
}

// Direct calls the canonical service without intermediaries.
type Direct struct {
	baseURL string
	client  *http.Client
}

// NewDirect creates the direct source. An empty baseURL falls back to the
// canonical default.
func NewDirect(baseURL string, client *http.Client) *Direct {
	if baseURL == "" {
		baseURL = DefaultCanonicalBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Direct{baseURL: baseURL, client: client}
}

func (d *Direct) Name() string { return "direct" }

// Fetch retrieves one lookup straight from the canonical service.
func (d *Direct) Fetch(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error) {
	body, err := getJSON(ctx, d.client, d.Name(), CanonicalURL(d.baseURL, kind, parentCode), nil)
	if err != nil {
		return nil, err
	}
	return decodeCanonical(d.Name(), kind, body)
}
