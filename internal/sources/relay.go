package sources

import (
	"context"
	"net/http"
	"net/url"

	"goregion/internal/core"
)

// DefaultRelayPrefixes are the public CORS relays used as last-resort
// fallbacks. Each prefix is completed with the escaped canonical URL.
var DefaultRelayPrefixes = []string{
	"https://api.allorigins.win/raw?url=",
	"https://corsproxy.io/?url=",
}

// Relay is a generic pass-through proxy source. It wraps the canonical
// service's URL verbatim, so the response shape is identical to the
// canonical service. Relays are third-party and less reliable, which is
// fine: they only need to win when everything else is down.
type Relay struct {
	name          string
	prefix        string
	canonicalBase string
	client        *http.Client
}

// NewRelay creates one relay instance. prefix is the relay URL up to and
// including its url parameter (e.g. "https://api.allorigins.win/raw?url=").
func NewRelay(name, prefix, canonicalBase string, client *http.Client) *Relay {
	if canonicalBase == "" {
		canonicalBase = DefaultCanonicalBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Relay{name: name, prefix: prefix, canonicalBase: canonicalBase, client: client}
}

func (r *Relay) Name() string { return r.name }

// Fetch retrieves one lookup through the relay.
func (r *Relay) Fetch(ctx context.Context, kind core.Kind, parentCode string) ([]core.Region, error) {
	target := CanonicalURL(r.canonicalBase, kind, parentCode)
	body, err := getJSON(ctx, r.client, r.name, r.prefix+url.QueryEscape(target), nil)
	if err != nil {
		return nil, err
	}
	return decodeCanonical(r.name, kind, body)
}
