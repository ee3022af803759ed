package scraper

import (
	"context"
	"fmt"

	"fitscroll/pkg/utils"
)

// browserUserAgent mimics a desktop browser. Pinterest and several
// image CDNs refuse requests carrying the default Go client UA.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0 Safari/537.36"

// SearchProvider is the external keyword-to-image-URL capability. Each
// implementation is responsible for its own transport and response
// format; the acquirer only sees URLs. A test double implementing this
// interface gives deterministic acquisitions without network access.
type SearchProvider interface {
	Name() string
	Search(ctx context.Context, keyword string, count int) ([]string, error)
}

// NewProvider picks the configured search provider.
func NewProvider(cfg utils.BridgeConfig) (SearchProvider, error) {
	switch cfg.Source {
	case "", "pinterest":
		return NewPinterestSource(), nil
	case "mirror":
		return NewMirrorSource(cfg.MirrorURL), nil
	}
	return nil, fmt.Errorf("unknown search source %q", cfg.Source)
}
