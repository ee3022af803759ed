package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MirrorSource fetches a fixed URL list from a local mirror endpoint
// (see cmd/mirror-server). It ignores the keyword: the mirror is a
// demo-safe stand-in for when live search is unavailable.
type MirrorSource struct {
	URL    string
	Client *http.Client
}

func NewMirrorSource(rawURL string) *MirrorSource {
	return &MirrorSource{
		URL:    rawURL,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *MirrorSource) Name() string { return "mirror" }

type mirrorDocument struct {
	URLs []string `json:"urls"`
}

func (s *MirrorSource) Search(ctx context.Context, keyword string, count int) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror: status %d", resp.StatusCode)
	}

	var doc mirrorDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("mirror: decode: %w", err)
	}

	if len(doc.URLs) > count {
		return doc.URLs[:count], nil
	}
	return doc.URLs, nil
}
