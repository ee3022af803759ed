package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const pinterestBase = "https://www.pinterest.com"

// PinterestSource queries Pinterest's public search resource endpoint
// and extracts the original-resolution image URL of each result pin.
type PinterestSource struct {
	BaseURL string
	Client  *http.Client
}

func NewPinterestSource() *PinterestSource {
	return &PinterestSource{
		BaseURL: pinterestBase,
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (s *PinterestSource) Name() string { return "pinterest" }

type pinSearchResponse struct {
	ResourceResponse struct {
		Data struct {
			Results []struct {
				Images map[string]struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"results"`
		} `json:"data"`
	} `json:"resource_response"`
}

func (s *PinterestSource) Search(ctx context.Context, keyword string, count int) ([]string, error) {
	options := map[string]any{
		"query":     keyword,
		"scope":     "pins",
		"page_size": count,
	}
	data, err := json.Marshal(map[string]any{"options": options, "context": map[string]any{}})
	if err != nil {
		return nil, fmt.Errorf("pinterest: encode options: %w", err)
	}

	u, err := url.Parse(s.BaseURL + "/resource/BaseSearchResource/get/")
	if err != nil {
		return nil, fmt.Errorf("pinterest: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("source_url", "/search/pins/?q="+url.QueryEscape(keyword))
	q.Set("data", string(data))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("pinterest: build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pinterest: request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pinterest: status %d", resp.StatusCode)
	}

	var parsed pinSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("pinterest: decode: %w", err)
	}

	urls := make([]string, 0, count)
	for _, result := range parsed.ResourceResponse.Data.Results {
		img, ok := result.Images["orig"]
		if !ok || img.URL == "" {
			continue
		}
		urls = append(urls, img.URL)
		if len(urls) >= count {
			break
		}
	}
	return urls, nil
}
