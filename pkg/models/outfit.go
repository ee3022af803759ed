package models

import "time"

// Product is a synthetic product stub attached to an outfit. Values are
// display-only; the JSON keys are fixed by the manifest schema and are
// the same on disk and over the API.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Brand      string `json:"brand"`
	PriceLabel string `json:"priceLabel"`
}

// Outfit is one cached search result: an image plus display/attribution
// metadata and product stubs. This is the persisted form (snake_case);
// the bridge maps it into the API payload shape when serving.
type Outfit struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	ImageURL    string    `json:"image_url"`
	LocalPath   string    `json:"local_path,omitempty"`
	SourceURL   string    `json:"source_url"`
	CaptionHint string    `json:"caption_hint"`
	Products    []Product `json:"products"`
}

// DedupMarker identifies "the same" outfit across acquisitions: the
// local file path when the image was downloaded, the remote URL
// otherwise.
func (o Outfit) DedupMarker() string {
	if o.LocalPath != "" {
		return o.LocalPath
	}
	return o.ImageURL
}

// Manifest is the full persisted cache of outfits plus a generation
// timestamp. GeneratedAt is nil until the first acquisition writes it.
type Manifest struct {
	GeneratedAt *time.Time `json:"generated_at"`
	Outfits     []Outfit   `json:"outfits"`
}
