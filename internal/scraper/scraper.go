// Package scraper turns keywords into outfit records: it asks the
// search provider for image URLs, optionally downloads each image into
// local storage, and attaches synthetic product metadata.
package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fitscroll/pkg/models"
	"fitscroll/pkg/utils"
)

// batchConcurrency bounds how many keywords acquire in parallel.
const batchConcurrency = 4

// Acquirer fetches outfits for keywords via a SearchProvider and
// downloads images into ImagesDir.
type Acquirer struct {
	Provider  SearchProvider
	ImagesDir string
	Client    *http.Client
}

// NewAcquirer creates an Acquirer with the given download timeout for
// each image request.
func NewAcquirer(provider SearchProvider, imagesDir string, timeout time.Duration) *Acquirer {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Acquirer{
		Provider:  provider,
		ImagesDir: imagesDir,
		Client:    &http.Client{Timeout: timeout},
	}
}

// Acquire fetches up to perKeyword outfits for one keyword. Provider
// failures are logged and produce an empty result: one broken keyword
// should not kill the whole batch.
func (a *Acquirer) Acquire(ctx context.Context, keyword string, perKeyword int, download bool) []models.Outfit {
	urls, err := a.Provider.Search(ctx, keyword, perKeyword)
	if err != nil {
		log.Printf("[scraper] %s search failed for %q: %v", a.Provider.Name(), keyword, err)
		return nil
	}

	outfits := make([]models.Outfit, 0, len(urls))
	for i, imageURL := range urls {
		localPath := ""
		if download {
			localPath = a.download(ctx, imageURL, keyword)
		}
		outfits = append(outfits, models.Outfit{
			ID:          utils.Slugify(keyword) + "-" + utils.RandomToken(),
			Keyword:     keyword,
			ImageURL:    imageURL,
			LocalPath:   localPath,
			SourceURL:   imageURL,
			CaptionHint: keyword + " fit",
			Products:    buildProducts(keyword, i),
		})
	}
	return outfits
}

// AcquireBatch acquires every keyword, a few at a time. Results are
// slotted by keyword index and flattened in keyword order, so manifest
// insertion order does not depend on which download finishes first.
func (a *Acquirer) AcquireBatch(ctx context.Context, keywords []string, perKeyword int, download bool) []models.Outfit {
	results := make([][]models.Outfit, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, keyword := range keywords {
		i, keyword := i, keyword
		g.Go(func() error {
			results[i] = a.Acquire(gctx, keyword, perKeyword, download)
			return nil
		})
	}
	// per-keyword failures are absorbed inside Acquire
	_ = g.Wait()

	flat := make([]models.Outfit, 0)
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat
}

// buildProducts derives two display-only product stubs from the first
// two whitespace tokens of the keyword and the acquisition index.
// Deterministic given the same inputs.
func buildProducts(keyword string, seed int) []models.Product {
	tokens := strings.Fields(keyword)
	anchor := "Core"
	if len(tokens) > 0 {
		anchor = capitalize(tokens[0])
	}
	accent := "Classic"
	if len(tokens) > 1 {
		accent = capitalize(tokens[1])
	}

	slug := utils.Slugify(keyword)
	return []models.Product{
		{
			ID:         fmt.Sprintf("%s-%d-1", slug, seed),
			Name:       anchor + " Jacket",
			Brand:      "fitscroll edit",
			PriceLabel: fmt.Sprintf("$%d", 89+(seed%6)*17),
		},
		{
			ID:         fmt.Sprintf("%s-%d-2", slug, seed),
			Name:       accent + " Pants",
			Brand:      "fitscroll edit",
			PriceLabel: fmt.Sprintf("$%d", 69+(seed%5)*14),
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
}
