package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"fitscroll/internal/manifest"
	"fitscroll/internal/scraper"
	"fitscroll/pkg/utils"
)

func main() {
	keywordsFlag := flag.String("keywords", "", "comma-separated keywords to scrape")
	limitPerKeyword := flag.Int("limit-per-keyword", 10, "images to request per keyword")
	skipDownload := flag.Bool("skip-download", false, "record remote URLs without downloading")
	flag.Parse()

	keywords := parseKeywords(*keywordsFlag)
	if len(keywords) == 0 {
		log.Fatal("at least one keyword is required")
	}
	perKeyword := *limitPerKeyword
	if perKeyword < 1 {
		perKeyword = 1
	}

	cfg, err := utils.LoadBridgeConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := manifest.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("open manifest store: %v", err)
	}
	defer store.Close()

	provider, err := scraper.NewProvider(cfg)
	if err != nil {
		log.Fatalf("configure search provider: %v", err)
	}
	acquirer := scraper.NewAcquirer(provider, store.ImagesDir(), cfg.HTTPTimeout())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	outfits := acquirer.AcquireBatch(ctx, keywords, perKeyword, !*skipDownload)
	m, err := store.Append(outfits)
	if err != nil {
		log.Fatalf("save manifest: %v", err)
	}

	log.Printf("[scraper] scraped %d outfits (%d total) -> %s", len(outfits), len(m.Outfits), store.Path())
}

func parseKeywords(raw string) []string {
	var out []string
	for _, segment := range strings.Split(raw, ",") {
		if segment = strings.TrimSpace(segment); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}
