package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fitscroll/pkg/utils"
)

// pickExtension derives a file extension from the URL path suffix,
// restricted to the formats the client can render. Anything else falls
// back to .jpg.
func pickExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	switch ext := strings.ToLower(path.Ext(u.Path)); ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	default:
		return ".jpg"
	}
}

// download fetches one image into the images directory, under a
// collision-resistant name. Any failure degrades to remote serving: the
// outfit keeps its remote URL and gets no local path.
func (a *Acquirer) download(ctx context.Context, rawURL, keyword string) string {
	filename := utils.Slugify(keyword) + "-" + utils.RandomToken() + pickExtension(rawURL)
	destination := filepath.Join(a.ImagesDir, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Printf("[scraper] download %s: build request: %v", rawURL, err)
		return ""
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		log.Printf("[scraper] download %s: %v", rawURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[scraper] download %s: status %d", rawURL, resp.StatusCode)
		return ""
	}

	file, err := os.Create(destination)
	if err != nil {
		log.Printf("[scraper] create %s: %v", destination, err)
		return ""
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(destination) // drop the partial file
		log.Printf("[scraper] write %s: %v", destination, err)
		return ""
	}
	if err := file.Close(); err != nil {
		os.Remove(destination)
		log.Printf("[scraper] close %s: %v", destination, err)
		return ""
	}
	return destination
}
