// Package bridge is the HTTP serving layer: it composes the manifest
// store, the coverage resolver, and the acquirer into the /search
// request cycle and serves downloaded images back to the client.
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"fitscroll/internal/coverage"
	"fitscroll/internal/manifest"
	"fitscroll/internal/scraper"
	"fitscroll/pkg/models"
)

const (
	defaultLimit = 12
	maxLimit     = 60
)

// Handler serves the bridge HTTP surface. It is stateless per request;
// the only shared state is the manifest store, which serializes its own
// mutations.
type Handler struct {
	Store    *manifest.Store
	Acquirer *scraper.Acquirer
	Addr     string // bound address, host fallback for image URLs
	Download bool
}

func NewHandler(store *manifest.Store, acquirer *scraper.Acquirer, addr string, download bool) *Handler {
	return &Handler{Store: store, Acquirer: acquirer, Addr: addr, Download: download}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/search", h.search)
	r.GET("/health", h.health)
	r.GET("/images/:filename", h.image)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not-found"})
	})
}

// searchRequest keeps keywords raw so a non-array value can be told
// apart from a body that does not parse at all.
type searchRequest struct {
	Keywords json.RawMessage `json:"keywords"`
	Limit    int             `json:"limit"`
	Fresh    bool            `json:"fresh"`
}

// apiOutfit is the response shape the client consumes; manifest
// snake_case fields map onto these camelCase keys.
type apiOutfit struct {
	ImageURL    string           `json:"imageUrl"`
	SourceURL   string           `json:"sourceUrl"`
	CaptionHint string           `json:"captionHint"`
	Products    []models.Product `json:"products"`
}

func (h *Handler) search(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid-json"})
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	var req searchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid-json"})
		return
	}

	keywords := []string{}
	if len(req.Keywords) > 0 && string(req.Keywords) != "null" {
		var parsed []string
		if err := json.Unmarshal(req.Keywords, &parsed); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "keywords-must-be-array"})
			return
		}
		for _, kw := range parsed {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if req.Fresh {
		log.Printf("[bridge] fresh request, clearing manifest")
		if err := h.Store.Clear(); err != nil {
			log.Printf("[bridge] clear manifest: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest write failed"})
			return
		}
	}

	m := h.Store.Load()
	cl := coverage.Classify(m, keywords)

	switch {
	case len(cl.Missing) > 0:
		per := coverage.AcquisitionSize(len(cl.Missing), limit)
		log.Printf("[bridge] acquiring missing keywords %v (per-keyword %d)", cl.Missing, per)
		acquired := h.Acquirer.AcquireBatch(c.Request.Context(), cl.Missing, per, h.Download)
		if m, err = h.Store.Append(acquired); err != nil {
			log.Printf("[bridge] append manifest: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest write failed"})
			return
		}
	case coverage.NeedsTopUp(m, keywords, limit):
		per := coverage.AcquisitionSize(len(keywords), limit)
		log.Printf("[bridge] topping up: have %d outfits, need %d", len(m.Outfits), limit)
		acquired := h.Acquirer.AcquireBatch(c.Request.Context(), keywords, per, h.Download)
		if m, err = h.Store.Append(acquired); err != nil {
			log.Printf("[bridge] append manifest: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "manifest write failed"})
			return
		}
	}

	selected := coverage.Select(m.Outfits, keywords, limit)
	log.Printf("[bridge] returning %d outfits", len(selected))
	c.JSON(http.StatusOK, gin.H{"outfits": h.apiOutfits(selected, c.Request.Host)})
}

// apiOutfits maps selected outfits into the response payload. Outfits
// whose downloaded file still exists get their image URL rewritten to
// the same-origin /images route; the rest keep the remote URL.
func (h *Handler) apiOutfits(outfits []models.Outfit, host string) []apiOutfit {
	if host == "" {
		host = h.Addr
	}
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}

	out := make([]apiOutfit, 0, len(outfits))
	for _, o := range outfits {
		imageURL := o.ImageURL
		if o.LocalPath != "" {
			if info, err := os.Stat(o.LocalPath); err == nil && info.Mode().IsRegular() {
				imageURL = fmt.Sprintf("http://%s/images/%s", host, filepath.Base(o.LocalPath))
			}
		}

		caption := o.CaptionHint
		if caption == "" {
			caption = o.Keyword
		}
		if caption == "" {
			caption = "lookbook"
		}

		sourceURL := o.SourceURL
		if sourceURL == "" {
			sourceURL = o.ImageURL
		}

		products := o.Products
		if products == nil {
			products = []models.Product{}
		}

		out = append(out, apiOutfit{
			ImageURL:    imageURL,
			SourceURL:   sourceURL,
			CaptionHint: caption,
			Products:    products,
		})
	}
	return out
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "manifest": h.Store.Path()})
}

// image streams a downloaded file. The requested name is resolved
// strictly inside the images directory; traversal attempts are
// indistinguishable from missing files.
func (h *Handler) image(c *gin.Context) {
	name := c.Param("filename")

	base, err := filepath.Abs(h.Store.ImagesDir())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image-not-found"})
		return
	}
	target := filepath.Join(base, name)

	rel, err := filepath.Rel(base, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "image-not-found"})
		return
	}

	info, err := os.Stat(target)
	if err != nil || !info.Mode().IsRegular() {
		c.JSON(http.StatusNotFound, gin.H{"error": "image-not-found"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.File(target)
}
