package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"fitscroll/pkg/models"
)

const (
	manifestFile = "pinterest_manifest.json"
	imagesSubdir = "pinterest_images"
	lockFile     = "manifest.lock"
)

// Store owns the on-disk manifest: a single JSON document holding every
// outfit the bridge has cached so far. All mutation funnels through the
// store, so concurrent requests cannot interleave load-merge-save
// cycles and lose updates.
type Store struct {
	path      string
	imagesDir string

	mu   sync.Mutex
	lock *flock.Flock
}

// Open bootstraps the data directory and acquires the manifest instance
// lock. A second process (e.g. the scraper CLI while the bridge is
// running) gets an error instead of silently racing the file.
func Open(dataDir string) (*Store, error) {
	imagesDir := filepath.Join(dataDir, imagesSubdir)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure images dir: %w", err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire manifest lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("manifest in %s is locked by another process", dataDir)
	}

	return &Store{
		path:      filepath.Join(dataDir, manifestFile),
		imagesDir: imagesDir,
		lock:      lock,
	}, nil
}

// Close releases the instance lock.
func (s *Store) Close() error {
	return s.lock.Unlock()
}

// Path returns the absolute path of the backing manifest file.
func (s *Store) Path() string {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return s.path
	}
	return abs
}

// ImagesDir is the directory downloaded images are stored in and served
// from.
func (s *Store) ImagesDir() string {
	return s.imagesDir
}

// Load returns a copy of the persisted manifest. A missing, empty, or
// unparsable file yields the empty manifest; corruption never
// propagates to callers.
func (s *Store) Load() models.Manifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() models.Manifest {
	empty := models.Manifest{Outfits: []models.Outfit{}}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return empty
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return empty
	}

	var m models.Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Printf("[manifest] %s is corrupt, starting empty: %v", s.path, err)
		return empty
	}
	if m.Outfits == nil {
		m.Outfits = []models.Outfit{}
	}
	return m
}

// Save serializes the manifest and fully replaces the prior file
// content. Write failures are fatal to the calling operation.
func (s *Store) Save(m models.Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(m)
}

func (s *Store) write(m models.Manifest) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Clear replaces the manifest with an empty one. Used by "fresh"
// requests to wipe the cache before re-acquiring.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(models.Manifest{Outfits: []models.Outfit{}})
}

// Append merges incoming outfits into the persisted manifest and
// returns the result. The whole load-merge-save cycle runs as one
// critical section so concurrent appends cannot lose each other's
// outfits.
func (s *Store) Append(incoming []models.Outfit) (models.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.read()
	m.Outfits = Merge(m.Outfits, incoming)
	now := time.Now().UTC()
	m.GeneratedAt = &now

	if err := s.write(m); err != nil {
		return models.Manifest{}, err
	}
	return m, nil
}

// Merge appends incoming to existing, then drops duplicates by dedup
// marker. The first occurrence wins and survivor order is preserved.
func Merge(existing, incoming []models.Outfit) []models.Outfit {
	combined := make([]models.Outfit, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)

	seen := make(map[string]struct{}, len(combined))
	deduped := make([]models.Outfit, 0, len(combined))
	for _, o := range combined {
		marker := o.DedupMarker()
		if _, ok := seen[marker]; ok {
			continue
		}
		seen[marker] = struct{}{}
		deduped = append(deduped, o)
	}
	return deduped
}
