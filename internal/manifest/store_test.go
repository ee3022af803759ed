package manifest

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitscroll/pkg/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func outfit(id, keyword, imageURL, localPath string) models.Outfit {
	return models.Outfit{
		ID:          id,
		Keyword:     keyword,
		ImageURL:    imageURL,
		LocalPath:   localPath,
		SourceURL:   imageURL,
		CaptionHint: keyword + " fit",
		Products: []models.Product{
			{ID: id + "-1", Name: "Core Jacket", Brand: "fitscroll edit", PriceLabel: "$89"},
		},
	}
}

func TestMergeDedupFirstWins(t *testing.T) {
	existing := []models.Outfit{
		outfit("a", "red dress", "https://img.test/1.jpg", ""),
		outfit("b", "red dress", "https://img.test/2.jpg", ""),
	}
	incoming := []models.Outfit{
		outfit("c", "red dress", "https://img.test/1.jpg", ""), // duplicate of a
		outfit("d", "blue hat", "https://img.test/3.jpg", ""),
	}

	merged := Merge(existing, incoming)

	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, "d", merged[2].ID)
}

func TestMergeMarkerPrefersLocalPath(t *testing.T) {
	// same remote URL but different local files: both survive
	merged := Merge(
		[]models.Outfit{outfit("a", "red dress", "https://img.test/1.jpg", "/tmp/a.jpg")},
		[]models.Outfit{outfit("b", "red dress", "https://img.test/1.jpg", "/tmp/b.jpg")},
	)
	require.Len(t, merged, 2)

	// same local file: first wins even when remote URLs differ
	merged = Merge(
		[]models.Outfit{outfit("a", "red dress", "https://img.test/1.jpg", "/tmp/same.jpg")},
		[]models.Outfit{outfit("b", "red dress", "https://img.test/2.jpg", "/tmp/same.jpg")},
	)
	require.Len(t, merged, 1)
	assert.Equal(t, "a", merged[0].ID)
}

func TestLoadSelfHealing(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		store := newStore(t)
		m := store.Load()
		assert.Nil(t, m.GeneratedAt)
		require.NotNil(t, m.Outfits)
		assert.Empty(t, m.Outfits)
	})

	t.Run("empty file", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0o644))
		m := store.Load()
		assert.Nil(t, m.GeneratedAt)
		assert.Empty(t, m.Outfits)
	})

	t.Run("corrupt file", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))
		m := store.Load()
		assert.Nil(t, m.GeneratedAt)
		assert.Empty(t, m.Outfits)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)

	generated := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	saved := models.Manifest{
		GeneratedAt: &generated,
		Outfits: []models.Outfit{
			outfit("a", "red dress", "https://img.test/1.jpg", ""),
			outfit("b", "blue hat", "https://img.test/2.jpg", "/tmp/b.jpg"),
		},
	}
	require.NoError(t, store.Save(saved))

	loaded := store.Load()
	require.NotNil(t, loaded.GeneratedAt)
	assert.True(t, loaded.GeneratedAt.Equal(generated))
	assert.Equal(t, saved.Outfits, loaded.Outfits)
}

func TestClear(t *testing.T) {
	store := newStore(t)

	_, err := store.Append([]models.Outfit{outfit("a", "red dress", "https://img.test/1.jpg", "")})
	require.NoError(t, err)
	require.NoError(t, store.Clear())

	m := store.Load()
	assert.Empty(t, m.Outfits)
	assert.Nil(t, m.GeneratedAt)
}

func TestAppendDedupsAndStamps(t *testing.T) {
	store := newStore(t)

	first, err := store.Append([]models.Outfit{
		outfit("a", "red dress", "https://img.test/1.jpg", ""),
	})
	require.NoError(t, err)
	require.NotNil(t, first.GeneratedAt)
	require.Len(t, first.Outfits, 1)

	second, err := store.Append([]models.Outfit{
		outfit("dup", "red dress", "https://img.test/1.jpg", ""),
		outfit("b", "blue hat", "https://img.test/2.jpg", ""),
	})
	require.NoError(t, err)
	require.Len(t, second.Outfits, 2)
	assert.Equal(t, "a", second.Outfits[0].ID)
	assert.Equal(t, "b", second.Outfits[1].ID)

	// the append result matches what a fresh load sees
	assert.Equal(t, second.Outfits, store.Load().Outfits)
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	store := newStore(t)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("https://img.test/%d.jpg", i)
			_, err := store.Append([]models.Outfit{outfit(fmt.Sprintf("o%d", i), "red dress", url, "")})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Load().Outfits, workers)
}

func TestOpenRefusesSecondInstance(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	defer store.Close()

	_, err = Open(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}
