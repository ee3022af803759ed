// Package coverage decides, for each incoming request, which keywords
// the manifest already satisfies, how much new data to acquire, and
// which cached outfits best answer the request.
package coverage

import (
	"sort"
	"strings"

	"fitscroll/pkg/models"
)

// AcquisitionSize bounds are fixed regardless of the requested limit,
// trading completeness for bounded remote-call cost.
const (
	minPerKeyword = 4
	maxPerKeyword = 20
)

// Classification splits requested keywords into those already covered
// by the manifest and those needing fresh acquisition.
type Classification struct {
	Covered map[string]struct{}
	Missing []string
}

// Classify reports, for each requested keyword, whether at least one
// outfit was acquired for it. Matching is a case-insensitive exact
// comparison against the outfit keyword, not a substring test. Missing
// keywords keep their input order and casing.
func Classify(m models.Manifest, keywords []string) Classification {
	existing := make(map[string]struct{}, len(m.Outfits))
	for _, o := range m.Outfits {
		existing[strings.ToLower(o.Keyword)] = struct{}{}
	}

	cl := Classification{Covered: make(map[string]struct{})}
	for _, kw := range keywords {
		if _, ok := existing[strings.ToLower(kw)]; ok {
			cl.Covered[kw] = struct{}{}
			continue
		}
		cl.Missing = append(cl.Missing, kw)
	}
	return cl
}

// NeedsTopUp reports whether every requested keyword is covered but the
// manifest still holds fewer outfits than the requested limit. Never
// true for an empty keyword list.
func NeedsTopUp(m models.Manifest, keywords []string, limit int) bool {
	if len(keywords) == 0 {
		return false
	}
	cl := Classify(m, keywords)
	return len(cl.Missing) == 0 && len(m.Outfits) < limit
}

// AcquisitionSize computes how many new outfits to request per keyword:
// limit divided by the keyword count, plus two, clamped to [4, 20].
func AcquisitionSize(keywordCount, limit int) int {
	if keywordCount < 1 {
		keywordCount = 1
	}
	n := limit/keywordCount + 2
	if n < minPerKeyword {
		return minPerKeyword
	}
	if n > maxPerKeyword {
		return maxPerKeyword
	}
	return n
}

// Select ranks cached outfits against the requested keywords and
// returns at most limit of them. Each outfit scores one point per
// requested keyword appearing as a substring of its own keyword, so a
// two-token phrase match outranks a single partial hit. Zero scorers
// are excluded from the ranked pass but may return as backfill, in
// manifest order, so the response is never under-filled while the
// manifest still has entries.
func Select(outfits []models.Outfit, keywords []string, limit int) []models.Outfit {
	if limit < 0 {
		limit = 0
	}
	if len(keywords) == 0 {
		if len(outfits) > limit {
			return outfits[:limit]
		}
		return outfits
	}

	normalized := make([]string, len(keywords))
	for i, kw := range keywords {
		normalized[i] = strings.ToLower(kw)
	}

	type scoredOutfit struct {
		score  int
		outfit models.Outfit
	}
	ranked := make([]scoredOutfit, 0, len(outfits))
	for _, o := range outfits {
		key := strings.ToLower(o.Keyword)
		score := 0
		for _, token := range normalized {
			if strings.Contains(key, token) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scoredOutfit{score: score, outfit: o})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	selected := make([]models.Outfit, 0, limit)
	for _, r := range ranked {
		if len(selected) == limit {
			break
		}
		selected = append(selected, r.outfit)
	}

	if len(selected) < limit {
		picked := make(map[string]struct{}, len(selected))
		for _, o := range selected {
			picked[o.ID] = struct{}{}
		}
		for _, o := range outfits {
			if len(selected) == limit {
				break
			}
			if _, ok := picked[o.ID]; ok {
				continue
			}
			selected = append(selected, o)
		}
	}
	return selected
}
