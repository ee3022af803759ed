package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// TokenLength is the number of hex characters in a random token. Ten
// characters (40 bits) keeps ids and filenames collision-resistant
// across concurrent acquisitions of the same keyword.
const TokenLength = 10

// Slugify converts free text into a URL/filename-safe slug: lower-case,
// every maximal run of non-alphanumeric characters collapses into a
// single dash. Input with no usable characters becomes "keyword".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))

	prevDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "keyword"
	}
	return out
}

// RandomToken returns a short random hex token for id and filename
// suffixes.
func RandomToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:TokenLength]
}
