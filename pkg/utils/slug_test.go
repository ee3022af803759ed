package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Red Dress":          "red-dress",
		"  streetwear  fit ": "streetwear-fit",
		"y2k!!aesthetic":     "y2k-aesthetic",
		"---":                "keyword",
		"":                   "keyword",
		"café look":          "caf-look",
		"90s GRUNGE":         "90s-grunge",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "%q", in)
	}
}

func TestRandomToken(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token := RandomToken()
		assert.Len(t, token, TokenLength)
		for _, r := range token {
			assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'), "hex alphabet, got %q", token)
		}
		seen[token] = struct{}{}
	}
	assert.Len(t, seen, 100, "tokens collide far too easily")
}
