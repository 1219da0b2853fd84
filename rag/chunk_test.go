package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_SmallInputIsIdempotent(t *testing.T) {
	text := "a short sentence."
	got := Split(text, 200, 50)
	require.Equal(t, []string{text}, got)
}

func TestSplit_CoversAllNonSeparatorCharacters(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 20)
	chunks := Split(text, 80, 20)
	require.NotEmpty(t, chunks)

	// Each chunk after the first starts with the previous chunk's last
	// 20 characters (the overlap); drop that prefix so the rebuilt text
	// holds every character of the input exactly once.
	var rebuilt strings.Builder
	for i, c := range chunks {
		if i > 0 {
			c = strings.TrimPrefix(c, tailRunes(chunks[i-1], 20))
		}
		rebuilt.WriteString(c)
	}
	strip := func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}
	assert.Equal(t, strip(text), strip(rebuilt.String()))
}

func TestSplit_OverlapNeverExceedsConfigured(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta. ", 30)
	chunkSize, overlap := 60, 15
	chunks := Split(text, chunkSize, overlap)
	require.True(t, len(chunks) > 1)

	for i := 0; i < len(chunks)-1; i++ {
		a, b := chunks[i], chunks[i+1]
		maxOverlap := 0
		for l := overlap; l > 0; l-- {
			if l > len(a) || l > len(b) {
				continue
			}
			if strings.HasSuffix(a, b[:l]) {
				maxOverlap = l
				break
			}
		}
		assert.LessOrEqual(t, maxOverlap, overlap)
	}
}

func TestSplit_FallsBackToFixedStride(t *testing.T) {
	text := strings.Repeat("x", 500)
	chunks := Split(text, 100, 20)
	require.True(t, len(chunks) > 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
	}
}
