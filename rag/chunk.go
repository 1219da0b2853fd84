// Package rag implements character-based text chunking for documents being
// indexed into the vector store, used by both the ingestion pipeline and
// the contextual-enrichment path.
package rag

import (
	"strings"
)

// separatorCascade is the ordered list of separators tried by Split, from
// coarsest to finest. The first separator that yields more than one
// non-empty segment is used to assemble chunks; if none do, Split falls
// back to fixed-stride slicing.
var separatorCascade = []string{
	"\n\n", "\n", " ", ".", ",",
	"​", // zero-width space
	"，",      // fullwidth comma
	"、",      // ideographic comma
	"．",      // fullwidth period
	"。",      // ideographic period
}

// Split divides text into a sequence of chunks of about chunkSize
// characters, with approximately chunkOverlap characters of overlap
// between adjacent chunks. It is used by the ingestion pipeline and the
// vector store manager, where a character budget (not a token budget)
// governs indexing. A segment longer than chunkSize is not split further,
// and a new chunk is the carried overlap plus the next whole segment, so
// a chunk assembled from segments can exceed chunkSize; only the
// fixed-stride fallback bounds every chunk at chunkSize characters.
//
// If len(text) <= chunkSize the result is []string{text}. Otherwise the
// cascade of separators is tried in order; the first one producing more
// than one segment is used to assemble chunks greedily. If every
// separator fails to split the text, Split slices it at a fixed stride
// of chunkSize-chunkOverlap.
func Split(text string, chunkSize, chunkOverlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}

	for _, sep := range separatorCascade {
		segments := splitKeepingOrder(text, sep)
		if len(segments) > 1 {
			return assembleFromSegments(segments, sep, chunkSize, chunkOverlap)
		}
	}
	return splitFixedStride(text, chunkSize, chunkOverlap)
}

// splitKeepingOrder splits s on sep, dropping empty segments but
// preserving document order.
func splitKeepingOrder(s, sep string) []string {
	raw := strings.Split(s, sep)
	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// assembleFromSegments greedily accumulates segments (rejoined with sep)
// until adding the next one would exceed chunkSize, emits the
// accumulator, then starts the next chunk with the trailing
// chunkOverlap characters of the chunk just emitted.
func assembleFromSegments(segments []string, sep string, chunkSize, chunkOverlap int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
		}
	}

	for _, seg := range segments {
		candidate := seg
		if current.Len() > 0 {
			candidate = sep + seg
		}
		if current.Len() > 0 && current.Len()+len(candidate) > chunkSize {
			flush()
			overlap := tailRunes(current.String(), chunkOverlap)
			current.Reset()
			current.WriteString(overlap)
			if current.Len() > 0 {
				current.WriteString(sep)
			}
			current.WriteString(seg)
			continue
		}
		current.WriteString(candidate)
	}
	flush()
	return chunks
}

// tailRunes returns the trailing n characters (runes) of s, rune-safe so
// multi-byte separators such as "。" are never split mid-codepoint.
func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// splitFixedStride is the fallback used when no separator in the cascade
// produces more than one segment: it slices text at a fixed stride of
// chunkSize-chunkOverlap characters.
func splitFixedStride(text string, chunkSize, chunkOverlap int) []string {
	stride := chunkSize - chunkOverlap
	if stride <= 0 {
		stride = chunkSize
	}
	r := []rune(text)
	var chunks []string
	for start := 0; start < len(r); start += stride {
		end := start + chunkSize
		if end > len(r) {
			end = len(r)
		}
		chunks = append(chunks, string(r[start:end]))
		if end == len(r) {
			break
		}
	}
	return chunks
}
