package plan

import "github.com/teilomillet/raggo/rag"

// ResultMerge combines multiple ranked result sets (e.g. one per
// sub-query from Transform, or one per DeepSearch sub-query run) into a
// single deduplicated ranking. It interleaves round-robin across the sets
// rather than concatenating them, so a set ranked second doesn't lose all
// of its hits to a longer first set once the combined list is truncated.
// Hits are keyed by (source, page) rather than point id, since the same
// passage can be chunked and re-embedded under different point ids across
// strategies; the first occurrence of a key wins since it carries that
// result's best-ranked score. A hit whose key is already in blacklist
// (candidates a DeepSearch evaluation round rejected) is dropped rather
// than merged in. blacklist may be nil.
func ResultMerge(blacklist map[string]struct{}, sets ...[]rag.Hit) []rag.Hit {
	seen := make(map[string]struct{})
	var merged []rag.Hit

	maxLen := 0
	for _, s := range sets {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	for i := 0; i < maxLen; i++ {
		for _, s := range sets {
			if i >= len(s) {
				continue
			}
			hit := s[i]
			key := pageKey(hit)
			if _, blocked := blacklist[key]; blocked {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, hit)
		}
	}

	return merged
}
