package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/teilomillet/raggo/rag"
)

func TestExtractJSON_StripsCodeFences(t *testing.T) {
	in := "```json\n{\"queries\": [\"a\", \"b\"]}\n```"
	assert.Equal(t, `{"queries": ["a", "b"]}`, extractJSON(in))
}

func TestExtractJSON_StripsSurroundingProse(t *testing.T) {
	in := `Sure, here you go: {"valid_index": [0]} Hope that helps!`
	assert.Equal(t, `{"valid_index": [0]}`, extractJSON(in))
}

func hitWithPage(id, source string, page int) rag.Hit {
	return rag.Hit{ID: id, Payload: map[string]interface{}{"source": source, "page": page}}
}

func TestResultMerge_InterleavesAndDedups(t *testing.T) {
	a := []rag.Hit{hitWithPage("1", "a.pdf", 1), hitWithPage("2", "a.pdf", 2), hitWithPage("3", "a.pdf", 3)}
	b := []rag.Hit{hitWithPage("2b", "a.pdf", 2), hitWithPage("4", "b.pdf", 1)}

	merged := ResultMerge(nil, a, b)
	ids := make([]string, len(merged))
	for i, h := range merged {
		ids[i] = h.ID
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestResultMerge_SkipsBlacklistedKeys(t *testing.T) {
	a := []rag.Hit{hitWithPage("1", "a.pdf", 1), hitWithPage("2", "a.pdf", 2)}
	blacklist := map[string]struct{}{"a.pdf#2": {}}

	merged := ResultMerge(blacklist, a)
	ids := make([]string, len(merged))
	for i, h := range merged {
		ids[i] = h.ID
	}
	assert.Equal(t, []string{"1"}, ids)
}

func TestPageKey_CombinesSourceAndPage(t *testing.T) {
	hit := rag.Hit{Payload: map[string]interface{}{"source": "doc.pdf", "page": 3}}
	assert.Equal(t, "doc.pdf#3", pageKey(hit))
}
