package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/teilomillet/gollm"
	"github.com/teilomillet/raggo/rag"
)

// DeepSearch runs an iterative evaluate-then-search loop: each round it
// retrieves, asks the LLM which of the new hits are actually relevant and
// whether another round is warranted, folds the relevant hits' text into
// an accumulated knowledge summary, and either stops or refines the query
// for the next round. A blacklist of (source, page) pairs the evaluator
// rejected keeps later rounds from re-surfacing and re-scoring those
// passages; accepted passages are not blacklisted and can be retrieved
// and judged again.
type DeepSearch struct {
	Manager    *rag.VectorStoreManager
	Strategy   rag.Strategy
	Collection string
	LLM        gollm.LLM

	TopK          int // per-round retrieval width. Zero means 8.
	MaxIterations int // Zero means 3.

	// Blacklist, if non-nil, is shared across Run calls (e.g. one per
	// multi-query sub-query) so a passage rejected while answering one
	// sub-query is not re-fetched and re-judged while answering another.
	// Run adds to it as it goes; if nil, Run uses a blacklist private to
	// this call.
	Blacklist map[string]struct{}
}

// Outcome is the result of running DeepSearch to completion.
type Outcome struct {
	Knowledge  string
	Hits       []rag.Hit
	Iterations int
}

type evaluateResponse struct {
	ValidIndex   []int  `json:"valid_index"`
	Knowledge    string `json:"knowledge"`
	SearchNeeded bool   `json:"search_needed"`
	NextQuery    string `json:"next_query"`
}

// Run executes the loop, stopping when the evaluator reports
// search_needed=false or MaxIterations is reached, whichever comes first.
func (d *DeepSearch) Run(ctx context.Context, query string) (Outcome, error) {
	topK := d.TopK
	if topK <= 0 {
		topK = 8
	}
	maxIter := d.MaxIterations
	if maxIter <= 0 {
		maxIter = 3
	}

	blacklist := d.Blacklist
	if blacklist == nil {
		blacklist = make(map[string]struct{})
	}
	knowledge := ""
	var collected []rag.Hit
	currentQuery := query

	iter := 0
	for ; iter < maxIter; iter++ {
		hits, err := d.Manager.QueryPoints(ctx, d.Collection, d.Strategy, currentQuery, topK, rag.NoThreshold, nil, nil)
		if err != nil {
			return Outcome{}, fmt.Errorf("plan: deepsearch retrieval round %d: %w", iter+1, err)
		}

		candidates := make([]rag.Hit, 0, len(hits))
		for _, h := range hits {
			if _, seen := blacklist[pageKey(h)]; seen {
				continue
			}
			candidates = append(candidates, h)
		}
		if len(candidates) == 0 {
			break
		}

		eval, err := d.evaluate(ctx, query, knowledge, candidates)
		if err != nil {
			return Outcome{}, err
		}

		valid := make(map[int]struct{}, len(eval.ValidIndex))
		for _, idx := range eval.ValidIndex {
			valid[idx] = struct{}{}
		}
		for idx, hit := range candidates {
			if _, ok := valid[idx]; ok {
				collected = append(collected, hit)
				continue
			}
			// Rejected by the evaluator: blacklist it so it doesn't
			// resurface and get re-judged in a later round.
			blacklist[pageKey(hit)] = struct{}{}
		}
		if eval.Knowledge != "" {
			knowledge = eval.Knowledge
		}

		if !eval.SearchNeeded {
			iter++
			break
		}
		if eval.NextQuery != "" {
			currentQuery = eval.NextQuery
		}
	}

	return Outcome{Knowledge: knowledge, Hits: collected, Iterations: iter}, nil
}

func (d *DeepSearch) evaluate(ctx context.Context, originalQuery, knowledgeSoFar string, candidates []rag.Hit) (evaluateResponse, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %s\n\n", originalQuery)
	if knowledgeSoFar != "" {
		fmt.Fprintf(&b, "Knowledge gathered so far:\n%s\n\n", knowledgeSoFar)
	}
	b.WriteString("Newly retrieved candidate passages:\n")
	for i, c := range candidates {
		text, _ := c.Payload["text"].(string)
		fmt.Fprintf(&b, "[%d] %s\n", i, text)
	}
	b.WriteString(`
Decide which of the candidate passages (by index) are actually relevant to answering the original question, and whether the question is sufficiently answered yet.

Respond with ONLY a JSON object of the form:
{"valid_index": [0, 2], "knowledge": "<updated running summary of everything learned so far, replacing the prior one>", "search_needed": true, "next_query": "<a refined query to search for next, if search_needed>"}
`)

	var resp evaluateResponse
	if err := generateJSON(ctx, d.LLM, b.String(), &resp); err != nil {
		return evaluateResponse{}, fmt.Errorf("plan: deepsearch evaluation: %w", err)
	}
	return resp, nil
}

func pageKey(h rag.Hit) string {
	source, _ := h.Payload["source"].(string)
	page := ""
	if p, ok := h.Payload["page"]; ok {
		page = fmt.Sprintf("%v", p)
	}
	return source + "#" + page
}
