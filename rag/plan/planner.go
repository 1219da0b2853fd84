package plan

import (
	"context"
	"fmt"

	"github.com/teilomillet/gollm"
)

// ServerFlavor names the kind of LLM backend Transform talks to: one
// with a "guided JSON" decoding extension (self-hosted servers like vLLM)
// or one with only the standard OpenAI-style API. The flavor changes only
// Transform's prompt text: FlavorStandard asks for the JSON object shape
// explicitly, FlavorGuidedJSON leaves that line out. Neither flavor sends
// a JSON schema, a guided_json field or a response_format parameter to
// the backend; for both, the reply is parsed by generateJSON and its
// repair pass.
type ServerFlavor int

const (
	// FlavorStandard is for OpenAI and OpenAI-compatible APIs without
	// guided decoding.
	FlavorStandard ServerFlavor = iota
	// FlavorGuidedJSON is for backends with guided decoding (e.g. vLLM,
	// or Ollama's structured-output mode).
	FlavorGuidedJSON
)

// Planner decomposes a user query into the sub-queries retrieval should
// actually run. It does not rewrite the query through HyDE or StepBack;
// those are separate calls (HypotheticalDocument, StepBackQuery).
type Planner struct {
	LLM    gollm.LLM
	Flavor ServerFlavor

	// MaxSubQueries bounds how many sub-queries Transform returns. Zero
	// means 4.
	MaxSubQueries int
}

type transformResponse struct {
	Queries []string `json:"queries"`
}

// Transform decomposes query into independent sub-queries that together
// cover what the original asks. A query with no internal compound
// structure comes back as a single-element slice containing itself.
func (p *Planner) Transform(ctx context.Context, query string) ([]string, error) {
	maxQ := p.MaxSubQueries
	if maxQ <= 0 {
		maxQ = 4
	}

	instruction := fmt.Sprintf(
		`Decompose the following question into %d or fewer independent sub-questions that, taken together, cover everything the original asks. If the question is already a single atomic question, return it unchanged as the only element.

Respond with ONLY a JSON object of the form {"queries": ["...", "..."]}.

Question: %s`,
		maxQ, query,
	)
	if p.Flavor == FlavorGuidedJSON {
		instruction = fmt.Sprintf(
			`Decompose the following question into %d or fewer independent sub-questions that, taken together, cover everything the original asks. If the question is already a single atomic question, return it unchanged as the only element.

Question: %s`,
			maxQ, query,
		)
	}

	var resp transformResponse
	if err := generateJSON(ctx, p.LLM, instruction, &resp); err != nil {
		return []string{query}, err
	}
	if len(resp.Queries) == 0 {
		return []string{query}, nil
	}
	if len(resp.Queries) > maxQ {
		resp.Queries = resp.Queries[:maxQ]
	}
	return resp.Queries, nil
}
