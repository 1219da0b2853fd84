// Package plan implements query transformation strategies that run ahead
// of retrieval: generating a hypothetical answer passage to search with
// instead of the bare question (HyDE), generalizing a narrow question into
// one more likely to match how a passage states its claim (StepBack),
// decomposing a compound question into independent sub-queries, and an
// iterative evaluate-then-search loop (DeepSearch) that keeps retrieving
// until an LLM judge decides it has enough to answer or a budget runs out.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teilomillet/gollm"
)

// generateJSON asks llm to answer strictly in JSON matching the shape
// described by instruction, and unmarshals the response into out. Backends
// that support a constrained decoding mode (a "guided JSON" extension some
// self-hosted servers expose alongside the standard chat completion
// endpoint) would enforce the schema server-side; here the constraint is
// carried entirely in the prompt, and a single repair attempt re-prompts
// the model with the parse error if the first response isn't valid JSON.
func generateJSON(ctx context.Context, llm gollm.LLM, instruction string, out interface{}) error {
	prompt := gollm.NewPrompt(instruction)
	text, err := llm.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("plan: generating: %w", err)
	}

	if err := json.Unmarshal([]byte(extractJSON(text)), out); err == nil {
		return nil
	}

	repair := fmt.Sprintf(
		"Your previous response was not valid JSON. Respond again with ONLY valid JSON, no prose, no code fences.\n\nOriginal instruction:\n%s\n\nYour previous response:\n%s",
		instruction, text,
	)
	text, err = llm.Generate(ctx, gollm.NewPrompt(repair))
	if err != nil {
		return fmt.Errorf("plan: repairing malformed JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), out); err != nil {
		return fmt.Errorf("plan: response is not valid JSON after repair: %w", err)
	}
	return nil
}

// extractJSON strips Markdown code fences and any prose surrounding the
// first top-level JSON value, since models asked for "JSON only" routinely
// wrap it in ```json blocks or a leading sentence anyway.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return s
	}
	return s[start : end+1]
}
