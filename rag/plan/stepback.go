package plan

import (
	"context"
	"fmt"

	"github.com/teilomillet/gollm"
)

// StepBackQuery implements step-back prompting: it asks the LLM to
// generalize a specific question into the broader question it's an
// instance of. Retrieving against the broader question surfaces context a
// narrow, detail-specific query would miss because the passage that states
// the general principle rarely repeats the specific instance being asked
// about.
func StepBackQuery(ctx context.Context, llm gollm.LLM, query string) (string, error) {
	prompt := gollm.NewPrompt(fmt.Sprintf(
		"Given the following specific question, write a single more general question that captures "+
			"the underlying concept or principle it depends on. Respond with only the general question, "+
			"nothing else.\n\nSpecific question: %s",
		query,
	))
	general, err := llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("plan: generating step-back query: %w", err)
	}
	return general, nil
}
