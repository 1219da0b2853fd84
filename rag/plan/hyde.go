package plan

import (
	"context"
	"fmt"

	"github.com/teilomillet/gollm"
)

// HypotheticalDocument implements HyDE: instead of embedding the question
// verbatim, it asks the LLM to write a short passage that would plausibly
// answer it, and returns that passage for the caller to embed and search
// with. A hypothetical answer tends to sit closer, in embedding space, to
// the real passage that answers the question than the question itself
// does, since both are declarative statements about the same fact.
func HypotheticalDocument(ctx context.Context, llm gollm.LLM, query string) (string, error) {
	prompt := gollm.NewPrompt(fmt.Sprintf(
		"Write a short, plausible passage (3-5 sentences) that would directly answer the following question. "+
			"Write it as if it were an excerpt from a document, not as a direct reply to the question. "+
			"Do not mention that you are generating a hypothetical answer.\n\nQuestion: %s",
		query,
	))
	doc, err := llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("plan: generating hypothetical document: %w", err)
	}
	return doc, nil
}
