package evaluation

import (
	"context"
	"strings"

	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/prompts"
)

// BuildDraftPrompt fills the bullet-drafting template.
func BuildDraftPrompt(jobTitle, jobContext, resume string) (string, error) {
	return prompts.Render(prompts.DraftingFile, "draft-bullets", map[string]string{
		"JobTitle": jobTitle,
		"Context":  jobContext,
		"Resume":   resume,
	})
}

// DraftBullets sends a drafting prompt to the model and returns its plain
// text reply, one bullet per line.
func (e *Evaluator) DraftBullets(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &ValidationError{Field: "prompt", Message: "prompt is empty"}
	}

	text, err := e.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", &APICallError{Step: StepDraftBullets, Message: "failed to generate content from LLM", Cause: err}
	}
	return strings.TrimSpace(text), nil
}

// SplitBullets breaks a drafted reply into bullet lines, dropping list
// markers and blank lines.
func SplitBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
