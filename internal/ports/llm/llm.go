package llm

import "context"

// IGenerator is the text-generation service, treated as a black box that
// accepts a prompt and returns free text. Unreliable and slow: every call
// carries a bounded timeout and failures surface as
// domain.ErrExternalService.
type IGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
