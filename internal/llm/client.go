package llm

import "context"

// Client is the text-completion contract the analysis pipeline consumes.
// Implementations must tolerate free-form, occasionally malformed upstream
// output; interpretation is the caller's problem.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
