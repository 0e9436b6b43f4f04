package repository

import "context"

// LLMRepository defines the generative-model operations used by the
// extraction cascade. The response is raw model text; the caller is
// responsible for tolerating non-conforming output.
type LLMRepository interface {
	// Complete sends a system instruction plus the raw user text and
	// returns the model's text response.
	Complete(ctx context.Context, system, user string) (string, error)
}
