package driven

import "context"

// CompletionService provides text completion for query expansion.
// This is an optional service - when nil, the raw query is embedded
// without a hypothetical-answer rewrite.
type CompletionService interface {
	// Complete produces a completion for the given system and user
	// prompts. Failures are tolerated by callers: query expansion is
	// best-effort and never fatal to a search.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the completion model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
