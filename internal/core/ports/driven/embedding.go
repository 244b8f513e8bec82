package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Indexing and semantic search both require it.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//   - Local models via inference servers
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// Implementations must preserve input order in the output and
	// truncate over-long inputs to the provider's cap rather than fail.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	// The name is recorded on snapshots so a model change invalidates
	// cached embeddings.
	ModelName() string

	// Close releases resources.
	Close() error
}
