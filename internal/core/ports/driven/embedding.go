package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, keyword expansion is skipped and
// relevance scoring falls back to lexical matching.
//
// Implementations must be deterministic for identical input within a session.
// Implementations may include:
//   - Ollama (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The result holds one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// EmbeddingCache persists embeddings keyed by model and text.
type EmbeddingCache interface {
	// Get returns the cached vector, or false when absent.
	Get(ctx context.Context, model, text string) ([]float32, bool, error)

	// Put stores a vector for the model and text.
	Put(ctx context.Context, model, text string, vector []float32) error
}
