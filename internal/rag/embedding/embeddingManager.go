package embedding

import "context"

// Embedder turns text into a fixed-length vector. EmbedBatch must return
// one vector per input text in input order - stored chunk IDs depend on
// that ordering.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
