package vectorDB

import (
	"context"

	"github.com/avikram/studybuddy/internal/domain/docModel"
)

// Store is the retrieval backend. It owns both the vector index and the
// document registry, so documents and chunk counts reflect exactly what
// is searchable.
type Store interface {
	AddDocument(ctx context.Context, documentName string, fileType docModel.DocType, chunks []docModel.Chunk) error
	RemoveDocument(ctx context.Context, documentName string) error

	// Query retrieves the k nearest chunks for the question. An empty
	// documentFilter searches the whole corpus.
	Query(ctx context.Context, question string, k int, documentFilter string) ([]docModel.QueryMatch, error)

	Clear(ctx context.Context) error

	Documents() []string
	DocumentInfo(documentName string) (docModel.DocumentRecord, bool)
	ChunkCount() int
}
