package rag_test

import (
	"context"

	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/internal/rag/llm"
)

// MockStore implements vectorDB.Store
type MockStore struct {
	// Control fields to simulate different behaviors
	OnAddDocument    func(ctx context.Context, documentName string, fileType docModel.DocType, chunks []docModel.Chunk) error
	OnRemoveDocument func(ctx context.Context, documentName string) error
	OnQuery          func(ctx context.Context, question string, k int, documentFilter string) ([]docModel.QueryMatch, error)
	OnClear          func(ctx context.Context) error
	OnDocuments      func() []string
	OnDocumentInfo   func(documentName string) (docModel.DocumentRecord, bool)
	OnChunkCount     func() int
}

func (m *MockStore) AddDocument(ctx context.Context, documentName string, fileType docModel.DocType, chunks []docModel.Chunk) error {
	if m.OnAddDocument != nil {
		return m.OnAddDocument(ctx, documentName, fileType, chunks)
	}
	return nil
}

func (m *MockStore) RemoveDocument(ctx context.Context, documentName string) error {
	if m.OnRemoveDocument != nil {
		return m.OnRemoveDocument(ctx, documentName)
	}
	return nil
}

func (m *MockStore) Query(ctx context.Context, question string, k int, documentFilter string) ([]docModel.QueryMatch, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, question, k, documentFilter)
	}
	return []docModel.QueryMatch{{Content: "default content", Page: 1, Document: "default.pdf", Distance: 0.2}}, nil
}

func (m *MockStore) Clear(ctx context.Context) error {
	if m.OnClear != nil {
		return m.OnClear(ctx)
	}
	return nil
}

func (m *MockStore) Documents() []string {
	if m.OnDocuments != nil {
		return m.OnDocuments()
	}
	return []string{"default.pdf"}
}

func (m *MockStore) DocumentInfo(documentName string) (docModel.DocumentRecord, bool) {
	if m.OnDocumentInfo != nil {
		return m.OnDocumentInfo(documentName)
	}
	return docModel.DocumentRecord{}, false
}

func (m *MockStore) ChunkCount() int {
	if m.OnChunkCount != nil {
		return m.OnChunkCount()
	}
	return 0
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt, opts)
	}
	return "mocked llm response", nil
}
