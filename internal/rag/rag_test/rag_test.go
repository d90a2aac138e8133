package rag_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avikram/studybuddy/internal/data/store"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag"
	"github.com/avikram/studybuddy/internal/rag/llm"
)

func newService(vector *MockStore, provider *MockLLM) (rag.Service, chatModel.ConversationStore) {
	conversation := store.NewInMemoryConversationStore()
	return rag.NewService(vector, provider, conversation), conversation
}

func TestAsk_EmptyIndex(t *testing.T) {
	vector := &MockStore{OnDocuments: func() []string { return nil }}
	svc, _ := newService(vector, &MockLLM{})

	result := svc.Ask(context.Background(), "What is mitosis?", "")

	if !strings.Contains(result.Answer, "upload a document") {
		t.Errorf("Expected empty-state answer, got %q", result.Answer)
	}
	if result.ErrorTag != "" {
		t.Errorf("Empty index is not an error, got tag %q", result.ErrorTag)
	}
	if len(result.Sources) != 0 {
		t.Errorf("Expected no sources, got %v", result.Sources)
	}
}

func TestAsk_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		setupMocks      func(v *MockStore, l *MockLLM)
		expectedAnswer  string
		expectedTag     string
		expectedHistory int
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(v *MockStore, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer:  "final answer",
			expectedHistory: 1,
		},
		{
			name: "No_Matches",
			setupMocks: func(v *MockStore, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, q string, k int, f string) ([]docModel.QueryMatch, error) {
					return nil, nil
				}
			},
			expectedAnswer: "couldn't find any relevant information",
		},
		{
			name: "Failure_Connection",
			setupMocks: func(v *MockStore, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
					return "", ragErrors.ErrBackendUnavailable
				}
			},
			expectedAnswer: "Cannot connect",
			expectedTag:    chatModel.ErrTagConnection,
		},
		{
			name: "Failure_Timeout_Is_Tag_Free",
			setupMocks: func(v *MockStore, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
					return "", ragErrors.ErrBackendTimeout
				}
			},
			expectedAnswer: "timed out",
		},
		{
			name: "Failure_Unknown",
			setupMocks: func(v *MockStore, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
					return "", errors.New("model exploded")
				}
			},
			expectedAnswer: "error occurred",
			expectedTag:    chatModel.ErrTagUnknown,
		},
		{
			name: "Failure_Retrieval",
			setupMocks: func(v *MockStore, l *MockLLM) {
				v.OnQuery = func(ctx context.Context, q string, k int, f string) ([]docModel.QueryMatch, error) {
					return nil, ragErrors.ErrBackendUnavailable
				}
			},
			expectedAnswer: "Cannot connect",
			expectedTag:    chatModel.ErrTagConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector := &MockStore{}
			provider := &MockLLM{}
			tt.setupMocks(vector, provider)
			svc, conversation := newService(vector, provider)

			result := svc.Ask(context.Background(), "What is mitosis?", "")

			if !strings.Contains(result.Answer, tt.expectedAnswer) {
				t.Errorf("Answer %q does not contain %q", result.Answer, tt.expectedAnswer)
			}
			if result.ErrorTag != tt.expectedTag {
				t.Errorf("ErrorTag = %q, want %q", result.ErrorTag, tt.expectedTag)
			}
			if got := conversation.Len(context.Background()); got != tt.expectedHistory {
				t.Errorf("History length = %d, want %d", got, tt.expectedHistory)
			}
		})
	}
}

func TestAsk_SourceCards(t *testing.T) {
	long := strings.Repeat("x", 300)
	vector := &MockStore{
		OnQuery: func(ctx context.Context, q string, k int, f string) ([]docModel.QueryMatch, error) {
			return []docModel.QueryMatch{
				{Content: long, Page: 3, Document: "bio.pdf", Distance: 0.25},
				{Content: "short", Page: 1, Document: "bio.pdf", Distance: 0.4},
			}, nil
		},
	}
	svc, _ := newService(vector, &MockLLM{})

	result := svc.Ask(context.Background(), "q", "")

	if len(result.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(result.Sources))
	}
	if len(result.Sources[0].Content) != 253 || !strings.HasSuffix(result.Sources[0].Content, "...") {
		t.Errorf("Long content not truncated to preview: %d chars", len(result.Sources[0].Content))
	}
	if result.Sources[1].Content != "short" {
		t.Errorf("Short content must pass through untouched, got %q", result.Sources[1].Content)
	}
	if result.Sources[0].Relevance != 75.0 {
		t.Errorf("Relevance = %v, want 75.0", result.Sources[0].Relevance)
	}
	//both hits come from the same file
	if len(result.DocumentsSearched) != 1 || result.DocumentsSearched[0] != "bio.pdf" {
		t.Errorf("DocumentsSearched = %v, want [bio.pdf]", result.DocumentsSearched)
	}
}

func TestAsk_NoMatchesListsWholeCorpus(t *testing.T) {
	vector := &MockStore{
		OnDocuments: func() []string { return []string{"a.pdf", "b.txt"} },
		OnQuery: func(ctx context.Context, q string, k int, f string) ([]docModel.QueryMatch, error) {
			return nil, nil
		},
	}
	svc, _ := newService(vector, &MockLLM{})

	result := svc.Ask(context.Background(), "q", "b.txt")

	if len(result.DocumentsSearched) != 2 {
		t.Errorf("No-match response must list the whole corpus, got %v", result.DocumentsSearched)
	}
}

func TestAsk_HistoryFlowsIntoPrompt(t *testing.T) {
	var captured string
	provider := &MockLLM{
		OnGenerate: func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
			captured = prompt
			return "an answer", nil
		},
	}
	svc, _ := newService(&MockStore{}, provider)
	ctx := context.Background()

	svc.Ask(ctx, "first question", "")
	if strings.Contains(captured, "PREVIOUS CONVERSATION:") {
		t.Error("First question must not carry a history block")
	}

	svc.Ask(ctx, "second question", "")
	if !strings.Contains(captured, "PREVIOUS CONVERSATION:") {
		t.Error("Follow-up prompt missing the history block")
	}
	if !strings.Contains(captured, "User: first question") {
		t.Errorf("History block missing prior question:\n%s", captured)
	}
}

func TestProcessDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.txt")
	content := "Cells divide by mitosis.\n\nMeiosis produces gametes."
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var addedChunks []docModel.Chunk
	vector := &MockStore{
		OnAddDocument: func(ctx context.Context, name string, fileType docModel.DocType, chunks []docModel.Chunk) error {
			addedChunks = chunks
			return nil
		},
		OnDocuments: func() []string { return []string{"cells.txt"} },
	}
	svc, _ := newService(vector, &MockLLM{})

	result, err := svc.ProcessDocument(context.Background(), path, "cells.txt")
	if err != nil {
		t.Fatalf("ProcessDocument failed: %v", err)
	}
	if result.FileType != docModel.TXT || result.NumChunks != len(addedChunks) {
		t.Errorf("Result inconsistent with stored chunks: %+v", result)
	}
	if result.NumPages != 1 || result.TotalDocuments != 1 {
		t.Errorf("Result wrong: %+v", result)
	}
	if len(addedChunks) == 0 || addedChunks[0].Document != "cells.txt" {
		t.Errorf("Chunks not tagged with document: %v", addedChunks)
	}
}

func TestProcessDocument_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(path, []byte("  \n \n"), 0644); err != nil {
		t.Fatal(err)
	}

	svc, _ := newService(&MockStore{}, &MockLLM{})

	_, err := svc.ProcessDocument(context.Background(), path, "blank.txt")
	if !errors.Is(err, ragErrors.ErrNoExtractableText) {
		t.Errorf("Expected ErrNoExtractableText, got %v", err)
	}
}

func TestProcessDocument_IndexFailureSurfaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Some study notes."), 0644); err != nil {
		t.Fatal(err)
	}

	vector := &MockStore{
		OnAddDocument: func(ctx context.Context, name string, fileType docModel.DocType, chunks []docModel.Chunk) error {
			return ragErrors.ErrBackendUnavailable
		},
	}
	svc, _ := newService(vector, &MockLLM{})

	_, err := svc.ProcessDocument(context.Background(), path, "notes.txt")
	if !errors.Is(err, ragErrors.ErrBackendUnavailable) {
		t.Errorf("Expected backend error to surface, got %v", err)
	}
}

func TestExportConversation_Markdown(t *testing.T) {
	svc, conversation := newService(&MockStore{}, &MockLLM{})
	ctx := context.Background()

	conversation.Append(ctx, "q1", "a1")
	conversation.Append(ctx, "q2", "a2")

	out, err := svc.ExportConversation(ctx, "markdown")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got := strings.Count(out, "## Question"); got != 2 {
		t.Errorf("Expected exactly 2 question headers, got %d:\n%s", got, out)
	}
	if strings.Index(out, "q1") > strings.Index(out, "q2") {
		t.Error("Exchanges exported out of chronological order")
	}
}

func TestExportConversation_JSON(t *testing.T) {
	svc, conversation := newService(&MockStore{}, &MockLLM{})
	ctx := context.Background()

	conversation.Append(ctx, "q1", "a1")

	out, err := svc.ExportConversation(ctx, "json")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var parsed struct {
		Conversation []chatModel.Exchange `json:"conversation"`
		Documents    []string             `json:"documents"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if len(parsed.Conversation) != 1 || parsed.Conversation[0].Question != "q1" {
		t.Errorf("Export content wrong: %+v", parsed)
	}
}

func TestExportConversation_UnknownFormat(t *testing.T) {
	svc, _ := newService(&MockStore{}, &MockLLM{})

	if _, err := svc.ExportConversation(context.Background(), "xml"); err == nil {
		t.Error("Expected error for unknown export format")
	}
}

func TestStats_CountAttemptedQuestions(t *testing.T) {
	provider := &MockLLM{
		OnGenerate: func(ctx context.Context, prompt string, opts llm.Options) (string, error) {
			return "", errors.New("boom")
		},
	}
	vector := &MockStore{OnChunkCount: func() int { return 7 }}
	svc, _ := newService(vector, provider)
	ctx := context.Background()

	svc.Ask(ctx, "q", "")

	stats := svc.Stats(ctx)
	if stats.QuestionsAsked != 1 {
		t.Errorf("QuestionsAsked = %d, failed generations still count as attempts", stats.QuestionsAsked)
	}
	if stats.ChunksRetrieved != 1 {
		t.Errorf("ChunksRetrieved = %d, want 1", stats.ChunksRetrieved)
	}
	if stats.TotalChunks != 7 || stats.DocumentsLoaded != 1 {
		t.Errorf("Stats snapshot wrong: %+v", stats)
	}
}

func TestClearAll_ResetsStatsAndHistory(t *testing.T) {
	svc, conversation := newService(&MockStore{}, &MockLLM{})
	ctx := context.Background()

	svc.Ask(ctx, "q", "")
	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}

	stats := svc.Stats(ctx)
	if stats.QuestionsAsked != 0 || stats.ChunksRetrieved != 0 {
		t.Errorf("Stats not reset: %+v", stats)
	}
	if conversation.Len(ctx) != 0 {
		t.Error("Conversation not cleared")
	}
}

func TestClearConversation_KeepsStats(t *testing.T) {
	svc, conversation := newService(&MockStore{}, &MockLLM{})
	ctx := context.Background()

	svc.Ask(ctx, "q", "")
	if err := svc.ClearConversation(ctx); err != nil {
		t.Fatalf("ClearConversation failed: %v", err)
	}

	if conversation.Len(ctx) != 0 {
		t.Error("Conversation not cleared")
	}
	if svc.Stats(ctx).QuestionsAsked != 1 {
		t.Error("Clearing the conversation must not reset statistics")
	}
}
