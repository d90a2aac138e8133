package rag

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/metrics"
	"github.com/avikram/studybuddy/internal/rag/chunker"
	"github.com/avikram/studybuddy/internal/rag/extract"
	"github.com/avikram/studybuddy/internal/rag/llm"
	"github.com/avikram/studybuddy/internal/rag/vectorDB"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

// Canned answers for the ask pipeline. These are responses, not errors -
// the caller always gets something displayable.
const (
	answerNoDocuments = "Please upload a document first before asking questions."
	answerNoMatches   = "I couldn't find any relevant information in the documents. Try rephrasing or uploading more content."
	answerNoConnect   = "Cannot connect to the model backend. Please make sure it is running."
	answerTimedOut    = "Response timed out. Try a shorter question."
	answerUnknown     = "An error occurred while generating the answer. Please try again."
)

// Service is the public contract of the study engine. Handlers only
// call this - they never see the vector store or the LLM client.
type Service interface {
	ProcessDocument(ctx context.Context, filePath string, fileName string) (docModel.ProcessResult, error)
	Ask(ctx context.Context, question string, documentFilter string) chatModel.AskResult
	RemoveDocument(ctx context.Context, documentName string) error
	Documents() []string
	DocumentInfo(documentName string) (docModel.DocumentRecord, bool)
	ClearConversation(ctx context.Context) error
	ClearAll(ctx context.Context) error
	ExportConversation(ctx context.Context, format string) (string, error)
	Stats(ctx context.Context) chatModel.SessionStats
}

type service struct {
	store        vectorDB.Store
	llmProvider  llm.Provider
	conversation chatModel.ConversationStore
	logger       *logger_i.Logger

	// mu serializes uploads, asks and clears end to end, preserving the
	// remove-then-add atomicity of re-uploads and the history ordering
	mu sync.Mutex

	statsMu sync.Mutex
	stats   chatModel.SessionStats
}

// NewService constructor
func NewService(store vectorDB.Store, llmProvider llm.Provider, conversation chatModel.ConversationStore) Service {
	return &service{
		store:        store,
		llmProvider:  llmProvider,
		conversation: conversation,
		logger:       logger_i.NewLogger("RAG Service :"),
		stats:        chatModel.SessionStats{SessionStart: time.Now().UTC()},
	}
}

// ProcessDocument extracts, chunks and indexes one uploaded file. Any
// failure surfaces as an error and leaves nothing registered.
func (s *service) ProcessDocument(ctx context.Context, filePath string, fileName string) (docModel.ProcessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document", fileName)
	inMethodLogger.Info("Processing document")

	text, pageMap, docType, err := extract.File(filePath, fileName)
	if err != nil {
		inMethodLogger.Error("Extraction failed", "error", err)
		return docModel.ProcessResult{}, fmt.Errorf("failed to process %q: %w", fileName, err)
	}

	chunks := chunker.Chunk(text, pageMap, fileName, config.ChunkSize, config.ChunkOverlap)
	if len(chunks) == 0 {
		return docModel.ProcessResult{}, fmt.Errorf("failed to process %q: %w", fileName, ragErrors.ErrEmptyChunkResult)
	}
	inMethodLogger.Info("Chunked document", "chunks", len(chunks), "pages", len(pageMap))

	if err := s.store.AddDocument(ctx, fileName, docType, chunks); err != nil {
		inMethodLogger.Error("Indexing failed", "error", err)
		return docModel.ProcessResult{}, fmt.Errorf("failed to process %q: %w", fileName, err)
	}

	s.statsMu.Lock()
	s.stats.DocumentsProcessed++
	s.statsMu.Unlock()
	metrics.IncrementDocumentsProcessed()

	return docModel.ProcessResult{
		DocumentName:    fileName,
		FileType:        docType,
		TotalCharacters: len(text),
		NumChunks:       len(chunks),
		NumPages:        len(pageMap),
		TotalDocuments:  len(s.store.Documents()),
	}, nil
}

// Ask runs the full question pipeline: retrieval, context assembly,
// generation, history update. It never returns an error - backend
// failures become displayable answers with an error tag.
func (s *service) Ask(ctx context.Context, question string, documentFilter string) chatModel.AskResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if len(s.store.Documents()) == 0 {
		return chatModel.AskResult{
			Answer:            answerNoDocuments,
			Sources:           []chatModel.Source{},
			DocumentsSearched: []string{},
		}
	}

	inMethodLogger.Info("Finding relevant information", "filter", documentFilter)
	matches, err := s.store.Query(ctx, question, config.TopKResults, documentFilter)
	if err != nil {
		inMethodLogger.Error("Retrieval failed", "error", err)
		return s.failureResult(err)
	}

	// counters reflect attempted questions, answered or not
	s.statsMu.Lock()
	s.stats.QuestionsAsked++
	s.stats.ChunksRetrieved += len(matches)
	s.statsMu.Unlock()
	metrics.IncrementQuestionsAsked()
	metrics.AddChunksRetrieved(len(matches))

	if len(matches) == 0 {
		return chatModel.AskResult{
			Answer:            answerNoMatches,
			Sources:           []chatModel.Source{},
			DocumentsSearched: s.store.Documents(),
		}
	}

	contextBlock := buildContext(matches)
	historyBlock := ""
	if config.IncludeConversationContext {
		recent, histErr := s.conversation.Recent(ctx, config.MaxConversationHistory)
		if histErr != nil {
			inMethodLogger.Warn("Could not read conversation history", "error", histErr)
		} else {
			historyBlock = buildConversationContext(recent)
		}
	}
	prompt := buildPrompt(question, contextBlock, historyBlock)

	inMethodLogger.Info("Generating answer", "chunks", len(matches))
	start := time.Now()
	answer, err := s.llmProvider.Generate(ctx, prompt, llm.Options{
		Temperature: config.ModelTemperature,
		MaxTokens:   config.ModelMaxTokens,
	})
	metrics.CaptureExecutionMetrics("llm_generate", time.Since(start))
	if err != nil {
		inMethodLogger.Error("Generation failed", "error", err)
		return s.failureResult(err)
	}

	if err := s.conversation.Append(ctx, question, answer); err != nil {
		// losing one history entry must not fail the answer
		inMethodLogger.Warn("Could not append to conversation history", "error", err)
	}

	sources := buildSources(matches, s.logger)
	return chatModel.AskResult{
		Answer:            answer,
		Sources:           sources,
		DocumentsSearched: dedupeDocuments(sources),
	}
}

// failureResult maps backend failures onto displayable answers. A
// timeout is deliberately tag-free: the user just retries.
func (s *service) failureResult(err error) chatModel.AskResult {
	switch {
	case errors.Is(err, ragErrors.ErrBackendTimeout):
		return chatModel.AskResult{
			Answer:            answerTimedOut,
			Sources:           []chatModel.Source{},
			DocumentsSearched: []string{},
		}
	case errors.Is(err, ragErrors.ErrBackendUnavailable):
		return chatModel.AskResult{
			Answer:            answerNoConnect,
			Sources:           []chatModel.Source{},
			DocumentsSearched: []string{},
			ErrorTag:          chatModel.ErrTagConnection,
		}
	default:
		return chatModel.AskResult{
			Answer:            answerUnknown,
			Sources:           []chatModel.Source{},
			DocumentsSearched: []string{},
			ErrorTag:          chatModel.ErrTagUnknown,
		}
	}
}

func (s *service) RemoveDocument(ctx context.Context, documentName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.RemoveDocument(ctx, documentName)
}

func (s *service) Documents() []string {
	return s.store.Documents()
}

func (s *service) DocumentInfo(documentName string) (docModel.DocumentRecord, bool) {
	return s.store.DocumentInfo(documentName)
}

// ClearConversation drops the history but keeps session statistics.
func (s *service) ClearConversation(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Clear(ctx)
}

// ClearAll wipes documents, conversation and statistics.
func (s *service) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	if err := s.conversation.Clear(ctx); err != nil {
		return err
	}

	s.statsMu.Lock()
	s.stats = chatModel.SessionStats{SessionStart: time.Now().UTC()}
	s.statsMu.Unlock()
	return nil
}

func (s *service) Stats(ctx context.Context) chatModel.SessionStats {
	s.statsMu.Lock()
	snapshot := s.stats
	s.statsMu.Unlock()

	snapshot.ConversationLength = s.conversation.Len(ctx)
	snapshot.DocumentsLoaded = len(s.store.Documents())
	snapshot.TotalChunks = s.store.ChunkCount()
	return snapshot
}
