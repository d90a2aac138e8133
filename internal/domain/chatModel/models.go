package chatModel

import (
	"context"
	"time"
)

// Exchange is one question/answer pair in the conversation window.
type Exchange struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Source is a citation card shown alongside an answer.
type Source struct {
	Document  string  `json:"document"`
	Page      int     `json:"page"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

// Error tags carried on an AskResult. An empty tag means the answer is
// either a real answer or a guided empty/no-match message.
const (
	ErrTagConnection = "connection_error"
	ErrTagUnknown    = "unknown_error"
)

// AskResult is always displayable - backend failures are folded into the
// Answer text plus an ErrorTag instead of propagating as errors.
type AskResult struct {
	Answer            string   `json:"answer"`
	Sources           []Source `json:"sources"`
	DocumentsSearched []string `json:"documents_searched"`
	ErrorTag          string   `json:"error,omitempty"`
}

// SessionStats are monotonically increasing counters, reset only by a
// full clear (not by clearing the conversation alone).
type SessionStats struct {
	DocumentsProcessed int       `json:"documents_processed"`
	QuestionsAsked     int       `json:"questions_asked"`
	ChunksRetrieved    int       `json:"chunks_retrieved"`
	SessionStart       time.Time `json:"session_start"`

	ConversationLength int `json:"conversation_length"`
	DocumentsLoaded    int `json:"documents_loaded"`
	TotalChunks        int `json:"total_chunks"`
}

// ConversationStore is the bounded rolling Q&A history. Implementations
// keep at most 2x the configured window and evict FIFO.
type ConversationStore interface {
	Append(ctx context.Context, question string, answer string) error
	// Recent returns the last n exchanges oldest first. n <= 0 returns
	// everything stored.
	Recent(ctx context.Context, n int) ([]Exchange, error)
	Clear(ctx context.Context) error
	Len(ctx context.Context) int
}
