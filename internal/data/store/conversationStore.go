package store

import (
	"context"
	"sync"
	"time"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
)

// exchanges beyond this are dropped, keeping double the prompt window
// so shortening the window later still has older context to draw on
const maxStoredExchanges = 2 * config.MaxConversationHistory

// InMemoryConversationStore keeps the session transcript in process
// memory. It is the fallback when Redis is offline - history then dies
// with the process.
type InMemoryConversationStore struct {
	mu        sync.RWMutex
	exchanges []chatModel.Exchange
}

func NewInMemoryConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{}
}

func (s *InMemoryConversationStore) Append(ctx context.Context, question string, answer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges = append(s.exchanges, chatModel.Exchange{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	})
	if len(s.exchanges) > maxStoredExchanges {
		s.exchanges = s.exchanges[len(s.exchanges)-maxStoredExchanges:]
	}
	return nil
}

func (s *InMemoryConversationStore) Recent(ctx context.Context, n int) ([]chatModel.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.exchanges) {
		n = len(s.exchanges)
	}
	recent := make([]chatModel.Exchange, n)
	copy(recent, s.exchanges[len(s.exchanges)-n:])
	return recent, nil
}

func (s *InMemoryConversationStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = nil
	return nil
}

func (s *InMemoryConversationStore) Len(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exchanges)
}
