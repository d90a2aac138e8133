package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/data/redisStore"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

const conversationKey = "studybuddy:conversation"

// RedisConversationStore persists the transcript as a Redis list of
// JSON exchanges, so the conversation survives process restarts.
type RedisConversationStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func NewRedisConversationStore(store *redisStore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  store,
		logger: logger_i.NewLogger("conversation_store"),
	}
}

func (s *RedisConversationStore) Append(ctx context.Context, question string, answer string) error {
	payload, err := json.Marshal(chatModel.Exchange{
		Question:  question,
		Answer:    answer,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if err := s.store.ListPush(ctx, conversationKey, payload); err != nil {
		return err
	}
	if err := s.store.ListTrim(ctx, conversationKey, maxStoredExchanges); err != nil {
		return err
	}
	return s.store.Expire(ctx, conversationKey, config.RedisConversationTTL)
}

func (s *RedisConversationStore) Recent(ctx context.Context, n int) ([]chatModel.Exchange, error) {
	raw, err := s.store.ListLast(ctx, conversationKey, int64(n))
	if err != nil {
		if s.store.IsNil(err) {
			return []chatModel.Exchange{}, nil
		}
		return nil, err
	}

	exchanges := make([]chatModel.Exchange, 0, len(raw))
	for _, entry := range raw {
		var exchange chatModel.Exchange
		if err := json.Unmarshal([]byte(entry), &exchange); err != nil {
			//a corrupt entry loses one exchange, not the session
			s.logger.Warn("Skipping malformed conversation entry", "error", err)
			continue
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}

func (s *RedisConversationStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx, conversationKey)
}

func (s *RedisConversationStore) Len(ctx context.Context) int {
	count, err := s.store.ListLen(ctx, conversationKey)
	if err != nil {
		s.logger.Error("Could not read conversation length", "error", err)
		return 0
	}
	return int(count)
}
