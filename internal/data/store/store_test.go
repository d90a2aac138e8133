package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/avikram/studybuddy/internal/data/redisStore"
)

func newRedisConversationStore(t *testing.T) *RedisConversationStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisConversationStore(redisStore.NewTestStore(client))
}

func TestInMemoryStore_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryConversationStore()

	s.Append(ctx, "What is mitosis?", "Cell division.")
	s.Append(ctx, "And meiosis?", "Produces gametes.")

	recent, err := s.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 exchanges, got %d", len(recent))
	}
	if recent[0].Question != "What is mitosis?" || recent[1].Answer != "Produces gametes." {
		t.Errorf("Exchanges out of order: %+v", recent)
	}
}

func TestInMemoryStore_RecentWindow(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryConversationStore()

	for i := 0; i < 4; i++ {
		s.Append(ctx, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	recent, _ := s.Recent(ctx, 2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 exchanges, got %d", len(recent))
	}
	if recent[0].Question != "q2" || recent[1].Question != "q3" {
		t.Errorf("Expected last two exchanges, got %+v", recent)
	}
}

func TestInMemoryStore_BoundsStoredExchanges(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryConversationStore()

	for i := 0; i < maxStoredExchanges+3; i++ {
		s.Append(ctx, fmt.Sprintf("q%d", i), "a")
	}

	if got := s.Len(ctx); got != maxStoredExchanges {
		t.Errorf("Len = %d, want %d", got, maxStoredExchanges)
	}
	recent, _ := s.Recent(ctx, 1)
	if recent[0].Question != fmt.Sprintf("q%d", maxStoredExchanges+2) {
		t.Errorf("Newest exchange lost: %+v", recent)
	}
}

func TestInMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryConversationStore()

	s.Append(ctx, "q", "a")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Len(ctx) != 0 {
		t.Error("Store not empty after Clear")
	}
}

func TestRedisStore_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	s := newRedisConversationStore(t)

	if err := s.Append(ctx, "What is osmosis?", "Diffusion of water."); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := s.Append(ctx, "Across what?", "A membrane."); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	recent, err := s.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 exchanges, got %d", len(recent))
	}
	if recent[0].Question != "What is osmosis?" || recent[1].Answer != "A membrane." {
		t.Errorf("Exchanges wrong: %+v", recent)
	}
}

func TestRedisStore_TrimsToBound(t *testing.T) {
	ctx := context.Background()
	s := newRedisConversationStore(t)

	for i := 0; i < maxStoredExchanges+4; i++ {
		if err := s.Append(ctx, fmt.Sprintf("q%d", i), "a"); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if got := s.Len(ctx); got != maxStoredExchanges {
		t.Errorf("Len = %d, want %d", got, maxStoredExchanges)
	}
}

func TestRedisStore_EmptyRecent(t *testing.T) {
	ctx := context.Background()
	s := newRedisConversationStore(t)

	recent, err := s.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("Expected no exchanges, got %v", recent)
	}
}

func TestRedisStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := newRedisConversationStore(t)

	s.Append(ctx, "q", "a")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if s.Len(ctx) != 0 {
		t.Error("Store not empty after Clear")
	}
}
