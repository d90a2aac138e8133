package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/avikram/studybuddy/internal/domain/chatModel"
)

type conversationExport struct {
	ExportedAt   time.Time              `json:"exported_at"`
	Documents    []string               `json:"documents"`
	Conversation []chatModel.Exchange   `json:"conversation"`
	Stats        chatModel.SessionStats `json:"stats"`
}

// ExportConversation renders the stored transcript as markdown or JSON.
func (s *service) ExportConversation(ctx context.Context, format string) (string, error) {
	exchanges, err := s.conversation.Recent(ctx, 0)
	if err != nil {
		return "", err
	}

	switch format {
	case "json":
		payload, err := json.MarshalIndent(conversationExport{
			ExportedAt:   time.Now().UTC(),
			Documents:    s.store.Documents(),
			Conversation: exchanges,
			Stats:        s.Stats(ctx),
		}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(payload), nil

	case "markdown":
		return s.exportMarkdown(ctx, exchanges), nil

	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

func (s *service) exportMarkdown(ctx context.Context, exchanges []chatModel.Exchange) string {
	documents := strings.Join(s.store.Documents(), ", ")
	if documents == "" {
		documents = "None"
	}
	stats := s.Stats(ctx)

	lines := []string{
		"# Study Buddy - Conversation Export",
		"",
		"**Exported:** " + time.Now().Format("2006-01-02 15:04"),
		"**Documents:** " + documents,
		fmt.Sprintf("**Questions asked:** %d", stats.QuestionsAsked),
		"",
		"---",
		"",
	}

	for i, exchange := range exchanges {
		lines = append(lines,
			fmt.Sprintf("## Question %d", i+1),
			"",
			"**Q:** "+exchange.Question,
			"",
			"**A:** "+exchange.Answer,
			"",
			"---",
			"",
		)
	}

	return strings.Join(lines, "\n")
}
