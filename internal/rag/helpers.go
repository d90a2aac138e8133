package rag

import (
	"fmt"
	"math"
	"strings"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

const contextSeparator = "\n\n---\n\n"

// buildContext concatenates retrieved chunks in rank order, best match
// first, each labeled with its source document and page.
func buildContext(matches []docModel.QueryMatch) string {
	parts := make([]string, 0, len(matches))
	for i, match := range matches {
		sourceInfo := fmt.Sprintf("[%s, Page %d]", match.Document, match.Page)
		parts = append(parts, fmt.Sprintf("[Source %d] %s\n%s", i+1, sourceInfo, match.Content))
	}
	return strings.Join(parts, contextSeparator)
}

// buildConversationContext renders the recent exchanges, oldest first.
// Historical answers are truncated to keep the prompt bounded.
func buildConversationContext(recent []chatModel.Exchange) string {
	if len(recent) == 0 {
		return ""
	}

	parts := []string{"PREVIOUS CONVERSATION:"}
	for _, exchange := range recent {
		parts = append(parts, "User: "+exchange.Question)
		answer := exchange.Answer
		if len(answer) > config.HistoryAnswerLimit {
			answer = answer[:config.HistoryAnswerLimit] + "..."
		}
		parts = append(parts, "Assistant: "+answer)
	}
	return strings.Join(parts, "\n")
}

func buildPrompt(question string, contextBlock string, historyBlock string) string {
	parts := []string{
		"You are a helpful, friendly study assistant. Answer questions based on the provided study materials.",
		"",
		"STUDY MATERIALS:",
		contextBlock,
	}

	if historyBlock != "" {
		parts = append(parts, "", historyBlock)
	}

	parts = append(parts,
		"",
		"CURRENT QUESTION: "+question,
		"",
		"INSTRUCTIONS:",
		"- Answer based ONLY on the study materials above",
		"- If the answer isn't in the materials, say so honestly",
		"- Reference the source document and page when relevant",
		"- Be clear, educational, and helpful",
		"",
		"YOUR ANSWER:",
	)

	return strings.Join(parts, "\n")
}

// buildSources turns retrieval hits into citation cards with a preview
// snippet and a relevance percentage.
func buildSources(matches []docModel.QueryMatch, logger *logger_i.Logger) []chatModel.Source {
	sources := make([]chatModel.Source, 0, len(matches))
	for _, match := range matches {
		content := match.Content
		if len(content) > config.SourcePreviewLimit {
			content = content[:config.SourcePreviewLimit] + "..."
		}
		sources = append(sources, chatModel.Source{
			Document:  match.Document,
			Page:      match.Page,
			Content:   content,
			Relevance: relevance(match.Distance, logger),
		})
	}
	return sources
}

// relevance converts a cosine distance into a percentage. The formula
// assumes distances in [0,1]; anything outside is clamped and logged so
// a differently scaled metric is noticed instead of silently producing
// negative percentages.
func relevance(distance float64, logger *logger_i.Logger) float64 {
	score := (1 - distance) * 100
	if score < 0 {
		logger.Warn("Distance outside expected [0,1] range", "distance", distance)
		score = 0
	}
	return math.Round(score*10) / 10
}

func dedupeDocuments(sources []chatModel.Source) []string {
	seen := make(map[string]bool, len(sources))
	names := make([]string, 0, len(sources))
	for _, source := range sources {
		if !seen[source.Document] {
			seen[source.Document] = true
			names = append(names, source.Document)
		}
	}
	return names
}
