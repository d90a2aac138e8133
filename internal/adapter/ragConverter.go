package adapter

import (
	"github.com/avikram/studybuddy/internal/api"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
	"github.com/avikram/studybuddy/internal/domain/docModel"
)

func ToAskResponse(result chatModel.AskResult) api.AskResponse {
	sources := make([]api.SourceResponse, 0, len(result.Sources))
	for _, source := range result.Sources {
		sources = append(sources, api.SourceResponse{
			Document:  source.Document,
			Page:      source.Page,
			Content:   source.Content,
			Relevance: source.Relevance,
		})
	}

	return api.AskResponse{
		Answer:            result.Answer,
		Sources:           sources,
		DocumentsSearched: result.DocumentsSearched,
		Error:             result.ErrorTag,
	}
}

func ToUploadResponse(result docModel.ProcessResult) api.UploadResponse {
	return api.UploadResponse{
		DocumentName:    result.DocumentName,
		FileType:        string(result.FileType),
		TotalCharacters: result.TotalCharacters,
		NumChunks:       result.NumChunks,
		NumPages:        result.NumPages,
		TotalDocuments:  result.TotalDocuments,
	}
}

func ToDocumentSummary(name string, record docModel.DocumentRecord) api.DocumentSummary {
	return api.DocumentSummary{
		Name:       name,
		ChunkCount: record.ChunkCount,
		FileType:   string(record.FileType),
		IngestedAt: record.IngestedAt,
	}
}

func ToStatsResponse(stats chatModel.SessionStats) api.StatsResponse {
	return api.StatsResponse{
		DocumentsProcessed: stats.DocumentsProcessed,
		QuestionsAsked:     stats.QuestionsAsked,
		ChunksRetrieved:    stats.ChunksRetrieved,
		SessionStart:       stats.SessionStart,
		ConversationLength: stats.ConversationLength,
		DocumentsLoaded:    stats.DocumentsLoaded,
		TotalChunks:        stats.TotalChunks,
	}
}

func BadRequest(document string, message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.ErrorDetail{
			Code:     code,
			Message:  message,
			Document: document,
		},
	}
}
