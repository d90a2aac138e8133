package api

import "time"

// requests---------------------

type AskRequest struct {
	Question       string `json:"question" validate:"required" example:"What is mitosis?"`
	DocumentFilter string `json:"document_filter,omitempty" example:"biology.pdf"`
}

// responses--------------------

type SourceResponse struct {
	Document  string  `json:"document" example:"biology.pdf"`
	Page      int     `json:"page" example:"3"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance" example:"87.5"`
}

type AskResponse struct {
	Answer            string           `json:"answer"`
	Sources           []SourceResponse `json:"sources"`
	DocumentsSearched []string         `json:"documents_searched"`
	Error             string           `json:"error,omitempty" example:"connection_error"`
}

type UploadResponse struct {
	DocumentName    string `json:"document_name" example:"biology.pdf"`
	FileType        string `json:"file_type" example:"PDF"`
	TotalCharacters int    `json:"total_characters"`
	NumChunks       int    `json:"num_chunks"`
	NumPages        int    `json:"num_pages"`
	TotalDocuments  int    `json:"total_documents"`
}

type DocumentSummary struct {
	Name       string    `json:"name" example:"biology.pdf"`
	ChunkCount int       `json:"chunk_count" example:"12"`
	FileType   string    `json:"file_type,omitempty" example:"PDF"`
	IngestedAt time.Time `json:"ingested_at,omitempty"`
}

type DocumentListResponse struct {
	Documents   []DocumentSummary `json:"documents"`
	TotalChunks int               `json:"total_chunks"`
}

type StatsResponse struct {
	DocumentsProcessed int       `json:"documents_processed"`
	QuestionsAsked     int       `json:"questions_asked"`
	ChunksRetrieved    int       `json:"chunks_retrieved"`
	SessionStart       time.Time `json:"session_start"`
	ConversationLength int       `json:"conversation_length"`
	DocumentsLoaded    int       `json:"documents_loaded"`
	TotalChunks        int       `json:"total_chunks"`
}

type StatusResponse struct {
	Status    string   `json:"status" example:"ready"`
	Backend   string   `json:"backend" example:"ollama"`
	Documents []string `json:"documents"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Conversation cleared"`
}

type ErrorDetail struct {
	Code     int    `json:"code" example:"400"`
	Message  string `json:"message" example:"document_name is required"`
	Document string `json:"document,omitempty" example:"biology.pdf"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
