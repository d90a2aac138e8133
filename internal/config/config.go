package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking - smaller chunks give more precise retrieval,
	//the overlap keeps context continuity across chunk borders
	ChunkSize    = 400
	ChunkOverlap = 100

	//retrieval
	TopKResults = 5

	//conversation memory
	MaxConversationHistory     = 5
	IncludeConversationContext = true

	//answers should stay grounded in the retrieved material,
	//keep the temperature low and the output bounded
	ModelTemperature float32 = 0.3
	ModelMaxTokens           = 600

	//prompt-size control
	HistoryAnswerLimit = 200
	SourcePreviewLimit = 250

	//vectorDB
	EmbeddingOutputDimensionality int32 = 768
	CollectionName                      = "study_documents"
	QdrantHost                          = "localhost"
	QdrantGrpcPort                      = 6334
	QdrantUseTLS                        = false
	QdrantPoolSize                      = 1

	//persistence root - the document registry lives here next to
	//whatever the vector index itself persists
	PersistDirectory = "./studybuddy_data"

	//backends: "ollama" (default, local), "gemini" or "openai"
	DefaultBackend = "ollama"

	OllamaBaseURL      = "http://localhost:11434"
	OllamaLLMModel     = "llama3.2"
	OllamaEmbedModel   = "nomic-embed-text"
	EmbeddingTimeout   = 60 * time.Second
	GenerationTimeout  = 180 * time.Second
	GeminiModelName    = "gemini-2.5-flash-lite-preview-09-2025"
	GeminiEmbedModel   = "gemini-embedding-001"
	OpenAIModelName    = "gpt-4o-mini"
	OpenAIEmbedModel   = "text-embedding-3-small"

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 200 * time.Second //generation can take minutes
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":8000"

	MaxUploadSize = 32 << 20 //32mb

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword          = ""
	RedisConversationStore = 0
	RedisConversationTTL   = 24 * time.Hour
)

// Backend returns the configured model backend, STUDYBUDDY_BACKEND wins.
func Backend() string {
	if b := os.Getenv("STUDYBUDDY_BACKEND"); b != "" {
		return b
	}
	return DefaultBackend
}

func OllamaURL() string {
	if u := os.Getenv("OLLAMA_BASE_URL"); u != "" {
		return u
	}
	return OllamaBaseURL
}

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func PersistRoot() string {
	if dir := os.Getenv("STUDYBUDDY_DATA_DIR"); dir != "" {
		return dir
	}
	return PersistDirectory
}
