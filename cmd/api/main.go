// @title           Study Buddy API
// @version         1.0
// @description     Retrieval-augmented question answering over uploaded study documents.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/data/redisStore"
	"github.com/avikram/studybuddy/internal/data/store"
	"github.com/avikram/studybuddy/internal/domain/chatModel"
	"github.com/avikram/studybuddy/internal/handlers"
	"github.com/avikram/studybuddy/internal/rag"
	"github.com/avikram/studybuddy/internal/rag/embedding"
	"github.com/avikram/studybuddy/internal/rag/embedding/googleEmbedding"
	"github.com/avikram/studybuddy/internal/rag/embedding/ollamaEmbedding"
	"github.com/avikram/studybuddy/internal/rag/embedding/openaiEmbedding"
	"github.com/avikram/studybuddy/internal/rag/llm"
	"github.com/avikram/studybuddy/internal/rag/llm/gemini"
	"github.com/avikram/studybuddy/internal/rag/llm/ollama"
	"github.com/avikram/studybuddy/internal/rag/llm/openai"
	"github.com/avikram/studybuddy/internal/rag/vectorDB/qdrantDB"
	"github.com/avikram/studybuddy/internal/server"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	embedder, llmProvider := buildBackend(serviceContext, logger)
	if embedder == nil || llmProvider == nil {
		logger.Error("Model backend failed to initialize. Shutting down.")
		return
	}

	vectorStore := qdrantDB.GetQdrantStore(serviceContext, embedder)
	if vectorStore == nil {
		logger.Error("Vector store failed to initialize. Shutting down.")
		return
	}

	//conversation history lives in Redis when available, in memory otherwise
	var conversation chatModel.ConversationStore
	if redis := redisStore.GetRedisStore(serviceContext, config.RedisConversationStore); redis != nil {
		conversation = store.NewRedisConversationStore(redis)
	} else {
		logger.Error("Redis is offline, conversation history will not survive restarts")
		conversation = store.NewInMemoryConversationStore()
	}

	ragService := rag.NewService(vectorStore, llmProvider, conversation)
	handlers.InitRagHandler(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildBackend(ctx context.Context, logger *logger_i.Logger) (embedding.Embedder, llm.Provider) {
	backend := config.Backend()
	logger.Info("Using model backend", "backend", backend)

	switch backend {
	case "gemini":
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, config.GeminiEmbedModel, config.GoogleAPIKey()),
			gemini.GetGeminiClient(ctx, config.GeminiModelName, config.GoogleAPIKey())
	case "openai":
		return openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIAPIKey(), config.OpenAIEmbedModel),
			openai.GetOpenAIClient(config.OpenAIAPIKey(), config.OpenAIModelName)
	default:
		return ollamaEmbedding.GetOllamaEmbeddingClient(config.OllamaURL(), config.OllamaEmbedModel),
			ollama.GetOllamaClient(config.OllamaURL(), config.OllamaLLMModel)
	}
}
