package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag/embedding"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once

type client struct {
	api   openai.Client
	model string
}

func GetOpenAIEmbeddingClient(apikey string, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
	})
	return &client{
		api:   openai.NewClient(option.WithAPIKey(apikey)),
		model: modelName,
	}
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingTimeout)
	defer cancel()

	resp, err := c.api.Embeddings.New(callCtx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		logger.Error("OpenAI embedding failed", "error", err)
		return nil, classify(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ragErrors.ErrBackendError, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		vector := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vector[i] = float32(v)
		}
		//Index ties the vector back to its input position
		vectors[item.Index] = vector
	}
	return vectors, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendTimeout, err)
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}
	return fmt.Errorf("%w: %v", ragErrors.ErrBackendUnavailable, err)
}
