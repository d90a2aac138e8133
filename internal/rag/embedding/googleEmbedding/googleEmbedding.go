package googleEmbedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag/embedding"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
	}
	if c != nil {
		embeddingClient = &client{
			genAi: c,
			model: modelName,
		}
		logger.Info("Google Embedding client created", "model", modelName)
		go closeClient(ctx, embeddingClient)
	}
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(text))
	if err != nil {
		if doRetry(err) {
			time.Sleep(5 * time.Second)
			result, err = c.doCall(ctx, genai.Text(text))
		}
		if err != nil {
			logger.Error("Error getting Embedding from Google", "error", err.Error())
			return nil, classify(err)
		}
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ragErrors.ErrBackendError)
	}
	return result.Embeddings[0].Values, nil
}

// EmbedContent rejects requests above this many inputs.
const maxBatchSize = 100

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for _, batch := range splitBatches(texts) {
		res, err := c.doCall(ctx, getContent(batch))
		if err != nil {
			if doRetry(err) {
				time.Sleep(5 * time.Second)
				logger.Debug("Retrying after rate limit")
				res, err = c.doCall(ctx, getContent(batch))
			}
			if err != nil {
				logger.Error("Error getting Embeddings from Google", "error", err.Error())
				return nil, classify(err)
			}
		}
		for _, r := range res.Embeddings {
			vectors = append(vectors, r.Values)
		}
	}
	return vectors, nil
}

func splitBatches(texts []string) [][]string {
	var batches [][]string
	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[start:end])
	}
	return batches
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingTimeout)
	defer cancel()
	return c.genAi.Models.EmbedContent(callCtx, c.model, content, &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func doRetry(err error) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted {
			logger.Error("Rate limit hit! ", "error", err)
			return true
		}
	}
	return false
}

func classify(err error) error {
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable:
			return fmt.Errorf("%w: %v", ragErrors.ErrBackendUnavailable, err)
		case codes.DeadlineExceeded:
			return fmt.Errorf("%w: %v", ragErrors.ErrBackendTimeout, err)
		}
	}
	if err == context.DeadlineExceeded {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
}
