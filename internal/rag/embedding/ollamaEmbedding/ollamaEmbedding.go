package ollamaEmbedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/customHttpClient"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag/embedding"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once

type client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// GetOllamaEmbeddingClient builds an embedder talking to a local Ollama
// instance over the pooled HTTP client.
func GetOllamaEmbeddingClient(baseURL string, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("ollama_embedding")
	})
	return &client{
		baseURL:    baseURL,
		model:      modelName,
		httpClient: customHttpClient.PooledClient(),
	}
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingTimeout)
	defer cancel()

	body, err := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		logger.Error("Ollama embedding failed", "status", resp.StatusCode, "body", string(payload))
		return nil, fmt.Errorf("%w: embedding status %d", ragErrors.ErrBackendError, resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ragErrors.ErrBackendError)
	}
	return parsed.Embedding, nil
}

// EmbedBatch calls the embedding endpoint once per text, in order. The
// endpoint only takes a single prompt per call.
func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d: %w", i, err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", ragErrors.ErrBackendUnavailable, err)
}
