package ollama

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
	"github.com/avikram/studybuddy/internal/rag/llm"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once

type llmClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func GetOllamaClient(baseURL string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_ollama")
	})
	return &llmClient{
		baseURL:    baseURL,
		model:      modelName,
		httpClient: customHttpClient.PooledClient(),
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		logger.Error("Ollama generation failed", "status", resp.StatusCode, "body", string(payload))
		return "", fmt.Errorf("%w: generation status %d", ragErrors.ErrBackendError, resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}
	return parsed.Response, nil
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
