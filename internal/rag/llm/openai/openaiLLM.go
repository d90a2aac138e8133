package openai

import (
	"context"
	"errors"
	"fmt"
	"sync"

	openaiapi "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag/llm"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once

type llmClient struct {
	api   openaiapi.Client
	model string
}

func GetOpenAIClient(apikey string, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
	})
	return &llmClient{
		api:   openaiapi.NewClient(option.WithAPIKey(apikey)),
		model: modelName,
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	resp, err := c.api.Chat.Completions.New(callCtx, openaiapi.ChatCompletionNewParams{
		Model: openaiapi.ChatModel(c.model),
		Messages: []openaiapi.ChatCompletionMessageParamUnion{
			openaiapi.UserMessage(prompt),
		},
		Temperature: openaiapi.Float(float64(opts.Temperature)),
		MaxTokens:   openaiapi.Int(int64(opts.MaxTokens)),
	})
	if err != nil {
		logger.Error("OpenAI generation failed", "error", err)
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty generation response", ragErrors.ErrBackendError)
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendTimeout, err)
	}
	var apiErr *openaiapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", ragErrors.ErrBackendError, err)
	}
	return fmt.Errorf("%w: %v", ragErrors.ErrBackendUnavailable, err)
}
