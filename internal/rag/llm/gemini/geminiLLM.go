package gemini

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avikram/studybuddy/internal/config"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/internal/rag/llm"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	//if init still fails
	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}
}

func (c *llmClient) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
	defer cancel()

	temperature := opts.Temperature
	maxTokens := int32(opts.MaxTokens)
	contentConfig := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}

	result, err := c.client.Models.GenerateContent(
		callCtx,
		c.modelName,
		genai.Text(prompt),
		contentConfig,
	)
	if err != nil {
		logger.Error("Error generating content from Gemini", "error", err.Error())
		return "", classify(err)
	}
	if result == nil {
		return "", fmt.Errorf("%w: empty generation response", ragErrors.ErrBackendError)
	}
	return result.Text(), nil
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

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
