package quizgen

import (
	"context"
	"fmt"
	"time"

	"quizify/internal/domain"
	"quizify/internal/logger"

	"github.com/tmc/langchaingo/llms"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// llmCaller is the subset of a langchaingo LLM client the generator needs.
// Both *openai.LLM and *ollama.LLM satisfy it.
type llmCaller interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// Generator implements domain.TextGenerator on top of a langchaingo client.
type Generator struct {
	llmClient llmCaller
	timeout   time.Duration
}

// NewOpenAIGenerator builds a Generator backed by the OpenAI chat API.
func NewOpenAIGenerator(apiKey, modelName string, timeout time.Duration) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key cannot be empty")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client: %w", err)
	}
	return newGenerator(llm, timeout), nil
}

// NewOllamaGenerator builds a Generator backed by a local Ollama server.
func NewOllamaGenerator(serverURL, modelName string, timeout time.Duration) (*Generator, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client: %w", err)
	}
	return newGenerator(llm, timeout), nil
}

func newGenerator(client llmCaller, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Generator{llmClient: client, timeout: timeout}
}

// Generate sends the prompt to the model and returns its raw text response.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.llmClient.Call(ctx, prompt, llms.WithTemperature(0.7))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			l.Error("LLM request timed out", zap.Error(err), zap.Duration("timeout", g.timeout))
			return "", domain.NewLLMServiceError(fmt.Errorf("LLM request timed out after %s: %w", g.timeout, err))
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return "", domain.NewLLMServiceError(fmt.Errorf("LLM call failed: %w", err))
	}
	return response, nil
}
