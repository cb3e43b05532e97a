package providers

import (
	"fmt"
	"strings"

	"querybot/internal/config"
)

func NewEmbedder(cfg config.Config) (EmbeddingProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.EmbedProvider)) {
	case "ollama":
		return NewOllamaProvider(cfg.OllamaBaseURL, cfg.EmbedModel, cfg.EmbedTimeout), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.EmbedModel, cfg.EmbedTimeout), nil
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbedProvider)
	}
}

func NewLLM(cfg config.Config) (LLMProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "ollama":
		return NewOllamaProvider(cfg.OllamaBaseURL, cfg.LLMModel, cfg.LLMTimeout), nil
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout), nil
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}
