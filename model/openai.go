// Package model provides language model implementations for the brief
// pipeline.
//
// OpenAI speaks the OpenAI-compatible chat completion protocol via
// langchaingo, which covers OpenAI itself as well as compatible endpoints
// such as DeepSeek or a local Ollama server:
//
//	lm, err := model.NewOpenAI(model.Config{
//	    BaseURL: "https://api.deepseek.com/v1",
//	    Model:   "deepseek-chat",
//	    APIKey:  os.Getenv("DEEPSEEK_API_KEY"),
//	})
package model

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/smhanov/brief"
)

// Config holds the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	// BaseURL of the API, e.g. https://api.openai.com/v1. Empty uses the
	// OpenAI default.
	BaseURL string
	// Model name, e.g. gpt-4o-mini or deepseek-chat.
	Model string
	// APIKey authenticates the requests.
	APIKey string
}

// OpenAI implements brief.LanguageModel over an OpenAI-compatible chat
// completion API.
type OpenAI struct {
	llm *openai.LLM
}

var _ brief.LanguageModel = (*OpenAI)(nil)

// NewOpenAI constructs the provider from config.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("model: API key is missing")
	}

	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	return &OpenAI{llm: llm}, nil
}

// Complete sends a single-prompt completion request with the per-call
// sampling parameters the pipeline chose for this call site.
func (o *OpenAI) Complete(ctx context.Context, req brief.Completion) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, o.llm, req.Prompt,
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(req.MaxTokens),
	)
}
