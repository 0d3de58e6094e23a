package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Base URLs of the OpenAI-compatible endpoints
const (
	GitHubModelsBaseURL = "https://models.inference.ai.azure.com"
	GeminiBaseURL       = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// LangChainProvider implements the Provider interface over any langchaingo model
type LangChainProvider struct {
	name    string
	model   llms.Model
	timeout time.Duration
}

// NewLangChainProvider wraps a langchaingo model
func NewLangChainProvider(name string, model llms.Model, timeout time.Duration) *LangChainProvider {
	return &LangChainProvider{name: name, model: model, timeout: timeout}
}

// NewOpenAICompatible creates a provider for an OpenAI-compatible chat endpoint.
// An empty baseURL means api.openai.com.
func NewOpenAICompatible(name, token, baseURL, model string, timeout time.Duration) (*LangChainProvider, error) {
	if token == "" {
		return nil, fmt.Errorf("an API key is required for %s", name)
	}

	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(model),
		openai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", name, err)
	}
	return NewLangChainProvider(name, client, timeout), nil
}

// NewOllama creates a provider for a local Ollama server
func NewOllama(serverURL, model string, timeout time.Duration) (*LangChainProvider, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	return NewLangChainProvider("ollama", client, timeout), nil
}

// Name returns the provider name
func (p *LangChainProvider) Name() string {
	return p.name
}

// Complete generates a chat completion
func (p *LangChainProvider) Complete(ctx context.Context, req Request) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	messages := make([]llms.MessageContent, len(req.Messages))
	for i, msg := range req.Messages {
		var msgType llms.ChatMessageType
		switch msg.Role {
		case RoleSystem:
			msgType = llms.ChatMessageTypeSystem
		case RoleAssistant:
			msgType = llms.ChatMessageTypeAI
		default:
			msgType = llms.ChatMessageTypeHuman
		}
		messages[i] = llms.TextParts(msgType, msg.Content)
	}

	var opts []llms.CallOption
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	response, err := p.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s completion failed: %w", p.name, err)
	}
	if response == nil || len(response.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", p.name)
	}
	return response.Choices[0].Content, nil
}
