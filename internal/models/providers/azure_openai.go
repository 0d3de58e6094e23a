package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
)

// AzureOpenAIProvider implements the Provider interface for Azure OpenAI
type AzureOpenAIProvider struct {
	client         *azopenai.Client
	deploymentName string
	timeout        time.Duration
}

// NewAzureOpenAIProvider creates a new Azure OpenAI provider
func NewAzureOpenAIProvider(endpoint, apiKey, deploymentName string, timeout time.Duration) (*AzureOpenAIProvider, error) {
	if endpoint == "" || apiKey == "" || deploymentName == "" {
		return nil, fmt.Errorf("Azure OpenAI configuration missing: endpoint, API key and deployment name are required")
	}

	keyCredential := azcore.NewKeyCredential(apiKey)
	client, err := azopenai.NewClientWithKeyCredential(endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure OpenAI client: %w", err)
	}

	return &AzureOpenAIProvider{
		client:         client,
		deploymentName: deploymentName,
		timeout:        timeout,
	}, nil
}

// Name returns the provider name
func (p *AzureOpenAIProvider) Name() string {
	return "azure"
}

// Complete implements the Provider interface. JSON requests rely on the
// prompt; callers parse the reply tolerantly.
func (p *AzureOpenAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	chatMessages := make([]azopenai.ChatRequestMessageClassification, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			chatMessages[i] = &azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(msg.Content),
			}
		case RoleUser:
			chatMessages[i] = &azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(msg.Content),
			}
		case RoleAssistant:
			chatMessages[i] = &azopenai.ChatRequestAssistantMessage{
				Content: azopenai.NewChatRequestAssistantMessageContent(msg.Content),
			}
		default:
			return "", fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}

	opts := azopenai.ChatCompletionsOptions{
		Messages:       chatMessages,
		DeploymentName: to.Ptr(p.deploymentName),
	}
	if req.Temperature > 0 {
		opts.Temperature = to.Ptr(float32(req.Temperature))
	}
	if req.MaxTokens > 0 {
		opts.MaxTokens = to.Ptr(int32(req.MaxTokens))
	}

	resp, err := p.client.GetChatCompletions(ctx, opts, nil)
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	if resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("empty response from Azure OpenAI")
	}

	return *resp.Choices[0].Message.Content, nil
}
