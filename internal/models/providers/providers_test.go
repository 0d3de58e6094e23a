package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// MockLLM is a mock implementation of the LLM interface
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, o := range options {
		o(&opts)
	}
	args := m.Called(ctx, messages, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llms.ContentResponse), args.Error(1)
}

func TestLangChainProvider_Complete(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything,
		mock.MatchedBy(func(msgs []llms.MessageContent) bool {
			return len(msgs) == 2 &&
				msgs[0].Role == llms.ChatMessageTypeSystem &&
				msgs[1].Role == llms.ChatMessageTypeHuman
		}),
		mock.MatchedBy(func(opts llms.CallOptions) bool { return opts.JSONMode }),
	).Return(&llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: `{"orders":[]}`}}}, nil)

	p := NewLangChainProvider("gemini", mockLLM, time.Second)
	out, err := p.Complete(context.Background(), Request{
		Messages: []Message{System("extract"), User("hi")},
		JSON:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"orders":[]}`, out)
	assert.Equal(t, "gemini", p.Name())
	mockLLM.AssertExpectations(t)
}

func TestLangChainProvider_Errors(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded")).Once()
	mockLLM.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
		Return(&llms.ContentResponse{}, nil).Once()

	p := NewLangChainProvider("openai", mockLLM, 0)

	_, err := p.Complete(context.Background(), Request{Messages: []Message{User("hi")}})
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = p.Complete(context.Background(), Request{Messages: []Message{User("hi")}})
	assert.ErrorContains(t, err, "empty response")
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Settings{Provider: "palm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "github_models")
}

func TestNew_RequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := New(Settings{Provider: "openai", Model: "gpt-4o-mini"})
	assert.Error(t, err)

	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "")
	_, err = New(Settings{Provider: "azure", APIKey: "k"})
	assert.Error(t, err)
}

func TestNew_OpenAICompatible(t *testing.T) {
	p, err := New(Settings{Provider: "Gemini", Model: "gemini-2.0-flash", APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())

	p, err = New(Settings{Provider: "github_models", Model: "gpt-4o-mini", APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "github_models", p.Name())
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []string{"azure", "gemini", "github_models", "ollama", "openai"}, Available())
}
