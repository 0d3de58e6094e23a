package providers

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Settings selects and configures a provider
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Factory builds a provider from settings
type Factory func(s Settings) (Provider, error)

var factories = map[string]Factory{
	"openai": func(s Settings) (Provider, error) {
		return NewOpenAICompatible("openai", firstNonEmpty(s.APIKey, os.Getenv("OPENAI_API_KEY")), s.BaseURL, s.Model, s.Timeout)
	},
	"gemini": func(s Settings) (Provider, error) {
		return NewOpenAICompatible("gemini", firstNonEmpty(s.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY")),
			firstNonEmpty(s.BaseURL, GeminiBaseURL), s.Model, s.Timeout)
	},
	"github_models": func(s Settings) (Provider, error) {
		return NewOpenAICompatible("github_models", firstNonEmpty(s.APIKey, os.Getenv("GITHUB_TOKEN")),
			firstNonEmpty(s.BaseURL, GitHubModelsBaseURL), s.Model, s.Timeout)
	},
	"azure": func(s Settings) (Provider, error) {
		return NewAzureOpenAIProvider(
			firstNonEmpty(s.BaseURL, os.Getenv("AZURE_OPENAI_ENDPOINT")),
			firstNonEmpty(s.APIKey, os.Getenv("AZURE_OPENAI_API_KEY")),
			firstNonEmpty(os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"), s.Model),
			s.Timeout,
		)
	},
	"ollama": func(s Settings) (Provider, error) {
		return NewOllama(s.BaseURL, s.Model, s.Timeout)
	},
}

// New builds the provider named in s
func New(s Settings) (Provider, error) {
	f, ok := factories[strings.ToLower(strings.TrimSpace(s.Provider))]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider %q (available: %s)", s.Provider, strings.Join(Available(), ", "))
	}
	return f(s)
}

// Available lists the registered provider names
func Available() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
