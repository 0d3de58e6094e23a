package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"olif/internal/assistant"
	"olif/internal/logger"
	"olif/internal/models/providers"
)

var log = logger.GetLogger()

// Concierge is the language agent behind the assistant. It extracts order
// intents, answers free-form questions and suggests dishes.
type Concierge struct {
	provider providers.Provider
	menu     []string
}

// NewConcierge creates a concierge. menu lists the dish names the extraction
// prompt offers the model as spelling hints.
func NewConcierge(provider providers.Provider, menu []string) *Concierge {
	return &Concierge{provider: provider, menu: menu}
}

// ExtractIntent implements assistant.Extractor
func (c *Concierge) ExtractIntent(ctx context.Context, utterance string) (assistant.Intent, error) {
	raw, err := c.provider.Complete(ctx, providers.Request{
		Messages:    []providers.Message{providers.User(buildExtractionPrompt(utterance, c.menu))},
		JSON:        true,
		Temperature: 0.1,
	})
	if err != nil {
		return assistant.Intent{}, fmt.Errorf("intent extraction: %w", err)
	}

	intent, err := assistant.ParseIntent(raw)
	if err != nil {
		log.Debugf("unparseable intent from %s: %q", c.provider.Name(), raw)
		return assistant.Intent{}, fmt.Errorf("intent extraction: %w", err)
	}
	return intent, nil
}

// Chat implements assistant.Chatter
func (c *Concierge) Chat(ctx context.Context, utterance string, snapshot assistant.BasketSnapshot) (string, error) {
	cart, err := json.Marshal(cartContext(snapshot))
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}

	reply, err := c.provider.Complete(ctx, providers.Request{
		Messages: []providers.Message{
			providers.System(chatPersona + string(cart)),
			providers.User(utterance),
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// Recommend implements assistant.Recommender
func (c *Concierge) Recommend(ctx context.Context, profile string) ([]assistant.Recommendation, error) {
	raw, err := c.provider.Complete(ctx, providers.Request{
		Messages:    []providers.Message{providers.User(buildRecommendationPrompt(profile))},
		JSON:        true,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	return parseRecommendations(raw)
}

// parseRecommendations accepts a bare array or an object wrapping one, since
// JSON mode on some providers only returns objects.
func parseRecommendations(raw string) ([]assistant.Recommendation, error) {
	raw = strings.TrimSpace(raw)
	if start := strings.IndexAny(raw, "[{"); start > 0 {
		raw = raw[start:]
	}
	if end := strings.LastIndexAny(raw, "]}"); end >= 0 {
		raw = raw[:end+1]
	}

	var recs []assistant.Recommendation
	if err := json.Unmarshal([]byte(raw), &recs); err == nil {
		return completeRecommendations(recs), nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &wrapped); err != nil {
		return nil, fmt.Errorf("malformed recommendations: %w", err)
	}
	for _, key := range recommendationKeys(wrapped) {
		if err := json.Unmarshal(wrapped[key], &recs); err == nil && recs != nil {
			return completeRecommendations(recs), nil
		}
		recs = nil
	}
	return nil, fmt.Errorf("malformed recommendations: no list in response")
}

// recommendationKeys orders the keys of a wrapped response: the common
// wrapper names first, then the rest alphabetically.
func recommendationKeys(wrapped map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(wrapped))
	for _, k := range []string{"recommendations", "dishes"} {
		if _, ok := wrapped[k]; ok {
			keys = append(keys, k)
		}
	}
	rest := make([]string, 0, len(wrapped))
	for k := range wrapped {
		if k != "recommendations" && k != "dishes" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func completeRecommendations(recs []assistant.Recommendation) []assistant.Recommendation {
	out := make([]assistant.Recommendation, 0, len(recs))
	for _, r := range recs {
		if strings.TrimSpace(r.Dish) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

type cartLine struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurantId"`
}

func cartContext(s assistant.BasketSnapshot) []cartLine {
	out := make([]cartLine, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = cartLine{ID: l.ID, Name: l.Name, Price: l.Price, Quantity: l.Quantity, RestaurantID: l.RestaurantID}
	}
	return out
}
