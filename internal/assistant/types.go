package assistant

import (
	"context"
	"errors"
	"time"

	"olif/internal/basket"
)

// ErrEmptyUtterance is returned for blank input; nothing is called or changed.
var ErrEmptyUtterance = errors.New("empty utterance")

// Role identifies the author of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a session transcript
type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Recommendation is a dish suggested for a preference profile
type Recommendation struct {
	Dish        string `json:"dish"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
}

// BasketSnapshot grounds chat replies in what the shopper has selected
type BasketSnapshot struct {
	Lines  []basket.Line `json:"lines"`
	Totals basket.Totals `json:"totals"`
}

// Extractor turns an utterance into a structured intent
type Extractor interface {
	ExtractIntent(ctx context.Context, utterance string) (Intent, error)
}

// Chatter answers free-form utterances
type Chatter interface {
	Chat(ctx context.Context, utterance string, snapshot BasketSnapshot) (string, error)
}

// Recommender suggests dishes for a preference profile
type Recommender interface {
	Recommend(ctx context.Context, profile string) ([]Recommendation, error)
}

// Speech is an optional speech-to-text capability
type Speech interface {
	Available() bool
	ListenOnce(ctx context.Context) (string, error)
}

// Transcript is a Speech whose result was already produced by the client,
// as when a browser runs recognition and posts the text.
type Transcript string

// Available reports whether a transcript was captured
func (t Transcript) Available() bool { return string(t) != "" }

// ListenOnce returns the captured transcript
func (t Transcript) ListenOnce(ctx context.Context) (string, error) {
	if t == "" {
		return "", ErrSpeechUnavailable
	}
	return string(t), nil
}

// ErrSpeechUnavailable means no speech capability is present
var ErrSpeechUnavailable = errors.New("speech recognition unavailable")

// Fixed assistant texts
const (
	Greeting                = "Hello! I'm OLIF, your premium dining assistant. How can I help you today?"
	ExtractionApology       = "I'm sorry, I'm having trouble understanding right now. Please try again."
	ChatApology             = "I'm sorry, I couldn't process that."
	EmptyBasketNotice       = "Your basket is empty. Add a dish first and I'll take you to checkout."
	CheckoutNotice          = "Taking you to checkout now. Your order is being confirmed."
	SpeechUnavailableNotice = "Voice features are not supported on this device. Please type your request instead."
	voicePrefix             = "[Voice] "
)
