package assistant

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// EventType classifies what a session event carries
type EventType string

const (
	EventMessage  EventType = "message"
	EventCheckout EventType = "checkout"
)

// Event is pushed to every subscriber of a session
type Event struct {
	Type    EventType   `json:"type"`
	Message *Message    `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Session is one shopper's conversation with the assistant. Utterances are
// handled one at a time in arrival order.
type Session struct {
	interp      *Interpreter
	target      Target
	recommender Recommender
	profile     string
	now         func() time.Time

	turn     sync.Mutex
	inflight atomic.Int32

	mu       sync.RWMutex
	messages []Message
	subs     map[int]chan Event
	nextSub  int
	closed   bool
	recs     []Recommendation
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithRecommender enables "curated for you" suggestions for profile
func WithRecommender(r Recommender, profile string) SessionOption {
	return func(s *Session) {
		s.recommender = r
		s.profile = profile
	}
}

// WithClock sets the time source for message timestamps
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session whose transcript starts with the greeting
func NewSession(interp *Interpreter, target Target, opts ...SessionOption) *Session {
	s := &Session{
		interp: interp,
		target: target,
		now:    time.Now,
		subs:   make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []Message{{Role: RoleAssistant, Text: Greeting, At: s.now()}}
	return s
}

// Send records a typed utterance and interprets it
func (s *Session) Send(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyUtterance
	}
	return s.handle(ctx, text, text)
}

// SendVoice listens once and interprets the transcript. Without a usable
// speech capability the shopper gets a notice instead.
func (s *Session) SendVoice(ctx context.Context, sp Speech) (Outcome, error) {
	if sp == nil || !sp.Available() {
		return s.speechUnavailable(), nil
	}
	s.inflight.Add(1)
	text, err := sp.ListenOnce(ctx)
	s.inflight.Add(-1)
	if err != nil {
		log.Warnf("speech capture failed: %v", err)
		return s.speechUnavailable(), nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyUtterance
	}
	return s.handle(ctx, voicePrefix+text, text)
}

func (s *Session) speechUnavailable() Outcome {
	s.appendMessage(RoleAssistant, SpeechUnavailableNotice)
	return Outcome{Replies: []string{SpeechUnavailableNotice}}
}

func (s *Session) handle(ctx context.Context, recorded, utterance string) (Outcome, error) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	s.turn.Lock()
	defer s.turn.Unlock()

	s.appendMessage(RoleUser, recorded)
	out, err := s.interp.Interpret(ctx, s.target, utterance)
	if err != nil {
		return out, err
	}
	for _, r := range out.Replies {
		s.appendMessage(RoleAssistant, r)
	}
	return out, nil
}

// Busy reports whether an utterance is being handled or waiting its turn
func (s *Session) Busy() bool {
	return s.inflight.Load() > 0
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) appendMessage(role Role, text string) {
	msg := Message{Role: role, Text: text, At: s.now()}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.Notify(Event{Type: EventMessage, Message: &msg})
}

// Subscribe returns a channel of session events and a function that ends the
// subscription. Events are dropped for subscribers whose buffer is full.
// Subscribing to a closed session yields a closed channel.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close ends every subscription. Later calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Notify delivers ev to every subscriber without blocking
func (s *Session) Notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			log.Debugf("dropping %s event for slow subscriber %d", ev.Type, id)
		}
	}
}

// Recommendations returns the session's suggested dishes, fetching them on
// first use. A failed fetch is logged and yields none; it is retried next time.
func (s *Session) Recommendations(ctx context.Context) []Recommendation {
	s.mu.RLock()
	recs := s.recs
	s.mu.RUnlock()
	if recs != nil || s.recommender == nil {
		return recs
	}

	recs, err := s.recommender.Recommend(ctx, s.profile)
	if err != nil {
		log.Warnf("recommendations unavailable: %v", err)
		return nil
	}
	if recs == nil {
		recs = []Recommendation{}
	}
	s.mu.Lock()
	if s.recs == nil {
		s.recs = recs
	}
	recs = s.recs
	s.mu.Unlock()
	return recs
}
