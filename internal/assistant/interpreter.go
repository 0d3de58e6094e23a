package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"olif/internal/basket"
	"olif/internal/catalog"
	"olif/internal/logger"
	"olif/internal/models"
	"olif/internal/monitoring"
)

var log = logger.GetLogger()

// State is where the interpreter is in handling one utterance
type State int32

const (
	StateIdle State = iota
	StateExtracting
	StateApplying
	StateSummarizing
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StateApplying:
		return "applying"
	case StateSummarizing:
		return "summarizing"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Resolver maps a free-text dish name to a catalog entry
type Resolver interface {
	FindByName(name string) (catalog.Entry, bool)
}

// Target is the session context an utterance acts on
type Target struct {
	Basket *basket.Basket
	// Checkout completes the order; it runs after the checkout delay
	Checkout func()
	// CloseAssistant hides the assistant panel
	CloseAssistant func()
	// OpenBasket shows the basket panel after items are added
	OpenBasket func()
}

// FailureKind names a recovered collaborator failure
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureExtraction FailureKind = "extraction"
	FailureChat       FailureKind = "chat"
)

// Added is a resolved order entry that was applied to the basket
type Added struct {
	Item         models.MenuItem `json:"item"`
	RestaurantID string          `json:"restaurantId"`
	Quantity     int             `json:"quantity"`
	Capped       bool            `json:"capped,omitempty"`
}

// Outcome reports everything one utterance did
type Outcome struct {
	Intent              Intent      `json:"intent"`
	Added               []Added     `json:"added,omitempty"`
	Unresolved          []string    `json:"unresolved,omitempty"`
	CheckoutScheduled   bool        `json:"checkoutScheduled"`
	EmptyBasketCheckout bool        `json:"emptyBasketCheckout"`
	Failure             FailureKind `json:"failure,omitempty"`
	Replies             []string    `json:"replies"`
}

// Kind labels the outcome for metrics and logs
func (o Outcome) Kind() string {
	switch {
	case o.Failure == FailureExtraction:
		return "extraction_error"
	case o.Failure == FailureChat:
		return "chat_error"
	case o.Intent.IsOrder && o.CheckoutScheduled:
		return "order_checkout"
	case o.Intent.IsOrder && len(o.Added) == 0:
		return "unresolved"
	case o.Intent.IsOrder:
		return "order"
	case o.CheckoutScheduled:
		return "checkout"
	case o.EmptyBasketCheckout:
		return "empty_checkout"
	default:
		return "chat"
	}
}

// Interpreter turns utterances into basket mutations and checkout triggers.
// It handles one utterance at a time; callers serialize per session.
type Interpreter struct {
	resolver  Resolver
	extractor Extractor
	chatter   Chatter
	delay     time.Duration
	schedule  func(time.Duration, func())
	metrics   *monitoring.Collector

	mu    sync.Mutex
	state State
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithCheckoutDelay sets the pause between a checkout request and checkout
func WithCheckoutDelay(d time.Duration) Option {
	return func(ip *Interpreter) { ip.delay = d }
}

// WithScheduler replaces time.AfterFunc for running delayed checkouts
func WithScheduler(f func(time.Duration, func())) Option {
	return func(ip *Interpreter) { ip.schedule = f }
}

// WithMetrics records outcomes and call latency on m
func WithMetrics(m *monitoring.Collector) Option {
	return func(ip *Interpreter) { ip.metrics = m }
}

// NewInterpreter creates an interpreter over a catalog and language collaborators
func NewInterpreter(resolver Resolver, extractor Extractor, chatter Chatter, opts ...Option) *Interpreter {
	ip := &Interpreter{
		resolver:  resolver,
		extractor: extractor,
		chatter:   chatter,
		delay:     1500 * time.Millisecond,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(ip)
	}
	return ip
}

// State returns the current processing state
func (ip *Interpreter) State() State {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	return ip.state
}

func (ip *Interpreter) setState(s State) {
	ip.mu.Lock()
	ip.state = s
	ip.mu.Unlock()
}

// Interpret handles one utterance against t. Collaborator failures are
// recovered into the outcome; the only error is ErrEmptyUtterance.
func (ip *Interpreter) Interpret(ctx context.Context, t Target, utterance string) (Outcome, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return Outcome{}, ErrEmptyUtterance
	}
	defer ip.setState(StateIdle)

	ip.setState(StateExtracting)
	start := time.Now()
	intent, err := ip.extractor.ExtractIntent(ctx, utterance)
	ip.metrics.ObserveLLMCall("extract", time.Since(start), err)
	if err != nil {
		ip.setState(StateErrored)
		log.Warnf("intent extraction failed: %v", err)
		out := Outcome{Failure: FailureExtraction, Replies: []string{ExtractionApology}}
		ip.metrics.RecordUtterance(out.Kind())
		return out, nil
	}
	intent = intent.Normalize()
	out := Outcome{Intent: intent}

	ip.setState(StateApplying)
	for _, o := range intent.Orders {
		e, ok := ip.resolver.FindByName(o.Item)
		if !ok {
			out.Unresolved = append(out.Unresolved, o.Item)
			continue
		}
		// one unit at a time, the same path a tap on "add" takes
		for i := 0; i < o.Quantity; i++ {
			t.Basket.Add(e.Item, e.RestaurantID)
		}
		ip.metrics.RecordBasketOp("add", o.Quantity)
		out.Added = append(out.Added, Added{Item: e.Item, RestaurantID: e.RestaurantID, Quantity: o.Quantity, Capped: o.Capped})
	}
	if len(out.Added) > 0 && t.OpenBasket != nil {
		t.OpenBasket()
	}

	ip.setState(StateSummarizing)
	if intent.IsOrder {
		out.Replies = append(out.Replies, summarize(out.Added, out.Unresolved))
	}
	if intent.IsCheckoutIntent {
		if len(out.Added) == 0 && t.Basket.IsEmpty() {
			out.EmptyBasketCheckout = true
			out.Replies = append(out.Replies, EmptyBasketNotice)
		} else {
			out.CheckoutScheduled = true
			out.Replies = append(out.Replies, CheckoutNotice)
			if t.CloseAssistant != nil {
				t.CloseAssistant()
			}
			if t.Checkout != nil {
				ip.schedule(ip.delay, t.Checkout)
			}
		}
	}
	if !intent.IsOrder && !intent.IsCheckoutIntent {
		reply, err := ip.chat(ctx, t, utterance)
		if err != nil {
			log.Warnf("chat completion failed: %v", err)
			out.Failure = FailureChat
			reply = ChatApology
		}
		out.Replies = append(out.Replies, reply)
	}

	ip.metrics.RecordIntent(intentKind(intent))
	ip.metrics.RecordUtterance(out.Kind())
	return out, nil
}

func (ip *Interpreter) chat(ctx context.Context, t Target, utterance string) (string, error) {
	if ip.chatter == nil {
		return "", fmt.Errorf("no chat collaborator configured")
	}
	lines, totals := t.Basket.Snapshot()
	start := time.Now()
	reply, err := ip.chatter.Chat(ctx, utterance, BasketSnapshot{Lines: lines, Totals: totals})
	ip.metrics.ObserveLLMCall("chat", time.Since(start), err)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("empty chat reply")
	}
	return strings.TrimSpace(reply), nil
}

func intentKind(in Intent) string {
	switch {
	case in.IsOrder && in.IsCheckoutIntent:
		return "order_checkout"
	case in.IsOrder:
		return "order"
	case in.IsCheckoutIntent:
		return "checkout"
	default:
		return "chat"
	}
}

// summarize describes what was added and what could not be found. It never
// claims an addition that did not happen.
func summarize(added []Added, unresolved []string) string {
	var parts []string
	if len(added) > 0 {
		items := make([]string, len(added))
		for i, a := range added {
			items[i] = fmt.Sprintf("%dx %s", a.Quantity, a.Item.Name)
		}
		parts = append(parts, fmt.Sprintf("Understood. I've added %s to your basket.", joinList(items)))
	}
	var capped []string
	for _, a := range added {
		if a.Capped {
			capped = append(capped, a.Item.Name)
		}
	}
	if len(capped) > 0 {
		parts = append(parts, fmt.Sprintf("I can add at most %d of a dish at once, so I've limited %s to %d.",
			MaxQuantity, joinList(capped), MaxQuantity))
	}
	if len(unresolved) > 0 {
		names := make([]string, 0, len(unresolved))
		blank := false
		for _, n := range unresolved {
			if n == "" {
				blank = true
				continue
			}
			names = append(names, fmt.Sprintf("%q", n))
		}
		if len(names) > 0 {
			parts = append(parts, fmt.Sprintf("I couldn't find %s on any menu.", joinList(names)))
		}
		if blank {
			parts = append(parts, "I couldn't tell which dish you meant for part of your order.")
		}
	}
	return strings.Join(parts, " ")
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
