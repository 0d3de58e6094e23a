package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"olif/internal/assistant"
	"olif/internal/basket"
	"olif/internal/catalog"
	"olif/internal/logger"
	"olif/internal/models"
	"olif/internal/monitoring"

	"github.com/google/uuid"
)

var log = logger.GetLogger()

// ErrEmptyBasket is returned when checking out with nothing selected
var ErrEmptyBasket = errors.New("basket is empty")

// ReceiptStore persists completed checkouts
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, r *models.Receipt) error
	ListReceipts(ctx context.Context, sessionID string) ([]models.Receipt, error)
}

// Session is one shopper's state: basket, view and assistant conversation
type Session struct {
	ID        string
	CreatedAt time.Time
	Basket    *basket.Basket
	View      *ViewState
	Assistant *assistant.Session

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Config holds the Manager's collaborators and settings
type Config struct {
	Catalog     *catalog.Catalog
	Extractor   assistant.Extractor
	Chatter     assistant.Chatter
	Recommender assistant.Recommender
	Profile     string
	Receipts    ReceiptStore
	Metrics     *monitoring.Collector

	Pricing       basket.Pricing
	CheckoutDelay time.Duration
	TTL           time.Duration
	Secret        string

	// Scheduler replaces time.AfterFunc for delayed checkouts
	Scheduler func(time.Duration, func())
	Clock     func() time.Time
}

// Manager creates, finds and evicts sessions
type Manager struct {
	cfg    Config
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. Without a secret, tokens are signed
// with a random per-process key.
func NewManager(cfg Config) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Pricing.DeliveryFee == 0 && cfg.Pricing.TaxRate.IsZero() {
		cfg.Pricing = basket.DefaultPricing
	}
	secret := cfg.Secret
	if secret == "" {
		secret = uuid.NewString()
		log.Warnf("no session secret configured; tokens will not survive a restart")
	}
	return &Manager{
		cfg:      cfg,
		secret:   []byte(secret),
		ttl:      cfg.TTL,
		now:      cfg.Clock,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session for role
func (m *Manager) Create(role models.UserRole) *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Basket:    basket.New(m.cfg.Pricing),
		View:      NewViewState(m.cfg.Catalog, role),
		lastSeen:  now,
	}

	opts := []assistant.Option{
		assistant.WithCheckoutDelay(m.cfg.CheckoutDelay),
		assistant.WithMetrics(m.cfg.Metrics),
	}
	if m.cfg.Scheduler != nil {
		opts = append(opts, assistant.WithScheduler(m.cfg.Scheduler))
	}
	interp := assistant.NewInterpreter(m.cfg.Catalog, m.cfg.Extractor, m.cfg.Chatter, opts...)

	target := assistant.Target{
		Basket: s.Basket,
		Checkout: func() {
			if _, err := m.Checkout(context.Background(), s); err != nil {
				log.Warnf("scheduled checkout for session %s failed: %v", s.ID, err)
			}
		},
		CloseAssistant: s.View.CloseAssistant,
		OpenBasket:     s.View.OpenBasket,
	}
	var sessOpts []assistant.SessionOption
	if m.cfg.Recommender != nil {
		sessOpts = append(sessOpts, assistant.WithRecommender(m.cfg.Recommender, m.cfg.Profile))
	}
	s.Assistant = assistant.NewSession(interp, target, sessOpts...)

	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	m.cfg.Metrics.SetActiveSessions(n)
	log.Debugf("created session %s as %s", s.ID, s.View.Snapshot().Role)
	return s
}

// Get returns a live session and marks it as recently used
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// Delete ends a session
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	if ok {
		s.Assistant.Close()
		m.cfg.Metrics.SetActiveSessions(n)
	}
	return ok
}

// Catalog returns the catalog sessions order from
func (m *Manager) Catalog() *catalog.Catalog {
	return m.cfg.Catalog
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// EvictIdle removes sessions unused for longer than the TTL
func (m *Manager) EvictIdle() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) && !s.Assistant.Busy() {
			delete(m.sessions, id)
			evicted = append(evicted, s)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, s := range evicted {
		s.Assistant.Close()
	}
	if len(evicted) > 0 {
		m.cfg.Metrics.SetActiveSessions(n)
		log.Infof("evicted %d idle sessions", len(evicted))
	}
	return len(evicted)
}

// Run evicts idle sessions until ctx is done
func (m *Manager) Run(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.EvictIdle()
		}
	}
}

// Checkout completes the order for s: the basket is drained into a receipt,
// the basket panel closes, the confirmation view is shown and subscribers
// receive a checkout event. Items added while the receipt is being saved stay
// in the basket for the next order. If the save fails the drained lines are
// put back.
func (m *Manager) Checkout(ctx context.Context, s *Session) (*models.Receipt, error) {
	lines, totals := s.Basket.Drain()
	if len(lines) == 0 {
		return nil, ErrEmptyBasket
	}

	receipt := &models.Receipt{
		ReceiptID:   uuid.NewString(),
		SessionID:   s.ID,
		Subtotal:    totals.Subtotal,
		DeliveryFee: totals.DeliveryFee,
		Tax:         totals.Tax,
		Total:       totals.Total,
		PlacedAt:    m.now(),
	}
	for _, l := range lines {
		receipt.Lines = append(receipt.Lines, models.ReceiptLine{
			ItemID:       l.ID,
			Name:         l.Name,
			Price:        l.Price,
			Quantity:     l.Quantity,
			RestaurantID: l.RestaurantID,
		})
	}

	if m.cfg.Receipts != nil {
		if err := m.cfg.Receipts.SaveReceipt(ctx, receipt); err != nil {
			s.Basket.Restore(lines)
			return nil, fmt.Errorf("checkout: %w", err)
		}
	}

	s.View.CompleteCheckout()
	m.cfg.Metrics.RecordCheckout()
	m.cfg.Metrics.RecordBasketOp("clear", 1)
	s.Assistant.Notify(assistant.Event{Type: assistant.EventCheckout, Data: receipt})
	log.Infof("session %s checked out %d items for %d", s.ID, len(lines), totals.Total)
	return receipt, nil
}

// Receipts lists the receipts recorded for a session
func (m *Manager) Receipts(ctx context.Context, sessionID string) ([]models.Receipt, error) {
	if m.cfg.Receipts == nil {
		return nil, nil
	}
	return m.cfg.Receipts.ListReceipts(ctx, sessionID)
}
