package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"olif/internal/assistant"
	"olif/internal/basket"
	"olif/internal/logger"
	"olif/internal/models"
	"olif/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var log = logger.GetLogger()

// Sender delivers messages to Telegram
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot puts the assistant in a Telegram chat. Each chat gets its own session.
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	sessions *session.Manager

	chatsMu sync.Mutex
	chats   map[int64]*chat
}

type chat struct {
	sessionID   string
	unsubscribe func()
}

// New connects to Telegram with token
func New(token string, sessions *session.Manager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect telegram bot: %w", err)
	}
	b := newBot(api, sessions)
	b.api = api
	return b, nil
}

func newBot(sender Sender, sessions *session.Manager) *Bot {
	return &Bot{
		sender:   sender,
		sessions: sessions,
		chats:    make(map[int64]*chat),
	}
}

// Start long-polls for updates until ctx is done
func (b *Bot) Start(ctx context.Context) {
	if b.api == nil {
		return
	}
	b.setCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	log.Infof("telegram bot @%s is listening", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, open := <-updates:
			if !open {
				return
			}
			// one goroutine per update; the session serializes turns
			go b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) setCommands() {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start a new order"},
		tgbotapi.BotCommand{Command: "menu", Description: "Browse restaurants"},
		tgbotapi.BotCommand{Command: "basket", Description: "Show your basket"},
		tgbotapi.BotCommand{Command: "checkout", Description: "Place your order"},
	)
	if _, err := b.api.Request(cfg); err != nil {
		log.Warnf("failed to register bot commands: %v", err)
	}
}

// HandleUpdate processes one Telegram update
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		b.resetSession(chatID)
		sess := b.sessionFor(chatID)
		b.send(chatID, sess.Assistant.Messages()[0].Text)
	case text == "/menu":
		b.sendMenu(chatID)
	case text == "/basket":
		b.send(chatID, formatBasket(b.sessionFor(chatID).Basket))
	case text == "/checkout":
		b.checkout(ctx, chatID)
	case msg.Voice != nil:
		// voice notes would need a speech service
		out, _ := b.sessionFor(chatID).Assistant.SendVoice(ctx, nil)
		b.sendReplies(chatID, out)
	case text != "":
		out, err := b.sessionFor(chatID).Assistant.Send(ctx, text)
		if err != nil {
			log.Warnf("chat %d: %v", chatID, err)
			return
		}
		b.sendReplies(chatID, out)
	}
}

func (b *Bot) sessionFor(chatID int64) *session.Session {
	b.chatsMu.Lock()
	defer b.chatsMu.Unlock()

	if c, exists := b.chats[chatID]; exists {
		if sess, live := b.sessions.Get(c.sessionID); live {
			return sess
		}
		c.unsubscribe()
	}
	sess := b.sessions.Create(models.RoleCustomer)
	events, cancel := sess.Assistant.Subscribe(16)
	b.chats[chatID] = &chat{sessionID: sess.ID, unsubscribe: cancel}
	go b.forwardCheckouts(chatID, events)
	return sess
}

func (b *Bot) resetSession(chatID int64) {
	b.chatsMu.Lock()
	c, exists := b.chats[chatID]
	delete(b.chats, chatID)
	b.chatsMu.Unlock()
	if exists {
		c.unsubscribe()
		b.sessions.Delete(c.sessionID)
	}
}

// forwardCheckouts tells the chat when a delayed checkout completes
func (b *Bot) forwardCheckouts(chatID int64, events <-chan assistant.Event) {
	for ev := range events {
		if ev.Type != assistant.EventCheckout {
			continue
		}
		if r, isReceipt := ev.Data.(*models.Receipt); isReceipt {
			b.send(chatID, formatReceipt(r))
		}
	}
}

func (b *Bot) checkout(ctx context.Context, chatID int64) {
	sess := b.sessionFor(chatID)
	_, err := b.sessions.Checkout(ctx, sess)
	switch {
	case errors.Is(err, session.ErrEmptyBasket):
		b.send(chatID, assistant.EmptyBasketNotice)
	case err != nil:
		log.Errorf("chat %d checkout: %v", chatID, err)
		b.send(chatID, "Sorry, we couldn't place your order. Please try again.")
	}
	// success is announced by forwardCheckouts
}

func (b *Bot) sendMenu(chatID int64) {
	var sb strings.Builder
	sb.WriteString("Our restaurants:\n")
	for _, r := range b.sessions.Catalog().Restaurants() {
		fmt.Fprintf(&sb, "\n%s (%.1f★, %s)\n", r.Name, r.Rating, r.DeliveryTime)
		for _, item := range r.Menu {
			fmt.Fprintf(&sb, "  • %s %s\n", item.Name, formatNaira(item.Price))
		}
	}
	sb.WriteString("\nTell me what you'd like, e.g. \"Add 2 Jollof Rice\".")
	b.send(chatID, sb.String())
}

func (b *Bot) sendReplies(chatID int64, out assistant.Outcome) {
	for _, r := range out.Replies {
		b.send(chatID, r)
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		log.Warnf("send error: %v", err)
	}
}

func formatBasket(bk *basket.Basket) string {
	lines, totals := bk.Snapshot()
	if len(lines) == 0 {
		return "Your basket is empty."
	}
	var sb strings.Builder
	sb.WriteString("Your basket:\n")
	for _, l := range lines {
		fmt.Fprintf(&sb, "%dx %s %s\n", l.Quantity, l.Name, formatNaira(l.Price*int64(l.Quantity)))
	}
	fmt.Fprintf(&sb, "\nSubtotal %s\nDelivery %s\nTax %s\nTotal %s",
		formatNaira(totals.Subtotal), formatNaira(totals.DeliveryFee), formatNaira(totals.Tax), formatNaira(totals.Total))
	return sb.String()
}

func formatReceipt(r *models.Receipt) string {
	return fmt.Sprintf("Order Confirmed! Your gourmet experience is being prepared.\nTotal paid: %s", formatNaira(r.Total))
}

// formatNaira renders whole Naira with thousands separators
func formatNaira(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	return sign + "₦" + sb.String()
}
