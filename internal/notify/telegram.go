// Package notify sends operational notifications to managers via Telegram.
package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"padelpoint/internal/models"
)

const sendRetries = 3

// Notifier pushes booking events to a fixed set of manager chats. A nil
// Notifier is safe to use and does nothing, so callers never branch on
// whether Telegram is configured.
type Notifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	limiter *rate.Limiter
	loc     *time.Location
	logger  zerolog.Logger
}

// New connects to the Telegram Bot API. Returns nil when token is empty.
func New(token string, chatIDs []int64, loc *time.Location, logger zerolog.Logger) (*Notifier, error) {
	if token == "" || len(chatIDs) == 0 {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}

	return &Notifier{
		bot:     bot,
		chatIDs: chatIDs,
		// Telegram caps bots around 30 msg/s; stay well under it.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		loc:     loc,
		logger:  logger.With().Str("component", "notify").Logger(),
	}, nil
}

// BookingCreated announces a new booking to every manager chat.
func (n *Notifier) BookingCreated(ctx context.Context, b *models.Booking, courtName string) {
	if n == nil {
		return
	}
	text := fmt.Sprintf(
		"New booking #%d\nCourt: %s\nCustomer: %s\n%s - %s\nPrice: %.2f",
		b.ID,
		courtName,
		b.CustomerName,
		b.Start.In(n.loc).Format("2006-01-02 15:04"),
		b.End.In(n.loc).Format("15:04"),
		b.Price,
	)
	n.broadcast(ctx, text)
}

// BookingCancelled announces a cancellation to every manager chat.
func (n *Notifier) BookingCancelled(ctx context.Context, b *models.Booking, courtName string) {
	if n == nil {
		return
	}
	text := fmt.Sprintf(
		"Booking #%d cancelled\nCourt: %s\nCustomer: %s\n%s",
		b.ID,
		courtName,
		b.CustomerName,
		b.Start.In(n.loc).Format("2006-01-02 15:04"),
	)
	n.broadcast(ctx, text)
}

func (n *Notifier) broadcast(ctx context.Context, text string) {
	for _, chatID := range n.chatIDs {
		if err := n.send(ctx, chatID, text); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send notification")
		}
	}
}

func (n *Notifier) send(ctx context.Context, chatID int64, text string) error {
	var lastErr error
	for attempt := 0; attempt < sendRetries; attempt++ {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("send after %d attempts: %w", sendRetries, lastErr)
}
