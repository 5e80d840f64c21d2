package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Cardwatch/models"
)

// Options controls alert throttling and quiet hours.
type Options struct {
	QuietHoursStart  int           // hour of day, inclusive
	QuietHoursEnd    int           // hour of day, exclusive
	MaxAlertsPerHour int
	MinAlertInterval time.Duration // between alerts for the same printing
}

// Notifier delivers alert candidates to a Telegram chat, enforcing quiet
// hours and rate limits.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	opts   Options
	logger zerolog.Logger

	mu         sync.Mutex
	sentAt     []time.Time          // timestamps within the sliding hour
	lastByCard map[string]time.Time // last alert per printing key
	now        func() time.Time
}

// NewNotifier creates a Telegram-backed alert sink.
func NewNotifier(botToken string, chatID int64, opts Options) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}

	return &Notifier{
		bot:        bot,
		chatID:     chatID,
		opts:       opts,
		logger:     log.With().Str("component", "notify").Logger(),
		lastByCard: make(map[string]time.Time),
		now:        time.Now,
	}, nil
}

// Send delivers an alert unless it is suppressed by quiet hours, the hourly
// cap, or the per-card minimum interval. Suppression is not an error.
func (n *Notifier) Send(ctx context.Context, alert models.AlertCandidate) error {
	if reason, suppressed := n.suppress(alert); suppressed {
		n.logger.Debug().
			Str("card", alert.CardName).
			Str("reason", reason).
			Msg("Alert suppressed")
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, formatAlert(alert))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("sending alert for %s: %w", alert.CardName, err)
	}

	n.recordSent(alert)
	n.logger.Info().
		Str("card", alert.CardName).
		Str("priority", alert.Priority).
		Int("score", alert.Score).
		Msg("Alert delivered")
	return nil
}

func (n *Notifier) suppress(alert models.AlertCandidate) (string, bool) {
	now := n.now()

	if inQuietHours(now.Hour(), n.opts.QuietHoursStart, n.opts.QuietHoursEnd) {
		return "quiet hours", true
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	// Slide the hourly window forward.
	cutoff := now.Add(-time.Hour)
	kept := n.sentAt[:0]
	for _, t := range n.sentAt {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	n.sentAt = kept

	if n.opts.MaxAlertsPerHour > 0 && len(n.sentAt) >= n.opts.MaxAlertsPerHour {
		return "hourly cap", true
	}

	if n.opts.MinAlertInterval > 0 {
		if last, ok := n.lastByCard[cardKey(alert)]; ok && now.Sub(last) < n.opts.MinAlertInterval {
			return "per-card interval", true
		}
	}

	return "", false
}

func (n *Notifier) recordSent(alert models.AlertCandidate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	n.sentAt = append(n.sentAt, now)
	n.lastByCard[cardKey(alert)] = now
}

// inQuietHours handles windows that wrap past midnight, e.g. 22 to 8.
func inQuietHours(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}

func cardKey(alert models.AlertCandidate) string {
	return fmt.Sprintf("%s|%s|%s|%t", alert.CardName, alert.SetCode, alert.CollectorNumber, alert.Foil)
}

func formatAlert(alert models.AlertCandidate) string {
	foilText := ""
	if alert.Foil {
		foilText = " (Foil)"
	}

	fastText := ""
	if alert.FastMover {
		fastText = "\nFast mover"
	}

	return fmt.Sprintf(
		"*Price Alert: %s* (+%.1f%%)\n%s%s\nCurrent: $%.2f\nChange: +%.1f%% (+$%.2f)\nPriority: %s, score %d%s",
		alert.CardName, alert.PctChange,
		alert.SetCode, foilText,
		alert.CurrentPrice,
		alert.PctChange, alert.AbsChange,
		alert.Priority, alert.Score,
		fastText,
	)
}
