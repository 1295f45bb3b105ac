package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"btc-pulse/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Scanner runs one on-demand analysis cycle.
type Scanner interface {
	Analyze(ctx context.Context) *domain.ScoreResult
}

// Alerter pushes scan results to a Telegram chat and optionally serves the
// /ping and /scan commands.
type Alerter struct {
	bot    *tele.Bot
	chatID int64
}

// NewAlerter returns nil (and no error) when token is empty: alerts are
// optional and their absence must not stop the scanner.
func NewAlerter(token string, chatID int64) (*Alerter, error) {
	if token == "" {
		log.Println("Telegram token not set, alerts disabled")
		return nil, nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create Telegram bot: %w", err)
	}
	return &Alerter{bot: b, chatID: chatID}, nil
}

// StartCommands registers the interactive handlers and starts long polling in
// the background.
func (a *Alerter) StartCommands(scanner Scanner) {
	if a == nil || a.bot == nil {
		return
	}

	a.bot.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	a.bot.Handle("/scan", func(c tele.Context) error {
		result := scanner.Analyze(context.Background())
		return c.Send(FormatAlert(result))
	})

	go a.bot.Start()
	log.Println("Telegram bot started")
}

// SendAlert delivers one formatted result to the configured chat. Failures
// are the caller's to log; delivery is best-effort by contract.
func (a *Alerter) SendAlert(result *domain.ScoreResult) error {
	if a == nil || a.bot == nil {
		return nil
	}
	if a.chatID == 0 {
		log.Println("Telegram chat id not set, skipping alert")
		return nil
	}
	_, err := a.bot.Send(tele.ChatID(a.chatID), FormatAlert(result))
	return err
}

// FormatAlert renders a ScoreResult as the alert message text.
func FormatAlert(result *domain.ScoreResult) string {
	price := "n/a"
	if result.Price != nil {
		price = fmt.Sprintf("$%.2f", *result.Price)
	}

	var sb strings.Builder
	sb.WriteString("📊 BTC Update\n\n")
	sb.WriteString(fmt.Sprintf("Price: %s\n", price))
	sb.WriteString(fmt.Sprintf("Score: %.3f\n", result.Score))
	sb.WriteString(fmt.Sprintf("Verdict: %s\n\n", result.Verdict))
	for _, name := range domain.SignalCategories {
		sb.WriteString(fmt.Sprintf("%-10s %.3f\n", name, result.Signals[name]))
	}
	return sb.String()
}
