package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/domain/prefs"
	"github.com/Spok95/pocket-bot/internal/domain/routes"
	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	"github.com/Spok95/pocket-bot/internal/domain/users"
	"github.com/Spok95/pocket-bot/internal/infra/metrics"
	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	users    *users.Repo
	prefs    *prefs.Service
	states   *dialog.Repo
	subs     *subscriptions.Repo
	routes   *routes.Repo
	trivia   *trivia.Repository
	sessions *quiz.Sessions
	results  *quiz.ResultsRepo
	loc      *time.Location
}

type Deps struct {
	Users    *users.Repo
	Prefs    *prefs.Service
	States   *dialog.Repo
	Subs     *subscriptions.Repo
	Routes   *routes.Repo
	Trivia   *trivia.Repository
	Sessions *quiz.Sessions
	Results  *quiz.ResultsRepo
	Location *time.Location
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, d Deps) *Bot {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	sessions := d.Sessions
	if sessions == nil {
		sessions = quiz.NewSessions()
	}
	return &Bot{
		api: api, log: log,
		users: d.Users, prefs: d.Prefs, states: d.States,
		subs: d.Subs, routes: d.Routes,
		trivia: d.Trivia, sessions: sessions, results: d.Results,
		loc: loc,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	// апдейты идут строго по очереди: долгий обработчик (замена вопроса)
	// задерживает все чаты, поэтому сетевые шаги ограничены по времени
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			switch {
			case upd.Message != nil:
				metrics.Update("message")
				b.onMessage(ctx, upd)
			case upd.CallbackQuery != nil:
				metrics.Update("callback")
				b.onCallback(ctx, upd)
			default:
				metrics.Update("other")
			}
		}
	}
}

// today календарный день в часовом поясе бота.
func (b *Bot) today() time.Time {
	return time.Now().In(b.loc)
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.From == nil {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleStateMessage(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	if cb.Message == nil {
		_ = b.answerCallback(cb, "Сообщение устарело", false)
		return
	}
	b.handleCallback(ctx, cb)
}
