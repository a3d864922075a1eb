package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/Spok95/pocket-bot/internal/bot"
	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/domain/prefs"
	"github.com/Spok95/pocket-bot/internal/domain/routes"
	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	"github.com/Spok95/pocket-bot/internal/domain/users"
	"github.com/Spok95/pocket-bot/internal/infra/db"
	httpx "github.com/Spok95/pocket-bot/internal/infra/http"
	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
	"github.com/Spok95/pocket-bot/migrations"
)

func runCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply migrations, start the HTTP server and the Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on start")
	return cmd
}

func run(parent context.Context, skipMigrations bool) error {
	if parent == nil {
		parent = context.Background()
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is empty (set APP_TELEGRAM_TOKEN)")
	}

	if !skipMigrations {
		if err := migrations.Up(cfg.Postgres.DSN); err != nil {
			log.Error("migrations failed", "err", err)
			return err
		}
		log.Info("migrations applied")
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return err
	}
	defer pool.Close()
	log.Info("db connected")

	usersRepo := users.NewRepo(pool)
	subsRepo := subscriptions.NewRepo(pool)
	routesRepo := routes.NewRepo(pool)
	results := quiz.NewResultsRepo(pool)

	triviaRepo := trivia.NewRepository(
		trivia.NewClient(cfg.Trivia.BaseURL, cfg.Trivia.Timeout),
		log,
		trivia.RepositoryOptions{
			Amount:       cfg.Trivia.Amount,
			SwapAttempts: cfg.Trivia.SwapAttempts,
			SwapBackoff:  cfg.Trivia.SwapBackoff,
			SwapTimeout:  cfg.Trivia.SwapTimeout,
		},
	)

	api := httpx.NewAPI(log, usersRepo, subsRepo, routesRepo, results, cfg.Location())
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, api)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Error("telegram init failed", "err", err)
		return err
	}
	log.Info("telegram bot authorized", "username", botAPI.Self.UserName)

	b := bot.New(botAPI, log, bot.Deps{
		Users:    usersRepo,
		Prefs:    prefs.NewService(prefs.NewRepo(pool)),
		States:   dialog.NewRepo(pool),
		Subs:     subsRepo,
		Routes:   routesRepo,
		Trivia:   triviaRepo,
		Sessions: quiz.NewSessions(),
		Results:  results,
		Location: cfg.Location(),
	})

	if err := b.Run(ctx, cfg.Telegram.TimeoutSec); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
	return nil
}
