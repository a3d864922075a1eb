package trivia

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Spok95/pocket-bot/internal/infra/metrics"
	"github.com/sethvargo/go-retry"
)

var (
	errEmpty     = errors.New("trivia: empty response")
	errDuplicate = errors.New("trivia: question already in game")
)

type Fetcher interface {
	Questions(ctx context.Context, q Query) ([]Question, error)
}

type Repository struct {
	src      Fetcher
	log      *slog.Logger
	amount   int
	attempts int
	backoff  time.Duration
	budget   time.Duration
}

type RepositoryOptions struct {
	Amount       int           // вопросов на игру, по умолчанию 10
	SwapAttempts int           // запросов при замене, по умолчанию 5
	SwapBackoff  time.Duration // пауза между попытками замены, по умолчанию 5s (лимит Open Trivia DB)
	SwapTimeout  time.Duration // общий лимит на поиск замены, по умолчанию 30s
}

func NewRepository(src Fetcher, log *slog.Logger, opts RepositoryOptions) *Repository {
	if opts.Amount <= 0 {
		opts.Amount = 10
	}
	if opts.SwapAttempts <= 0 {
		opts.SwapAttempts = 5
	}
	if opts.SwapBackoff <= 0 {
		opts.SwapBackoff = 5 * time.Second
	}
	if opts.SwapTimeout <= 0 {
		opts.SwapTimeout = 30 * time.Second
	}
	return &Repository{
		src:      src,
		log:      log,
		amount:   opts.Amount,
		attempts: opts.SwapAttempts,
		backoff:  opts.SwapBackoff,
		budget:   opts.SwapTimeout,
	}
}

// Questions набор вопросов для новой игры. При любой ошибке пустой список и запись в лог.
func (r *Repository) Questions(ctx context.Context, category int, difficulty string) []Question {
	qs, err := r.src.Questions(ctx, Query{Amount: r.amount, Category: category, Difficulty: difficulty})
	if err != nil {
		r.log.Error("trivia questions failed", "category", category, "difficulty", difficulty, "err", err)
		return nil
	}
	return qs
}

// Replacement ищет один новый вопрос, которого нет в current.
// Не больше r.attempts запросов. Повтор или пустой ответ дают следующую попытку,
// ошибка сервера (статус/response_code) тоже. Сетевая ошибка сразу даёт отказ.
// Весь поиск ограничен r.budget: апдейты обрабатываются по одному,
// и пока идёт замена, остальные чаты ждут.
func (r *Repository) Replacement(ctx context.Context, current []Question, category int, difficulty string) (*Question, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.budget)
	defer cancel()

	var found *Question
	b := retry.WithMaxRetries(uint64(r.attempts-1), retry.NewConstant(r.backoff))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		qs, err := r.src.Questions(ctx, Query{Amount: 1, Category: category, Difficulty: difficulty})
		if err != nil {
			var se *StatusError
			var ae *APIError
			switch {
			case errors.As(err, &ae) && ae.Code == codeRateLimited:
				metrics.SwapAttempt("rate_limited")
				return retry.RetryableError(err)
			case errors.As(err, &se) || errors.As(err, &ae):
				metrics.SwapAttempt("empty")
				return retry.RetryableError(err)
			}
			metrics.SwapAttempt("error")
			return err
		}
		if len(qs) == 0 {
			metrics.SwapAttempt("empty")
			return retry.RetryableError(errEmpty)
		}
		if Contains(current, qs[0]) {
			metrics.SwapAttempt("duplicate")
			return retry.RetryableError(errDuplicate)
		}
		metrics.SwapAttempt("found")
		q := qs[0]
		found = &q
		return nil
	})
	if err != nil {
		r.log.Warn("trivia replacement not found", "category", category, "difficulty", difficulty, "err", err)
		return nil, false
	}
	return found, true
}
