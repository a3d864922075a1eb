package trivia_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Spok95/pocket-bot/internal/trivia"
)

type scriptedFetcher struct {
	calls   int
	replies []func() ([]trivia.Question, error)
}

func (f *scriptedFetcher) Questions(ctx context.Context, _ trivia.Query) ([]trivia.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i := f.calls
	f.calls++
	if i >= len(f.replies) {
		i = len(f.replies) - 1
	}
	return f.replies[i]()
}

func reply(qs ...trivia.Question) func() ([]trivia.Question, error) {
	return func() ([]trivia.Question, error) { return qs, nil }
}

func fail(err error) func() ([]trivia.Question, error) {
	return func() ([]trivia.Question, error) { return nil, err }
}

func q(text string) trivia.Question {
	return trivia.Question{Text: text, CorrectAnswer: "a", IncorrectAnswers: []string{"b", "c", "d"}}
}

func newRepo(f trivia.Fetcher) *trivia.Repository {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return trivia.NewRepository(f, log, trivia.RepositoryOptions{SwapAttempts: 5, SwapBackoff: time.Millisecond})
}

func TestQuestions_DegradesToEmpty(t *testing.T) {
	r := newRepo(&scriptedFetcher{replies: []func() ([]trivia.Question, error){fail(errors.New("offline"))}})
	if got := r.Questions(context.Background(), 9, "easy"); len(got) != 0 {
		t.Fatalf("got %d questions, want none", len(got))
	}
}

func TestReplacement_FirstNew(t *testing.T) {
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){reply(q("new"))}}
	got, ok := newRepo(f).Replacement(context.Background(), []trivia.Question{q("old")}, 9, "easy")
	if !ok || got.Text != "new" {
		t.Fatalf("got %+v, %v", got, ok)
	}
	if f.calls != 1 {
		t.Fatalf("calls = %d, want 1", f.calls)
	}
}

func TestReplacement_SkipsDuplicatesAndEmpty(t *testing.T) {
	current := []trivia.Question{q("one"), q("two")}
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){
		reply(q("two")),
		reply(),
		fail(&trivia.StatusError{Code: 429}),
		reply(q("three")),
	}}
	got, ok := newRepo(f).Replacement(context.Background(), current, 9, "easy")
	if !ok || got.Text != "three" {
		t.Fatalf("got %+v, %v", got, ok)
	}
	if f.calls != 4 {
		t.Fatalf("calls = %d, want 4", f.calls)
	}
}

func TestReplacement_GivesUpWithinBudget(t *testing.T) {
	current := []trivia.Question{q("same")}
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){reply(q("same"))}}

	got, ok := newRepo(f).Replacement(context.Background(), current, 9, "easy")
	if ok || got != nil {
		t.Fatalf("got %+v, %v; want failure", got, ok)
	}
	if f.calls != 5 {
		t.Fatalf("calls = %d, want exactly the budget of 5", f.calls)
	}
}

func TestReplacement_TransportErrorStops(t *testing.T) {
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){
		fail(errors.New("connection refused")),
		reply(q("never")),
	}}
	if _, ok := newRepo(f).Replacement(context.Background(), nil, 9, "easy"); ok {
		t.Fatal("transport error must fail the search")
	}
	if f.calls != 1 {
		t.Fatalf("calls = %d, want 1", f.calls)
	}
}

func TestReplacement_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){reply(q("x"))}}
	if _, ok := newRepo(f).Replacement(ctx, nil, 9, "easy"); ok {
		t.Fatal("cancelled context must fail the search")
	}
}

func TestReplacement_RateLimitRetried(t *testing.T) {
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){
		fail(&trivia.APIError{Code: 5}),
		fail(&trivia.APIError{Code: 5}),
		reply(q("fresh")),
	}}
	got, ok := newRepo(f).Replacement(context.Background(), nil, 9, "easy")
	if !ok || got.Text != "fresh" {
		t.Fatalf("got %+v, %v", got, ok)
	}
	if f.calls != 3 {
		t.Fatalf("calls = %d, want 3", f.calls)
	}
}

func TestReplacement_DefaultBackoffCoversRateLimit(t *testing.T) {
	f := &scriptedFetcher{replies: []func() ([]trivia.Question, error){
		fail(&trivia.APIError{Code: 5}),
		reply(q("fresh")),
	}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := trivia.NewRepository(f, log, trivia.RepositoryOptions{SwapTimeout: 100 * time.Millisecond})

	// пауза по умолчанию длиннее окна лимита, второй запрос не успевает уйти
	if _, ok := r.Replacement(context.Background(), nil, 9, "easy"); ok {
		t.Fatal("search must hit the time budget before the next request")
	}
	if f.calls != 1 {
		t.Fatalf("calls = %d, want 1", f.calls)
	}
}

type blockingFetcher struct{}

func (blockingFetcher) Questions(ctx context.Context, _ trivia.Query) ([]trivia.Question, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestReplacement_StopsAtTimeBudget(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := trivia.NewRepository(blockingFetcher{}, log, trivia.RepositoryOptions{
		SwapAttempts: 5,
		SwapBackoff:  time.Millisecond,
		SwapTimeout:  20 * time.Millisecond,
	})

	start := time.Now()
	if _, ok := r.Replacement(context.Background(), nil, 9, "easy"); ok {
		t.Fatal("blocked source must fail the search")
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Fatalf("search took %v, budget not applied", d)
	}
}
