package quiz_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
)

func question(text string) trivia.Question {
	return trivia.Question{
		Category:         "General Knowledge",
		Type:             "multiple",
		Difficulty:       "easy",
		Text:             text,
		CorrectAnswer:    text + "-right",
		IncorrectAnswers: []string{text + "-w1", text + "-w2", text + "-w3"},
	}
}

func newGame(texts ...string) *quiz.Game {
	qs := make([]trivia.Question, 0, len(texts))
	for _, t := range texts {
		qs = append(qs, question(t))
	}
	return quiz.NewGame(qs, 9, "easy", rand.New(rand.NewPCG(1, 2)))
}

type stubReplacer struct {
	q     *trivia.Question
	calls int
	seen  []trivia.Question
}

func (s *stubReplacer) Replacement(_ context.Context, current []trivia.Question, _ int, _ string) (*trivia.Question, bool) {
	s.calls++
	s.seen = current
	if s.q == nil {
		return nil, false
	}
	return s.q, true
}

func TestEmptyGameHasNoQuestion(t *testing.T) {
	g := newGame()
	if _, ok := g.Current(); ok {
		t.Fatalf("empty game must have no current question")
	}
	if len(g.Answers()) != 0 {
		t.Fatalf("answers = %v", g.Answers())
	}
	if _, err := g.Answer("x"); !errors.Is(err, quiz.ErrNoQuestion) {
		t.Fatalf("err = %v", err)
	}
}

func TestAnswersContainAllOptions(t *testing.T) {
	g := newGame("a")
	got := g.Answers()
	want := []string{"a-right", "a-w1", "a-w2", "a-w3"}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Fatalf("answers = %v, want %v", got, want)
	}
	first := g.Answers()
	if !slices.Equal(first, g.Answers()) {
		t.Fatalf("answers must be stable while the question is shown")
	}
}

func TestAnswerScoresAndAdvances(t *testing.T) {
	g := newGame("a", "b", "c")

	if g.CounterText() != "Question 1/3" {
		t.Fatalf("counter = %q", g.CounterText())
	}
	res, err := g.Answer("a-right")
	if err != nil || !res.IsCorrect || res.Correct != "a-right" {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
	if g.Score() != 1 || g.CounterText() != "Question 2/3" {
		t.Fatalf("score = %d, counter = %q", g.Score(), g.CounterText())
	}

	res, _ = g.Answer("b-w2")
	if res.IsCorrect || res.Selected != "b-w2" || res.Correct != "b-right" {
		t.Fatalf("res = %+v", res)
	}
	if g.Score() != 1 {
		t.Fatalf("wrong answer changed score: %d", g.Score())
	}

	q, _ := g.Current()
	if q.Text != "c" {
		t.Fatalf("current = %q", q.Text)
	}
	if _, err := g.Answer("c-right"); err != nil {
		t.Fatal(err)
	}
	if !g.Finished() || g.Score() != 2 {
		t.Fatalf("finished = %v, score = %d", g.Finished(), g.Score())
	}
	if _, err := g.Answer("c-right"); !errors.Is(err, quiz.ErrFinished) {
		t.Fatalf("answer after finish: %v", err)
	}
	if g.Score() != 2 {
		t.Fatalf("score changed after finish: %d", g.Score())
	}
}

func TestAnswerIndex(t *testing.T) {
	g := newGame("a")
	answers := g.Answers()
	i := slices.Index(answers, "a-right")
	res, err := g.AnswerIndex(i)
	if err != nil || !res.IsCorrect {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
	if _, err := newGame("a").AnswerIndex(7); !errors.Is(err, quiz.ErrBadAnswer) {
		t.Fatalf("err = %v", err)
	}
}

func TestFiftyFiftyHidesTwoWrongOnce(t *testing.T) {
	g := newGame("a", "b")
	hidden, err := g.FiftyFifty()
	if err != nil {
		t.Fatal(err)
	}
	if len(hidden) != 2 {
		t.Fatalf("hidden = %v", hidden)
	}
	for _, h := range hidden {
		if h == "a-right" {
			t.Fatalf("correct answer hidden")
		}
		if !g.IsHidden(h) {
			t.Fatalf("%q not reported hidden", h)
		}
	}
	if hidden[0] == hidden[1] {
		t.Fatalf("same answer hidden twice: %v", hidden)
	}
	if g.FiftyFiftyAvailable() {
		t.Fatalf("fifty-fifty still available")
	}
	if _, err := g.FiftyFifty(); !errors.Is(err, quiz.ErrFiftyFiftyUsed) {
		t.Fatalf("second use: %v", err)
	}

	g.Answer("a-right")
	if len(g.Hidden()) != 0 {
		t.Fatalf("hidden answers leaked to next question: %v", g.Hidden())
	}
}

func TestFiftyFiftyWithFewWrongAnswers(t *testing.T) {
	q := trivia.Question{Text: "tf", CorrectAnswer: "True", IncorrectAnswers: []string{"False"}}
	g := quiz.NewGame([]trivia.Question{q}, 9, "easy", nil)
	hidden, err := g.FiftyFifty()
	if err != nil || len(hidden) != 1 || hidden[0] != "False" {
		t.Fatalf("hidden = %v, err = %v", hidden, err)
	}
}

func TestSwapReplacesCurrentQuestion(t *testing.T) {
	g := newGame("a", "b")
	repl := question("z")
	r := &stubReplacer{q: &repl}

	if err := g.Swap(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	q, _ := g.Current()
	if q.Text != "z" {
		t.Fatalf("current = %q", q.Text)
	}
	if len(r.seen) != 2 || r.seen[0].Text != "a" {
		t.Fatalf("replacer saw %v", r.seen)
	}
	got := g.Answers()
	slices.Sort(got)
	if !slices.Equal(got, []string{"z-right", "z-w1", "z-w2", "z-w3"}) {
		t.Fatalf("answers = %v", got)
	}
	if g.SwapAvailable() {
		t.Fatalf("swap still available")
	}
	if err := g.Swap(context.Background(), r); !errors.Is(err, quiz.ErrSwapUsed) {
		t.Fatalf("second swap: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("replacer called %d times", r.calls)
	}
}

func TestSwapFailureRestoresPowerUp(t *testing.T) {
	g := newGame("a")
	err := g.Swap(context.Background(), &stubReplacer{})
	if !errors.Is(err, quiz.ErrSwapFailed) {
		t.Fatalf("err = %v", err)
	}
	if !g.SwapAvailable() {
		t.Fatalf("swap must be given back after failure")
	}
	q, _ := g.Current()
	if q.Text != "a" {
		t.Fatalf("question changed: %q", q.Text)
	}
}

func TestResultTier(t *testing.T) {
	cases := []struct {
		score int
		want  quiz.Tier
	}{
		{10, quiz.TierExcellent},
		{8, quiz.TierExcellent},
		{7, quiz.TierNotBad},
		{6, quiz.TierNotBad},
		{5, quiz.TierMeh},
		{4, quiz.TierMeh},
		{3, quiz.TierSad},
		{2, quiz.TierSad},
		{1, quiz.TierCry},
		{0, quiz.TierCry},
	}
	for _, c := range cases {
		if got := quiz.ResultTier(c.score); got != c.want {
			t.Fatalf("ResultTier(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestSessionsConcurrentAccess(t *testing.T) {
	s := quiz.NewSessions()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Put(id, newGame("a"))
			if _, ok := s.Get(id); !ok {
				t.Errorf("game %d missing", id)
			}
		}(i)
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Fatalf("len = %d", s.Len())
	}
	s.Delete(3)
	if _, ok := s.Get(3); ok {
		t.Fatalf("deleted game still present")
	}
}
