package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Spok95/pocket-bot/internal/trivia"
)

var (
	ErrNoQuestion     = errors.New("quiz: no current question")
	ErrFinished       = errors.New("quiz: game finished")
	ErrBadAnswer      = errors.New("quiz: answer index out of range")
	ErrFiftyFiftyUsed = errors.New("quiz: fifty-fifty already used")
	ErrSwapUsed       = errors.New("quiz: swap already used")
	ErrSwapFailed     = errors.New("quiz: no replacement question")
)

// Replacer источник замены вопроса (trivia.Repository).
type Replacer interface {
	Replacement(ctx context.Context, current []trivia.Question, category int, difficulty string) (*trivia.Question, bool)
}

type AnswerResult struct {
	Selected  string
	Correct   string
	IsCorrect bool
}

// Game состояние одной партии. Не потокобезопасно: доступ через Sessions.
type Game struct {
	Category   int
	Difficulty string

	questions []trivia.Question
	index     int
	score     int
	answers   []string
	hidden    []string

	fiftyFifty bool
	swap       bool
	finished   bool

	rng *rand.Rand
}

// NewGame при rng == nil берёт случайный генератор.
func NewGame(questions []trivia.Question, category int, difficulty string, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	g := &Game{
		Category:   category,
		Difficulty: difficulty,
		questions:  slices.Clone(questions),
		fiftyFifty: true,
		swap:       true,
		rng:        rng,
	}
	g.show()
	return g
}

// show готовит текущий вопрос: перемешанные ответы, подсказки сброшены.
func (g *Game) show() {
	g.hidden = nil
	q, ok := g.Current()
	if !ok {
		g.answers = nil
		return
	}
	answers := make([]string, 0, len(q.IncorrectAnswers)+1)
	answers = append(answers, q.IncorrectAnswers...)
	answers = append(answers, q.CorrectAnswer)
	g.rng.Shuffle(len(answers), func(i, j int) { answers[i], answers[j] = answers[j], answers[i] })
	g.answers = answers
}

func (g *Game) Current() (trivia.Question, bool) {
	if g.finished || g.index >= len(g.questions) {
		return trivia.Question{}, false
	}
	return g.questions[g.index], true
}

func (g *Game) Questions() []trivia.Question { return slices.Clone(g.questions) }
func (g *Game) Answers() []string            { return slices.Clone(g.answers) }
func (g *Game) Hidden() []string             { return slices.Clone(g.hidden) }
func (g *Game) Score() int                   { return g.score }
func (g *Game) Total() int                   { return len(g.questions) }
func (g *Game) Index() int                   { return g.index }
func (g *Game) Finished() bool               { return g.finished }
func (g *Game) FiftyFiftyAvailable() bool    { return g.fiftyFifty }
func (g *Game) SwapAvailable() bool          { return g.swap }

// IsHidden ответ убран подсказкой 50/50.
func (g *Game) IsHidden(answer string) bool { return slices.Contains(g.hidden, answer) }

// CounterText "Question 3/10".
func (g *Game) CounterText() string {
	return fmt.Sprintf("Question %d/%d", g.index+1, len(g.questions))
}

// Answer засчитывает ответ и переходит к следующему вопросу или завершает игру.
func (g *Game) Answer(selected string) (AnswerResult, error) {
	if g.finished {
		return AnswerResult{}, ErrFinished
	}
	q, ok := g.Current()
	if !ok {
		return AnswerResult{}, ErrNoQuestion
	}
	res := AnswerResult{
		Selected:  selected,
		Correct:   q.CorrectAnswer,
		IsCorrect: selected == q.CorrectAnswer,
	}
	if res.IsCorrect {
		g.score++
	}
	if g.index < len(g.questions)-1 {
		g.index++
		g.show()
	} else {
		g.finished = true
		g.answers = nil
		g.hidden = nil
	}
	return res, nil
}

// AnswerIndex ответ по позиции кнопки в Answers().
func (g *Game) AnswerIndex(i int) (AnswerResult, error) {
	if g.finished {
		return AnswerResult{}, ErrFinished
	}
	if i < 0 || i >= len(g.answers) {
		return AnswerResult{}, ErrBadAnswer
	}
	return g.Answer(g.answers[i])
}

// FiftyFifty один раз за игру прячет два случайных неверных ответа.
func (g *Game) FiftyFifty() ([]string, error) {
	if !g.fiftyFifty {
		return nil, ErrFiftyFiftyUsed
	}
	g.fiftyFifty = false

	q, ok := g.Current()
	if !ok {
		return nil, nil
	}
	wrong := slices.Clone(q.IncorrectAnswers)
	g.rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > 2 {
		wrong = wrong[:2]
	}
	g.hidden = wrong
	return slices.Clone(wrong), nil
}

// Swap один раз за игру меняет текущий вопрос на новый.
// Если замены нет, подсказка возвращается игроку.
func (g *Game) Swap(ctx context.Context, r Replacer) error {
	if !g.swap {
		return ErrSwapUsed
	}
	if _, ok := g.Current(); !ok {
		return ErrNoQuestion
	}
	g.swap = false

	q, ok := r.Replacement(ctx, g.Questions(), g.Category, g.Difficulty)
	if !ok || q == nil {
		g.swap = true
		return ErrSwapFailed
	}
	g.questions[g.index] = *q
	g.show()
	return nil
}
