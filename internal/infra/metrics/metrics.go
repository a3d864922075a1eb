package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	triviaRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pocketbot",
		Name:      "trivia_requests_total",
		Help:      "Requests to the trivia API by outcome.",
	}, []string{"outcome"})

	swapAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pocketbot",
		Name:      "quiz_swap_attempts_total",
		Help:      "Single-question fetches made while swapping a quiz question.",
	}, []string{"outcome"})

	quizFinished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pocketbot",
		Name:      "quiz_games_finished_total",
		Help:      "Quiz games played to the end.",
	})

	updates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pocketbot",
		Name:      "telegram_updates_total",
		Help:      "Telegram updates handled by kind.",
	}, []string{"kind"})
)

// outcome: ok | http_error | api_error | decode_error | empty
func TriviaRequest(outcome string) { triviaRequests.WithLabelValues(outcome).Inc() }

// outcome: found | duplicate | empty | error
func SwapAttempt(outcome string) { swapAttempts.WithLabelValues(outcome).Inc() }

func QuizFinished() { quizFinished.Inc() }

// kind: message | callback | other
func Update(kind string) { updates.WithLabelValues(kind).Inc() }
