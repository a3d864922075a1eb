package trivia

import (
	"html"
	"slices"
)

type Question struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Text             string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Equal поэлементное сравнение, по нему ловим повторы.
func (q Question) Equal(o Question) bool {
	return q.Category == o.Category &&
		q.Type == o.Type &&
		q.Difficulty == o.Difficulty &&
		q.Text == o.Text &&
		q.CorrectAnswer == o.CorrectAnswer &&
		slices.Equal(q.IncorrectAnswers, o.IncorrectAnswers)
}

func Contains(list []Question, q Question) bool {
	for _, x := range list {
		if x.Equal(q) {
			return true
		}
	}
	return false
}

// unescape API отдаёт HTML-сущности (&quot; &#039;) во всех текстовых полях.
func (q Question) unescape() Question {
	out := Question{
		Category:      html.UnescapeString(q.Category),
		Type:          q.Type,
		Difficulty:    q.Difficulty,
		Text:          html.UnescapeString(q.Text),
		CorrectAnswer: html.UnescapeString(q.CorrectAnswer),
	}
	out.IncorrectAnswers = make([]string, len(q.IncorrectAnswers))
	for i, a := range q.IncorrectAnswers {
		out.IncorrectAnswers[i] = html.UnescapeString(a)
	}
	return out
}
