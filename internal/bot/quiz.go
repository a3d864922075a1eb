package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/infra/metrics"
	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const leaderboardSize = 10

func (b *Bot) showQuizCategories(ctx context.Context, chatID int64, editMsgID *int) {
	text := "Викторина\n\nВыберите категорию:"
	if editMsgID != nil {
		b.editStep(ctx, chatID, *editMsgID, text, quizCategoryKeyboard(), dialog.StateQuizPickCategory, dialog.Payload{})
		return
	}
	b.askStep(ctx, chatID, text, quizCategoryKeyboard(), dialog.StateQuizPickCategory, dialog.Payload{})
}

func (b *Bot) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	switch {
	case strings.HasPrefix(rest, "cat:"):
		id, _ := strconv.Atoi(strings.TrimPrefix(rest, "cat:"))
		cat := trivia.KnownCategory(id)
		b.editStep(ctx, chatID, mid,
			fmt.Sprintf("Категория: %s\n\nВыберите сложность:", trivia.CategoryName(cat)),
			quizDifficultyKeyboard(), dialog.StateQuizPickDifficulty, dialog.Payload{"category": cat})
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(rest, "diff:"):
		b.startQuiz(ctx, cb, strings.TrimPrefix(rest, "diff:"))

	case strings.HasPrefix(rest, "ans:"):
		b.handleQuizAnswer(ctx, cb, strings.TrimPrefix(rest, "ans:"))

	case rest == "5050":
		g, ok := b.activeGame(cb)
		if !ok {
			return
		}
		if _, err := g.FiftyFifty(); err != nil {
			_ = b.answerCallback(cb, "Подсказка 50/50 уже использована", false)
			return
		}
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, questionText(g), answerKeyboard(g)))
		_ = b.answerCallback(cb, "Два неверных ответа убраны", false)

	case rest == "swap":
		g, ok := b.activeGame(cb)
		if !ok {
			return
		}
		err := g.Swap(ctx, b.trivia)
		switch {
		case errors.Is(err, quiz.ErrSwapUsed):
			_ = b.answerCallback(cb, "Замена вопроса уже использована", false)
			return
		case err != nil:
			_ = b.answerCallback(cb, "Не удалось найти другой вопрос. Подсказка осталась у вас.", true)
			return
		}
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, questionText(g), answerKeyboard(g)))
		_ = b.answerCallback(cb, "Вопрос заменён", false)

	case rest == "quit":
		g, ok := b.sessions.Get(chatID)
		b.sessions.Delete(chatID)
		_ = b.states.Reset(ctx, chatID)
		text := "Игра прервана."
		if ok {
			text = fmt.Sprintf("Игра прервана. Счёт: %d / %d", g.Score(), g.Total())
		}
		b.editTextAndClear(chatID, mid, text)
		_ = b.answerCallback(cb, "", false)

	case rest == "again":
		b.editTextAndClear(chatID, mid, cb.Message.Text)
		b.showQuizCategories(ctx, chatID, nil)
		_ = b.answerCallback(cb, "", false)

	case rest == "top":
		b.showLeaderboard(ctx, chatID)
		_ = b.answerCallback(cb, "", false)

	default:
		_ = b.answerCallback(cb, "Неизвестная команда", false)
	}
}

// activeGame игра чата. Если её нет (рестарт бота), сообщаем и убираем кнопки.
func (b *Bot) activeGame(cb *tgbotapi.CallbackQuery) (*quiz.Game, bool) {
	chatID := cb.Message.Chat.ID
	g, ok := b.sessions.Get(chatID)
	if !ok || g.Finished() {
		b.editTextAndClear(chatID, cb.Message.MessageID, "Игра не найдена. Начните новую в разделе «Викторина».")
		_ = b.answerCallback(cb, "Игра не найдена", false)
		return nil, false
	}
	return g, true
}

func (b *Bot) startQuiz(ctx context.Context, cb *tgbotapi.CallbackQuery, label string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	st, _ := b.states.Get(ctx, chatID)
	cat := trivia.DefaultCategory
	if st != nil {
		if v, ok := dialog.GetInt64(st.Payload, "category"); ok {
			cat = trivia.KnownCategory(int(v))
		}
	}
	diff := trivia.ParseDifficulty(label)

	_ = b.answerCallback(cb, "Загружаю вопросы…", false)
	b.editTextAndClear(chatID, mid, "Загружаю вопросы…")

	qs := b.trivia.Questions(ctx, cat, diff)
	g := quiz.NewGame(qs, cat, diff, nil)
	if _, ok := g.Current(); !ok {
		kb := withNav(true, true, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Попробовать снова", "quiz:diff:"+label),
		))
		b.editStep(ctx, chatID, mid, "Не удалось загрузить вопросы. Проверьте соединение и попробуйте снова.",
			kb, dialog.StateQuizPickDifficulty, dialog.Payload{"category": cat})
		return
	}

	b.sessions.Put(chatID, g)
	b.editStep(ctx, chatID, mid, questionText(g), answerKeyboard(g),
		dialog.StateQuizPlaying, dialog.Payload{"category": cat, "difficulty": diff})
}

// handleQuizAnswer rest = "<номер вопроса>:<номер ответа>".
func (b *Bot) handleQuizAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	g, ok := b.activeGame(cb)
	if !ok {
		return
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		_ = b.answerCallback(cb, "Ошибка", false)
		return
	}
	qIdx, err1 := strconv.Atoi(parts[0])
	aIdx, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		_ = b.answerCallback(cb, "Ошибка", false)
		return
	}
	if qIdx != g.Index() {
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, mid, tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}))
		_ = b.answerCallback(cb, "Этот вопрос уже позади", false)
		return
	}

	shown := questionText(g)
	res, err := g.AnswerIndex(aIdx)
	if err != nil {
		_ = b.answerCallback(cb, "Ответ не принят", false)
		return
	}
	b.editTextAndClear(chatID, mid, answerFeedback(shown, res))
	if res.IsCorrect {
		_ = b.answerCallback(cb, "✅ Верно!", false)
	} else {
		_ = b.answerCallback(cb, "❌ Неверно", false)
	}

	if g.Finished() {
		b.finishQuiz(ctx, cb.From, chatID, g)
		return
	}
	st, _ := b.states.Get(ctx, chatID)
	var payload dialog.Payload
	if st != nil {
		payload = st.Payload
	}
	m := tgbotapi.NewMessage(chatID, questionText(g))
	m.ReplyMarkup = answerKeyboard(g)
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	b.saveLastStep(ctx, chatID, dialog.StateQuizPlaying, payload, sent.MessageID)
}

func (b *Bot) finishQuiz(ctx context.Context, from *tgbotapi.User, chatID int64, g *quiz.Game) {
	b.sessions.Delete(chatID)
	_ = b.states.Reset(ctx, chatID)
	metrics.QuizFinished()

	if u, err := b.currentUser(ctx, from); err != nil {
		b.log.Error("load user failed", "tg_id", from.ID, "err", err)
	} else if err := b.results.Save(ctx, u.ID, g.Category, g.Difficulty, g.Score(), g.Total()); err != nil {
		b.log.Error("save quiz result failed", "user_id", u.ID, "err", err)
	}

	m := tgbotapi.NewMessage(chatID, resultText(g.Score(), g.Total()))
	m.ReplyMarkup = quizFinishedKeyboard()
	b.send(m)
}

func (b *Bot) showLeaderboard(ctx context.Context, chatID int64) {
	list, err := b.results.Top(ctx, leaderboardSize)
	if err != nil {
		b.log.Error("load leaderboard failed", "err", err)
		b.sendText(chatID, "Не удалось загрузить рекорды.")
		return
	}
	b.sendText(chatID, leaderboardText(list))
}
