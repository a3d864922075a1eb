package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/pocket-bot/internal/domain/routes"
	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const maxPointsInCard = 10

/*** Викторина ***/

func questionText(g *quiz.Game) string {
	q, ok := g.Current()
	if !ok {
		return "Вопросов нет."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s · Счёт: %d\n", g.CounterText(), g.Score())
	fmt.Fprintf(&sb, "%s · %s\n\n", trivia.CategoryName(g.Category), g.Difficulty)
	sb.WriteString(q.Text)
	if h := g.Hidden(); len(h) > 0 {
		sb.WriteString("\n\n50/50: два неверных ответа убраны.")
	}
	return sb.String()
}

// answerKeyboard callback несёт номер вопроса, чтобы старые кнопки не засчитывались.
func answerKeyboard(g *quiz.Game) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, a := range g.Answers() {
		if g.IsHidden(a) {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(a, fmt.Sprintf("quiz:ans:%d:%d", g.Index(), i)),
		))
	}
	var power []tgbotapi.InlineKeyboardButton
	if g.FiftyFiftyAvailable() {
		power = append(power, tgbotapi.NewInlineKeyboardButtonData("50/50", "quiz:5050"))
	}
	if g.SwapAvailable() {
		power = append(power, tgbotapi.NewInlineKeyboardButtonData("🔄 Другой вопрос", "quiz:swap"))
	}
	if len(power) > 0 {
		rows = append(rows, power)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✖️ Завершить", "quiz:quit"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func answerFeedback(questionText string, res quiz.AnswerResult) string {
	if res.IsCorrect {
		return fmt.Sprintf("%s\n\n✅ Верно: %s", questionText, res.Correct)
	}
	return fmt.Sprintf("%s\n\n❌ Ваш ответ: %s\nПравильный ответ: %s", questionText, res.Selected, res.Correct)
}

func resultText(score, total int) string {
	tier := quiz.ResultTier(score)
	var verdict string
	switch tier {
	case quiz.TierExcellent:
		verdict = "Превосходно!"
	case quiz.TierNotBad:
		verdict = "Неплохо!"
	case quiz.TierMeh:
		verdict = "Так себе."
	case quiz.TierSad:
		verdict = "Грустно."
	default:
		verdict = "Попробуйте ещё раз."
	}
	return fmt.Sprintf("Игра окончена.\n\n%s %d / %d\n%s", tier.Emoji(), score, total, verdict)
}

func leaderboardText(list []quiz.ResultEntry) string {
	if len(list) == 0 {
		return "Рекордов пока нет. Сыграйте первым!"
	}
	var sb strings.Builder
	sb.WriteString("🏆 Рекорды\n\n")
	for i, e := range list {
		name := e.Name
		if name == "" {
			name = "Без имени"
		}
		fmt.Fprintf(&sb, "%d. %s — %d/%d (%s, %s)\n", i+1, name, e.Score, e.Total, trivia.CategoryName(e.Category), e.Difficulty)
	}
	return sb.String()
}

/*** Подписки ***/

func money(v float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, currency)
}

// totalsCurrency валюта итогов, если она у всех подписок одна.
func totalsCurrency(items []subscriptions.Item) string {
	cur := ""
	for i, it := range items {
		if i == 0 {
			cur = it.Currency
			continue
		}
		if it.Currency != cur {
			return ""
		}
	}
	return cur
}

func overviewText(o subscriptions.Overview) string {
	if len(o.Items) == 0 {
		return "Подписок пока нет. Нажмите «➕ Добавить»."
	}
	var sb strings.Builder
	sb.WriteString("Подписки\n\n")
	for _, it := range o.Items {
		fmt.Fprintf(&sb, "• %s — %s, %s\n  следующий платёж: %s\n",
			it.Name, money(it.Amount, it.Currency), strings.ToLower(it.Cycle.Label()),
			it.NextPayment.Format(subscriptions.DateLayout))
	}
	cur := totalsCurrency(o.Items)
	fmt.Fprintf(&sb, "\nВ месяц: %s\nВ год: %s\nВ день: %s",
		money(o.Costs.Monthly, cur), money(o.Costs.Annual, cur), money(o.Costs.Daily, cur))
	return sb.String()
}

func overviewKeyboard(o subscriptions.Overview) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range o.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(it.Name, fmt.Sprintf("sub:item:%d", it.ID)),
		))
	}
	actions := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Добавить", "sub:add"))
	if len(o.Items) > 0 {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("📥 Excel", "sub:export"))
	}
	rows = append(rows, actions)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func subscriptionCard(it subscriptions.Item) string {
	return fmt.Sprintf("%s\n\nСумма: %s\nПериод: %s\nПервый платёж: %s\nСледующий платёж: %s\nВ пересчёте на месяц: %s",
		it.Name,
		money(it.Amount, it.Currency),
		it.Cycle.Label(),
		it.FirstPaymentDate.Format(subscriptions.DateLayout),
		it.NextPayment.Format(subscriptions.DateLayout),
		money(subscriptions.MonthlyAmount(it.Subscription), it.Currency),
	)
}

func subscriptionCardKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить", fmt.Sprintf("sub:edit:%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", fmt.Sprintf("sub:del:%d", id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ К списку", "sub:list"),
		),
	)
}

/*** Маршруты ***/

func routesText(list []routes.RouteWithPoints) string {
	if len(list) == 0 {
		return "Маршрутов пока нет. Нажмите «➕ Новый маршрут»."
	}
	var sb strings.Builder
	sb.WriteString("Маршруты\n\n")
	for _, rw := range list {
		if last, ok := rw.LastPoint(); ok {
			fmt.Fprintf(&sb, "• %s — %s (точек: %d)\n", rw.Name, routes.FormatPoint(last), len(rw.Points))
		} else {
			fmt.Fprintf(&sb, "• %s — точек нет\n", rw.Name)
		}
	}
	return sb.String()
}

func routesKeyboard(list []routes.RouteWithPoints) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, rw := range list {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(rw.Name, fmt.Sprintf("rt:item:%d", rw.ID)),
		))
	}
	actions := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ Новый маршрут", "rt:add"))
	if len(list) > 0 {
		actions = append(actions, tgbotapi.NewInlineKeyboardButtonData("📥 Excel", "rt:export"))
	}
	rows = append(rows, actions)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// routeCard последние точки, новые сверху.
func routeCard(rw routes.RouteWithPoints, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nСоздан: %s\n", rw.Name, rw.CreatedAt.In(loc).Format("2006/01/02 15:04"))
	if len(rw.Points) == 0 {
		sb.WriteString("\nТочек нет.")
		return sb.String()
	}
	fmt.Fprintf(&sb, "\nТочек: %d\n", len(rw.Points))
	n := 0
	for i := len(rw.Points) - 1; i >= 0 && n < maxPointsInCard; i-- {
		p := rw.Points[i]
		fmt.Fprintf(&sb, "%s — %s\n", p.RecordedAt.In(loc).Format("01/02 15:04"), routes.FormatPoint(p))
		n++
	}
	if len(rw.Points) > maxPointsInCard {
		fmt.Fprintf(&sb, "… и ещё %d", len(rw.Points)-maxPointsInCard)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func routeCardKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📍 Добавить точку", fmt.Sprintf("rt:point:%d", id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Изменить", fmt.Sprintf("rt:edit:%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", fmt.Sprintf("rt:del:%d", id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ К списку", "rt:list"),
		),
	)
}
