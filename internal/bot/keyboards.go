package bot

import (
	"fmt"

	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	"github.com/Spok95/pocket-bot/internal/trivia"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	menuQuiz   = "Викторина"
	menuSubs   = "Подписки"
	menuRoutes = "Маршруты"
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// withNav добавляет строку навигации под кнопками шага.
func withNav(back, cancel bool, rows ...[]tgbotapi.InlineKeyboardButton) tgbotapi.InlineKeyboardMarkup {
	rows = append(rows, navKeyboard(back, cancel).InlineKeyboard[0])
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// mainReplyKeyboard Нижняя панель с разделами
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(menuQuiz)},
			{tgbotapi.NewKeyboardButton(menuSubs), tgbotapi.NewKeyboardButton(menuRoutes)},
		},
	}
}

func quizCategoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range trivia.Categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Name, fmt.Sprintf("quiz:cat:%d", c.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏆 Рекорды", "quiz:top"),
	))
	return withNav(false, true, rows...)
}

func quizDifficultyKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, d := range trivia.Difficulties {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(d.Label, "quiz:diff:"+d.Label),
		))
	}
	return withNav(true, true, rows...)
}

func quizFinishedKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Ещё раз", "quiz:again"),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Рекорды", "quiz:top"),
		),
	)
}

func cycleKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	for _, c := range subscriptions.Cycles {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label(), "sub:cycle:"+string(c)))
	}
	return withNav(true, true, row)
}

// keepRow кнопка «оставить текущее значение» на шагах редактирования.
func keepRow(data, current string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("Оставить «%s»", current), data),
	)
}

func confirmDeleteKeyboard(yesData, noData string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Да, удалить", yesData),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", noData),
		),
	)
}
