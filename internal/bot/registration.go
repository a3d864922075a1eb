package bot

import (
	"context"
	"fmt"

	"github.com/Spok95/pocket-bot/internal/dialog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	u, err := b.users.UpsertFromTelegram(ctx, telegramProfile(msg.From))
	if err != nil {
		b.log.Error("upsert user failed", "tg_id", msg.From.ID, "err", err)
		b.sendText(chatID, "Ошибка: не удалось сохранить профиль")
		return
	}

	first, err := b.prefs.IsFirstLaunch(ctx, u.ID)
	if err != nil {
		b.log.Error("read prefs failed", "user_id", u.ID, "err", err)
	}
	if first {
		_ = b.states.Set(ctx, chatID, dialog.StateAwaitUsername, dialog.Payload{})
		b.askUsername(chatID, "Привет! Это карманный помощник: викторина, учёт подписок и маршрутов.\n\nКак к вам обращаться?")
		return
	}

	name, _ := b.prefs.Username(ctx, u.ID)
	_ = b.states.Reset(ctx, chatID)
	b.showMainMenu(chatID, fmt.Sprintf("С возвращением, %s!", name))
}

func (b *Bot) askUsername(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(m)
}

func (b *Bot) handleUsername(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	u, err := b.currentUser(ctx, msg.From)
	if err != nil {
		b.log.Error("load user failed", "tg_id", msg.From.ID, "err", err)
		b.sendText(chatID, "Ошибка: не удалось сохранить имя")
		return
	}
	ok, err := b.prefs.SaveUsername(ctx, u.ID, msg.Text)
	if err != nil {
		b.log.Error("save username failed", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Ошибка: не удалось сохранить имя")
		return
	}
	if !ok {
		b.askUsername(chatID, "Имя не может быть пустым. Как к вам обращаться?")
		return
	}
	name, _ := b.prefs.Username(ctx, u.ID)
	_ = b.states.Reset(ctx, chatID)
	b.showMainMenu(chatID, fmt.Sprintf("Приятно познакомиться, %s! Выберите раздел на панели снизу.", name))
}

func (b *Bot) showMainMenu(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = mainReplyKeyboard()
	b.send(m)
}
