package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/domain/users"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

/*** HELPERS ***/

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

// currentUser профиль из базы; создаётся при первом обращении.
func (b *Bot) currentUser(ctx context.Context, from *tgbotapi.User) (*users.User, error) {
	u, err := b.users.GetByTelegramID(ctx, from.ID)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}
	return b.users.UpsertFromTelegram(ctx, telegramProfile(from))
}

func telegramProfile(from *tgbotapi.User) users.Telegram {
	return users.Telegram{
		ID:        from.ID,
		Username:  from.UserName,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	}
}

// clearPrevStep убрать inline-кнопки у прошлого шага, если он был
func (b *Bot) clearPrevStep(ctx context.Context, chatID int64) {
	st, _ := b.states.Get(ctx, chatID)
	if st == nil || st.Payload == nil {
		return
	}
	if mid, ok := dialog.GetInt64(st.Payload, "last_mid"); ok && mid > 0 {
		rm := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
		b.send(tgbotapi.NewEditMessageReplyMarkup(chatID, int(mid), rm))
	}
}

// saveLastStep сохранить id текущего бот-сообщения как «последний»
func (b *Bot) saveLastStep(ctx context.Context, chatID int64, nextState dialog.State, payload dialog.Payload, newMID int) {
	if payload == nil {
		payload = dialog.Payload{}
	}
	payload["last_mid"] = float64(newMID)
	if err := b.states.Set(ctx, chatID, nextState, payload); err != nil {
		b.log.Error("save dialog state failed", "chat_id", chatID, "state", nextState, "err", err)
	}
}

// askStep новый шаг диалога: кнопки прошлого шага убираем, id сообщения запоминаем.
func (b *Bot) askStep(ctx context.Context, chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup, next dialog.State, payload dialog.Payload) {
	b.clearPrevStep(ctx, chatID)
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	sent, err := b.api.Send(m)
	if err != nil {
		b.log.Error("send failed", "err", err)
		return
	}
	b.saveLastStep(ctx, chatID, next, payload, sent.MessageID)
}

// editStep тот же шаг, но в уже существующем сообщении (кнопки «Назад», выбор из списка).
func (b *Bot) editStep(ctx context.Context, chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup, next dialog.State, payload dialog.Payload) {
	b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb))
	b.saveLastStep(ctx, chatID, next, payload, messageID)
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendXLSX(chatID int64, prefix string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().In(b.loc).Format("20060102_150405")),
		Bytes: data,
	})
	doc.Caption = caption
	b.send(doc)
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}
