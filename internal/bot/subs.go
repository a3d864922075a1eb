package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Черновик подписки живёт в payload диалога.
func subForm(p dialog.Payload) subscriptions.Form {
	f := subscriptions.Form{}
	f.Name, _ = dialog.GetString(p, "name")
	f.Amount, _ = dialog.GetString(p, "amount")
	f.Currency, _ = dialog.GetString(p, "currency")
	if c, ok := dialog.GetString(p, "cycle"); ok {
		f.Cycle = subscriptions.BillingCycle(c)
	}
	if d, ok := dialog.GetString(p, "date"); ok {
		if t, err := time.Parse(time.DateOnly, d); err == nil {
			f.FirstPaymentDate = t
		}
	}
	return f
}

func putSubForm(p dialog.Payload, f subscriptions.Form) dialog.Payload {
	p["name"] = f.Name
	p["amount"] = f.Amount
	p["currency"] = f.Currency
	p["cycle"] = string(f.Cycle)
	if !f.FirstPaymentDate.IsZero() {
		p["date"] = f.FirstPaymentDate.Format(time.DateOnly)
	}
	return p
}

func isEdit(p dialog.Payload) bool {
	mode, _ := dialog.GetString(p, "mode")
	return mode == "edit"
}

func (b *Bot) step(ctx context.Context, chatID int64, editMsgID *int, text string, kb tgbotapi.InlineKeyboardMarkup, next dialog.State, p dialog.Payload) {
	if editMsgID != nil {
		b.editStep(ctx, chatID, *editMsgID, text, kb, next, p)
		return
	}
	b.askStep(ctx, chatID, text, kb, next, p)
}

func (b *Bot) showSubscriptions(ctx context.Context, from *tgbotapi.User, chatID int64, editMsgID *int) {
	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.log.Error("load user failed", "tg_id", from.ID, "err", err)
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	o, err := subscriptions.LoadOverview(ctx, b.subs, u.ID, b.today())
	if err != nil {
		b.log.Error("list subscriptions failed", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Не удалось загрузить подписки.")
		return
	}
	b.step(ctx, chatID, editMsgID, overviewText(o), overviewKeyboard(o), dialog.StateSubList, dialog.Payload{})
}

func (b *Bot) showSubscriptionCard(ctx context.Context, from *tgbotapi.User, chatID int64, mid int, id int64) {
	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	s, err := b.subs.Get(ctx, u.ID, id)
	if err != nil {
		b.log.Error("get subscription failed", "id", id, "err", err)
		b.sendText(chatID, "Не удалось загрузить подписку.")
		return
	}
	if s == nil {
		b.showSubscriptions(ctx, from, chatID, &mid)
		return
	}
	it := subscriptions.BuildOverview([]subscriptions.Subscription{*s}, b.today()).Items[0]
	b.editStep(ctx, chatID, mid, subscriptionCard(it), subscriptionCardKeyboard(id),
		dialog.StateSubItem, dialog.Payload{"id": id})
}

/*** Шаги формы ***/

func (b *Bot) askSubName(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	if isEdit(p) {
		name, _ := dialog.GetString(p, "name")
		b.step(ctx, chatID, editMsgID, "Название подписки. Отправьте новое или оставьте текущее:",
			withNav(false, true, keepRow("sub:keep", name)), dialog.StateSubName, p)
		return
	}
	b.step(ctx, chatID, editMsgID, "Введите название подписки:", navKeyboard(false, true), dialog.StateSubName, p)
}

func (b *Bot) askSubAmount(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	text := fmt.Sprintf("Введите сумму, например 9.99 или 9.99 USD (по умолчанию %s):", subscriptions.DefaultCurrency)
	if isEdit(p) {
		f := subForm(p)
		b.step(ctx, chatID, editMsgID, text,
			withNav(true, true, keepRow("sub:keep", strings.TrimSpace(f.Amount+" "+f.Currency))), dialog.StateSubAmount, p)
		return
	}
	b.step(ctx, chatID, editMsgID, text, navKeyboard(true, true), dialog.StateSubAmount, p)
}

func (b *Bot) askSubCycle(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	b.step(ctx, chatID, editMsgID, "Как часто списывается оплата?", cycleKeyboard(), dialog.StateSubCycle, p)
}

func (b *Bot) askSubDate(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Сегодня", "sub:today")),
	}
	if isEdit(p) {
		if f := subForm(p); !f.FirstPaymentDate.IsZero() {
			rows = append(rows, keepRow("sub:keep", f.FirstPaymentDate.Format(subscriptions.DateLayout)))
		}
	}
	b.step(ctx, chatID, editMsgID, "Дата первой оплаты в формате ГГГГ/ММ/ДД:",
		withNav(true, true, rows...), dialog.StateSubDate, p)
}

func (b *Bot) handleSubText(ctx context.Context, msg *tgbotapi.Message, st *dialog.Item) {
	chatID := msg.Chat.ID
	p := st.Payload.Clone()
	text := strings.TrimSpace(msg.Text)

	switch st.State {
	case dialog.StateSubName:
		if text == "" {
			b.sendText(chatID, "Название не может быть пустым.")
			return
		}
		p["name"] = text
		b.askSubAmount(ctx, chatID, nil, p)

	case dialog.StateSubAmount:
		amount, currency := subscriptions.SplitAmountCurrency(text)
		if _, err := subscriptions.ParseAmount(amount); err != nil {
			b.sendText(chatID, "Некорректная сумма. Пример: 9.99 или 9.99 USD")
			return
		}
		p["amount"] = amount
		if currency != "" {
			p["currency"] = currency
		}
		b.askSubCycle(ctx, chatID, nil, p)

	case dialog.StateSubDate:
		d, err := subscriptions.ParseDate(text)
		if err != nil {
			b.sendText(chatID, "Некорректная дата. Формат: ГГГГ/ММ/ДД, например 2025/01/31")
			return
		}
		p["date"] = d.Format(time.DateOnly)
		b.clearPrevStep(ctx, chatID)
		b.saveSubscription(ctx, msg.From, chatID, p)
	}
}

func (b *Bot) handleSubCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	switch {
	case rest == "list":
		b.showSubscriptions(ctx, cb.From, chatID, &mid)

	case rest == "add":
		b.askSubName(ctx, chatID, nil, dialog.Payload{"mode": "add"})

	case rest == "export":
		b.exportSubscriptions(ctx, cb.From, chatID)

	case strings.HasPrefix(rest, "item:"):
		id, ok := callbackID(rest, "item:")
		if !ok {
			break
		}
		b.showSubscriptionCard(ctx, cb.From, chatID, mid, id)

	case strings.HasPrefix(rest, "edit:"):
		id, ok := callbackID(rest, "edit:")
		if !ok {
			break
		}
		u, err := b.currentUser(ctx, cb.From)
		if err != nil {
			break
		}
		s, err := b.subs.Get(ctx, u.ID, id)
		if err != nil || s == nil {
			_ = b.answerCallback(cb, "Подписка не найдена", false)
			return
		}
		p := putSubForm(dialog.Payload{"mode": "edit", "id": id}, subscriptions.FormFrom(*s))
		b.askSubName(ctx, chatID, &mid, p)

	case strings.HasPrefix(rest, "del:"):
		id, ok := callbackID(rest, "del:")
		if !ok {
			break
		}
		b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Удалить подписку?",
			confirmDeleteKeyboard(fmt.Sprintf("sub:delok:%d", id), fmt.Sprintf("sub:item:%d", id))))

	case strings.HasPrefix(rest, "delok:"):
		id, ok := callbackID(rest, "delok:")
		if !ok {
			break
		}
		u, err := b.currentUser(ctx, cb.From)
		if err != nil {
			break
		}
		if err := b.subs.Delete(ctx, u.ID, id); err != nil && !errors.Is(err, subscriptions.ErrNotFound) {
			b.log.Error("delete subscription failed", "id", id, "err", err)
			_ = b.answerCallback(cb, "Не удалось удалить", true)
			return
		}
		b.showSubscriptions(ctx, cb.From, chatID, &mid)
		_ = b.answerCallback(cb, "Удалено", false)
		return

	case strings.HasPrefix(rest, "cycle:"):
		st, _ := b.states.Get(ctx, chatID)
		if st == nil || st.State != dialog.StateSubCycle {
			_ = b.answerCallback(cb, "Шаг устарел", false)
			return
		}
		c, err := subscriptions.ParseCycle(strings.TrimPrefix(rest, "cycle:"))
		if err != nil {
			break
		}
		p := st.Payload.Clone()
		p["cycle"] = string(c)
		b.askSubDate(ctx, chatID, &mid, p)

	case rest == "today":
		st, _ := b.states.Get(ctx, chatID)
		if st == nil || st.State != dialog.StateSubDate {
			_ = b.answerCallback(cb, "Шаг устарел", false)
			return
		}
		p := st.Payload.Clone()
		p["date"] = b.today().Format(time.DateOnly)
		b.editTextAndClear(chatID, mid, "Дата первой оплаты: сегодня.")
		b.saveSubscription(ctx, cb.From, chatID, p)

	case rest == "keep":
		b.keepSubValue(ctx, cb)
	}
	_ = b.answerCallback(cb, "", false)
}

// keepSubValue «Оставить как есть» на шагах редактирования.
func (b *Bot) keepSubValue(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, _ := b.states.Get(ctx, chatID)
	if st == nil {
		return
	}
	p := st.Payload.Clone()
	switch st.State {
	case dialog.StateSubName:
		b.askSubAmount(ctx, chatID, &mid, p)
	case dialog.StateSubAmount:
		b.askSubCycle(ctx, chatID, &mid, p)
	case dialog.StateSubDate:
		b.editTextAndClear(chatID, mid, "Дата первой оплаты без изменений.")
		b.saveSubscription(ctx, cb.From, chatID, p)
	}
}

// saveSubscription невалидный черновик не сохраняется.
func (b *Bot) saveSubscription(ctx context.Context, from *tgbotapi.User, chatID int64, p dialog.Payload) {
	_ = b.states.Reset(ctx, chatID)

	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	s, err := subForm(p).Build(u.ID)
	if err != nil {
		b.log.Warn("subscription form rejected", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Подписка не сохранена: нужны название и сумма.")
		return
	}

	if isEdit(p) {
		s.ID, _ = dialog.GetInt64(p, "id")
		err = b.subs.Update(ctx, s)
	} else {
		_, err = b.subs.Add(ctx, s)
	}
	if err != nil {
		b.log.Error("save subscription failed", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Не удалось сохранить подписку.")
		return
	}
	b.sendText(chatID, fmt.Sprintf("Подписка «%s» сохранена.", s.Name))
	b.showSubscriptions(ctx, from, chatID, nil)
}

func (b *Bot) exportSubscriptions(ctx context.Context, from *tgbotapi.User, chatID int64) {
	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	o, err := subscriptions.LoadOverview(ctx, b.subs, u.ID, b.today())
	if err != nil {
		b.log.Error("list subscriptions failed", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Не удалось загрузить подписки.")
		return
	}
	data, err := subscriptions.ExportXLSX(o)
	if err != nil {
		b.log.Error("export subscriptions failed", "err", err)
		b.sendText(chatID, "Не удалось сформировать файл.")
		return
	}
	b.sendXLSX(chatID, "subscriptions", data, "Подписки и итоговые траты")
}
