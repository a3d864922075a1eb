package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/Spok95/pocket-bot/internal/dialog"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
		return

	case "name":
		b.clearPrevStep(ctx, chatID)
		_ = b.states.Set(ctx, chatID, dialog.StateAwaitUsername, dialog.Payload{})
		b.askUsername(chatID, "Как к вам обращаться? Отправьте новое имя сообщением.")
		return

	case "quiz":
		b.showQuizCategories(ctx, chatID, nil)
		return

	case "subs":
		b.showSubscriptions(ctx, msg.From, chatID, nil)
		return

	case "routes":
		b.showRoutes(ctx, msg.From, chatID, nil)
		return

	case "cancel":
		b.clearPrevStep(ctx, chatID)
		b.sessions.Delete(chatID)
		_ = b.states.Reset(ctx, chatID)
		m := tgbotapi.NewMessage(chatID, "Операция отменена.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
		return

	case "help":
		b.sendText(chatID,
			"Команды:\n/start — начать работу\n/quiz — викторина\n/subs — подписки\n/routes — маршруты\n"+
				"/name — сменить имя\n/cancel — отменить текущее действие\n/help — помощь")
		return

	default:
		b.sendText(chatID, "Не знаю такую команду. Наберите /help")
		return
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Нижняя панель
	switch msg.Text {
	case menuQuiz:
		b.clearPrevStep(ctx, chatID)
		b.showQuizCategories(ctx, chatID, nil)
		return
	case menuSubs:
		b.clearPrevStep(ctx, chatID)
		b.showSubscriptions(ctx, msg.From, chatID, nil)
		return
	case menuRoutes:
		b.clearPrevStep(ctx, chatID)
		b.showRoutes(ctx, msg.From, chatID, nil)
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog state failed", "chat_id", chatID, "err", err)
		b.sendText(chatID, "Ошибка, попробуйте ещё раз.")
		return
	}

	switch st.State {
	case dialog.StateAwaitUsername:
		b.handleUsername(ctx, msg)

	case dialog.StateSubName, dialog.StateSubAmount, dialog.StateSubDate:
		b.handleSubText(ctx, msg, st)

	case dialog.StateRouteName, dialog.StateRouteEditName,
		dialog.StateRoutePoint, dialog.StateRouteEditPoint:
		b.handleRouteMessage(ctx, msg, st)

	default:
		if msg.Location != nil {
			b.sendText(chatID, "Чтобы сохранить геопозицию, откройте «Маршруты» и создайте маршрут или добавьте точку.")
			return
		}
		m := tgbotapi.NewMessage(chatID, "Выберите раздел на панели снизу.")
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	fromChat := cb.Message.Chat.ID

	if data == "nav:cancel" {
		b.sessions.Delete(fromChat)
		_ = b.states.Reset(ctx, fromChat)
		b.editTextAndClear(fromChat, cb.Message.MessageID, "Операция отменена.")
		_ = b.answerCallback(cb, "Отменено", false)
		return
	}
	if data == "nav:back" {
		b.handleBack(ctx, cb)
		return
	}

	switch {
	case strings.HasPrefix(data, "quiz:"):
		b.handleQuizCallback(ctx, cb, strings.TrimPrefix(data, "quiz:"))
	case strings.HasPrefix(data, "sub:"):
		b.handleSubCallback(ctx, cb, strings.TrimPrefix(data, "sub:"))
	case strings.HasPrefix(data, "rt:"):
		b.handleRouteCallback(ctx, cb, strings.TrimPrefix(data, "rt:"))
	default:
		_ = b.answerCallback(cb, "Неизвестная команда", false)
	}
}

// handleBack шаг назад внутри многошаговых диалогов.
func (b *Bot) handleBack(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		_ = b.answerCallback(cb, "Ошибка", false)
		return
	}

	switch st.State {
	case dialog.StateQuizPickDifficulty:
		b.showQuizCategories(ctx, chatID, &mid)
	case dialog.StateSubAmount:
		b.askSubName(ctx, chatID, &mid, st.Payload)
	case dialog.StateSubCycle:
		b.askSubAmount(ctx, chatID, &mid, st.Payload)
	case dialog.StateSubDate:
		b.askSubCycle(ctx, chatID, &mid, st.Payload)
	case dialog.StateRoutePoint:
		if mode, _ := dialog.GetString(st.Payload, "mode"); mode == "append" {
			id, _ := dialog.GetInt64(st.Payload, "route_id")
			b.showRouteCard(ctx, cb.From, chatID, &mid, id)
		} else {
			b.askRouteName(ctx, chatID, &mid, st.Payload)
		}
	case dialog.StateRouteEditPoint:
		b.askRouteEditName(ctx, chatID, &mid, st.Payload)
	default:
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, mid, "Операция отменена.")
	}
	_ = b.answerCallback(cb, "", false)
}

// callbackID число после префикса: "item:42" -> 42.
func callbackID(rest, prefix string) (int64, bool) {
	if !strings.HasPrefix(rest, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(rest, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
