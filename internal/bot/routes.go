package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/domain/routes"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pointPrompt = "Отправьте геопозицию (📎 → Геопозиция) или координаты в виде «43.2630, -2.9350»:"

func (b *Bot) showRoutes(ctx context.Context, from *tgbotapi.User, chatID int64, editMsgID *int) {
	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.log.Error("load user failed", "tg_id", from.ID, "err", err)
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	list, err := b.routes.ListWithPoints(ctx, u.ID)
	if err != nil {
		b.log.Error("list routes failed", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Не удалось загрузить маршруты.")
		return
	}
	b.step(ctx, chatID, editMsgID, routesText(list), routesKeyboard(list), dialog.StateRouteList, dialog.Payload{})
}

func (b *Bot) showRouteCard(ctx context.Context, from *tgbotapi.User, chatID int64, editMsgID *int, id int64) {
	rw, ok := b.loadRoute(ctx, from, chatID, id)
	if !ok {
		return
	}
	if rw == nil {
		b.showRoutes(ctx, from, chatID, editMsgID)
		return
	}
	b.step(ctx, chatID, editMsgID, routeCard(*rw, b.loc), routeCardKeyboard(id),
		dialog.StateRouteItem, dialog.Payload{"route_id": id})
}

// loadRoute при ok=false ошибка уже показана; rw == nil значит маршрута нет.
func (b *Bot) loadRoute(ctx context.Context, from *tgbotapi.User, chatID, id int64) (*routes.RouteWithPoints, bool) {
	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return nil, false
	}
	rw, err := b.routes.Get(ctx, u.ID, id)
	if err != nil {
		b.log.Error("get route failed", "route_id", id, "err", err)
		b.sendText(chatID, "Не удалось загрузить маршрут.")
		return nil, false
	}
	return rw, true
}

/*** Шаги диалога ***/

func (b *Bot) askRouteName(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	b.step(ctx, chatID, editMsgID, "Введите название маршрута:", navKeyboard(false, true), dialog.StateRouteName, p)
}

func (b *Bot) askRoutePoint(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	b.step(ctx, chatID, editMsgID, pointPrompt, navKeyboard(true, true), dialog.StateRoutePoint, p)
}

func (b *Bot) askRouteEditName(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	name, _ := dialog.GetString(p, "name")
	b.step(ctx, chatID, editMsgID, "Новое название маршрута:",
		withNav(false, true, keepRow("rt:keep", name)), dialog.StateRouteEditName, p)
}

func (b *Bot) askRouteEditPoint(ctx context.Context, chatID int64, editMsgID *int, p dialog.Payload) {
	kb := navKeyboard(true, true)
	if lat, lon, ok := payloadPoint(p); ok {
		kb = withNav(true, true, keepRow("rt:keep", routes.FormatPoint(routes.GpsPoint{Latitude: lat, Longitude: lon})))
	}
	b.step(ctx, chatID, editMsgID, "Последняя точка маршрута будет заменена.\n"+pointPrompt,
		kb, dialog.StateRouteEditPoint, p)
}

func payloadPoint(p dialog.Payload) (lat, lon float64, ok bool) {
	lat, ok1 := p["lat"].(float64)
	lon, ok2 := p["lon"].(float64)
	return lat, lon, ok1 && ok2
}

// messagePoint координаты из геопозиции или текста.
func messagePoint(msg *tgbotapi.Message) (lat, lon float64, err error) {
	if msg.Location != nil {
		lat, lon = msg.Location.Latitude, msg.Location.Longitude
		return lat, lon, routes.ValidateCoordinates(lat, lon)
	}
	return routes.ParseCoordinates(msg.Text)
}

func (b *Bot) handleRouteMessage(ctx context.Context, msg *tgbotapi.Message, st *dialog.Item) {
	chatID := msg.Chat.ID
	p := st.Payload.Clone()

	switch st.State {
	case dialog.StateRouteName, dialog.StateRouteEditName:
		name := strings.TrimSpace(msg.Text)
		if name == "" {
			b.sendText(chatID, "Название не может быть пустым.")
			return
		}
		p["name"] = name
		if st.State == dialog.StateRouteName {
			b.askRoutePoint(ctx, chatID, nil, p)
		} else {
			b.askRouteEditPoint(ctx, chatID, nil, p)
		}

	case dialog.StateRoutePoint, dialog.StateRouteEditPoint:
		lat, lon, err := messagePoint(msg)
		if err != nil {
			b.sendText(chatID, "Не удалось разобрать координаты. Широта от -90 до 90, долгота от -180 до 180.\n"+pointPrompt)
			return
		}
		b.clearPrevStep(ctx, chatID)
		b.applyRoutePoint(ctx, msg.From, chatID, p, lat, lon)
	}
}

// applyRoutePoint завершает диалог: новый маршрут, новая точка или правка.
func (b *Bot) applyRoutePoint(ctx context.Context, from *tgbotapi.User, chatID int64, p dialog.Payload, lat, lon float64) {
	_ = b.states.Reset(ctx, chatID)

	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	mode, _ := dialog.GetString(p, "mode")
	routeID, _ := dialog.GetInt64(p, "route_id")
	name, _ := dialog.GetString(p, "name")

	switch mode {
	case "append", "edit":
		rw, ok := b.loadRoute(ctx, from, chatID, routeID)
		if !ok {
			return
		}
		if rw == nil {
			b.sendText(chatID, "Маршрут не найден.")
			return
		}
		if mode == "append" {
			_, err = b.routes.AddPoint(ctx, rw.ID, lat, lon)
		} else {
			err = b.routes.UpdateDetails(ctx, *rw, name, lat, lon)
		}
	default:
		routeID, err = b.routes.CreateWithPoint(ctx, u.ID, name, lat, lon)
	}
	if err != nil {
		if errors.Is(err, routes.ErrNotFound) {
			b.sendText(chatID, "Маршрут не найден.")
			return
		}
		b.log.Error("save route failed", "user_id", u.ID, "mode", mode, "err", err)
		b.sendText(chatID, "Не удалось сохранить маршрут.")
		return
	}
	b.log.Info("route saved", "user_id", u.ID, "route_id", routeID, "mode", mode)
	b.sendText(chatID, "Сохранено: "+routes.FormatPoint(routes.GpsPoint{Latitude: lat, Longitude: lon}))
	b.showRouteCard(ctx, from, chatID, nil, routeID)
}

func (b *Bot) handleRouteCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, rest string) {
	chatID := cb.Message.Chat.ID
	mid := cb.Message.MessageID

	switch {
	case rest == "list":
		b.showRoutes(ctx, cb.From, chatID, &mid)

	case rest == "add":
		b.askRouteName(ctx, chatID, nil, dialog.Payload{"mode": "add"})

	case rest == "export":
		b.exportRoutes(ctx, cb.From, chatID)

	case strings.HasPrefix(rest, "item:"):
		if id, ok := callbackID(rest, "item:"); ok {
			b.showRouteCard(ctx, cb.From, chatID, &mid, id)
		}

	case strings.HasPrefix(rest, "point:"):
		if id, ok := callbackID(rest, "point:"); ok {
			b.askRoutePoint(ctx, chatID, &mid, dialog.Payload{"mode": "append", "route_id": id})
		}

	case strings.HasPrefix(rest, "edit:"):
		id, ok := callbackID(rest, "edit:")
		if !ok {
			break
		}
		rw, ok := b.loadRoute(ctx, cb.From, chatID, id)
		if !ok || rw == nil {
			_ = b.answerCallback(cb, "Маршрут не найден", false)
			return
		}
		p := dialog.Payload{"mode": "edit", "route_id": id, "name": rw.Name}
		if last, ok := rw.LastPoint(); ok {
			p["lat"], p["lon"] = last.Latitude, last.Longitude
		}
		b.askRouteEditName(ctx, chatID, &mid, p)

	case strings.HasPrefix(rest, "del:"):
		if id, ok := callbackID(rest, "del:"); ok {
			b.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, mid, "Удалить маршрут вместе со всеми точками?",
				confirmDeleteKeyboard(fmt.Sprintf("rt:delok:%d", id), fmt.Sprintf("rt:item:%d", id))))
		}

	case strings.HasPrefix(rest, "delok:"):
		id, ok := callbackID(rest, "delok:")
		if !ok {
			break
		}
		u, err := b.currentUser(ctx, cb.From)
		if err != nil {
			break
		}
		if err := b.routes.Delete(ctx, u.ID, id); err != nil && !errors.Is(err, routes.ErrNotFound) {
			b.log.Error("delete route failed", "route_id", id, "err", err)
			_ = b.answerCallback(cb, "Не удалось удалить", true)
			return
		}
		b.showRoutes(ctx, cb.From, chatID, &mid)
		_ = b.answerCallback(cb, "Удалено", false)
		return

	case rest == "keep":
		st, _ := b.states.Get(ctx, chatID)
		if st == nil {
			break
		}
		p := st.Payload.Clone()
		switch st.State {
		case dialog.StateRouteEditName:
			b.askRouteEditPoint(ctx, chatID, &mid, p)
		case dialog.StateRouteEditPoint:
			if lat, lon, ok := payloadPoint(p); ok {
				b.editTextAndClear(chatID, mid, "Точка без изменений.")
				b.applyRoutePoint(ctx, cb.From, chatID, p, lat, lon)
			}
		}
	}
	_ = b.answerCallback(cb, "", false)
}

func (b *Bot) exportRoutes(ctx context.Context, from *tgbotapi.User, chatID int64) {
	u, err := b.currentUser(ctx, from)
	if err != nil {
		b.sendText(chatID, "Ошибка: не удалось загрузить профиль")
		return
	}
	list, err := b.routes.ListWithPoints(ctx, u.ID)
	if err != nil {
		b.log.Error("list routes failed", "user_id", u.ID, "err", err)
		b.sendText(chatID, "Не удалось загрузить маршруты.")
		return
	}
	data, err := routes.ExportXLSX(list)
	if err != nil {
		b.log.Error("export routes failed", "err", err)
		b.sendText(chatID, "Не удалось сформировать файл.")
		return
	}
	b.sendXLSX(chatID, "routes", data, "Маршруты и GPS-точки")
}
