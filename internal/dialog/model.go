package dialog

type State string

const (
	StateIdle State = "idle"

	// Первый запуск: спрашиваем имя
	StateAwaitUsername State = "await_username"

	// Викторина
	StateQuizPickCategory   State = "quiz_pick_category"
	StateQuizPickDifficulty State = "quiz_pick_difficulty"
	StateQuizPlaying        State = "quiz_playing"

	// Подписки
	StateSubList   State = "sub_list"
	StateSubItem   State = "sub_item"   // карточка подписки
	StateSubName   State = "sub_name"   // ввод названия
	StateSubAmount State = "sub_amount" // ввод суммы
	StateSubCycle  State = "sub_cycle"  // выбор периода
	StateSubDate   State = "sub_date"   // дата первой оплаты

	// Маршруты
	StateRouteList      State = "route_list"
	StateRouteItem      State = "route_item"
	StateRouteName      State = "route_name"       // имя нового маршрута
	StateRoutePoint     State = "route_point"      // первая точка: геопозиция или "lat, lon"
	StateRouteEditName  State = "route_edit_name"  // новое имя
	StateRouteEditPoint State = "route_edit_point" // новая последняя точка
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}
