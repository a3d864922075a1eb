package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/pocket-bot/internal/domain/routes"
	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	"github.com/Spok95/pocket-bot/internal/domain/users"
	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
	"github.com/gorilla/mux"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type UserFinder interface {
	GetByTelegramID(ctx context.Context, tgID int64) (*users.User, error)
}

type RouteLister interface {
	ListWithPoints(ctx context.Context, userID int64) ([]routes.RouteWithPoints, error)
}

type TopLister interface {
	Top(ctx context.Context, limit int) ([]quiz.ResultEntry, error)
}

// API read-only выдача данных пользователя по telegram id.
type API struct {
	log     *slog.Logger
	users   UserFinder
	subs    subscriptions.Lister
	routes  RouteLister
	results TopLister
	loc     *time.Location
	now     func() time.Time
}

func NewAPI(log *slog.Logger, u UserFinder, s subscriptions.Lister, r RouteLister, res TopLister, loc *time.Location) *API {
	if loc == nil {
		loc = time.UTC
	}
	return &API{log: log, users: u, subs: s, routes: r, results: res, loc: loc, now: time.Now}
}

func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/users/{tg:[0-9]+}/subscriptions", a.subscriptions).Methods(http.MethodGet)
	r.HandleFunc("/users/{tg:[0-9]+}/subscriptions.xlsx", a.subscriptionsXLSX).Methods(http.MethodGet)
	r.HandleFunc("/users/{tg:[0-9]+}/routes", a.routesJSON).Methods(http.MethodGet)
	r.HandleFunc("/users/{tg:[0-9]+}/routes.xlsx", a.routesXLSX).Methods(http.MethodGet)
	r.HandleFunc("/quiz/top", a.top).Methods(http.MethodGet)
}

type subscriptionDTO struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	BillingCycle     string  `json:"billing_cycle"`
	FirstPaymentDate string  `json:"first_payment_date"`
	NextPaymentDate  string  `json:"next_payment_date"`
	MonthlyAmount    float64 `json:"monthly_amount"`
}

type costsDTO struct {
	Monthly float64 `json:"monthly"`
	Annual  float64 `json:"annual"`
	Daily   float64 `json:"daily"`
}

type overviewDTO struct {
	Subscriptions []subscriptionDTO `json:"subscriptions"`
	Totals        costsDTO          `json:"totals"`
}

type pointDTO struct {
	ID         int64     `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at"`
}

type routeDTO struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	LastPoint *pointDTO  `json:"last_point,omitempty"`
	Points    []pointDTO `json:"points"`
}

type topDTO struct {
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	PlayedAt   time.Time `json:"played_at"`
}

// userID telegram id из пути -> внутренний id. При false ответ уже записан.
func (a *API) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	tg, err := strconv.ParseInt(mux.Vars(r)["tg"], 10, 64)
	if err != nil || tg <= 0 {
		writeError(w, http.StatusBadRequest, "invalid telegram id")
		return 0, false
	}
	u, err := a.users.GetByTelegramID(r.Context(), tg)
	if err != nil {
		a.log.Error("api: user lookup failed", "tg_id", tg, "err", err)
		writeError(w, http.StatusInternalServerError, "user lookup failed")
		return 0, false
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return 0, false
	}
	return u.ID, true
}

func (a *API) overview(w http.ResponseWriter, r *http.Request) (subscriptions.Overview, bool) {
	uid, ok := a.userID(w, r)
	if !ok {
		return subscriptions.Overview{}, false
	}
	o, err := subscriptions.LoadOverview(r.Context(), a.subs, uid, a.now().In(a.loc))
	if err != nil {
		a.log.Error("api: list subscriptions failed", "user_id", uid, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load subscriptions")
		return subscriptions.Overview{}, false
	}
	return o, true
}

func (a *API) subscriptions(w http.ResponseWriter, r *http.Request) {
	o, ok := a.overview(w, r)
	if !ok {
		return
	}
	out := overviewDTO{
		Subscriptions: make([]subscriptionDTO, 0, len(o.Items)),
		Totals:        costsDTO{Monthly: o.Costs.Monthly, Annual: o.Costs.Annual, Daily: o.Costs.Daily},
	}
	for _, it := range o.Items {
		out.Subscriptions = append(out.Subscriptions, subscriptionDTO{
			ID:               it.ID,
			Name:             it.Name,
			Amount:           it.Amount,
			Currency:         it.Currency,
			BillingCycle:     string(it.Cycle),
			FirstPaymentDate: it.FirstPaymentDate.Format(time.DateOnly),
			NextPaymentDate:  it.NextPayment.Format(time.DateOnly),
			MonthlyAmount:    subscriptions.MonthlyAmount(it.Subscription),
		})
	}
	writeJSON(w, out)
}

func (a *API) subscriptionsXLSX(w http.ResponseWriter, r *http.Request) {
	o, ok := a.overview(w, r)
	if !ok {
		return
	}
	data, err := subscriptions.ExportXLSX(o)
	if err != nil {
		a.log.Error("api: subscriptions export failed", "err", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeFile(w, "subscriptions.xlsx", data)
}

func (a *API) listRoutes(w http.ResponseWriter, r *http.Request) ([]routes.RouteWithPoints, bool) {
	uid, ok := a.userID(w, r)
	if !ok {
		return nil, false
	}
	list, err := a.routes.ListWithPoints(r.Context(), uid)
	if err != nil {
		a.log.Error("api: list routes failed", "user_id", uid, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load routes")
		return nil, false
	}
	return list, true
}

func (a *API) routesJSON(w http.ResponseWriter, r *http.Request) {
	list, ok := a.listRoutes(w, r)
	if !ok {
		return
	}
	out := make([]routeDTO, 0, len(list))
	for _, rw := range list {
		d := routeDTO{ID: rw.ID, Name: rw.Name, CreatedAt: rw.CreatedAt, Points: make([]pointDTO, 0, len(rw.Points))}
		for _, p := range rw.Points {
			d.Points = append(d.Points, toPointDTO(p))
		}
		if lp, ok := rw.LastPoint(); ok {
			p := toPointDTO(lp)
			d.LastPoint = &p
		}
		out = append(out, d)
	}
	writeJSON(w, out)
}

func (a *API) routesXLSX(w http.ResponseWriter, r *http.Request) {
	list, ok := a.listRoutes(w, r)
	if !ok {
		return
	}
	data, err := routes.ExportXLSX(list)
	if err != nil {
		a.log.Error("api: routes export failed", "err", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeFile(w, "routes.xlsx", data)
}

func (a *API) top(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	list, err := a.results.Top(r.Context(), limit)
	if err != nil {
		a.log.Error("api: leaderboard failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
		return
	}
	out := make([]topDTO, 0, len(list))
	for _, e := range list {
		out = append(out, topDTO{
			Name:       e.Name,
			Category:   trivia.CategoryName(e.Category),
			Difficulty: e.Difficulty,
			Score:      e.Score,
			Total:      e.Total,
			PlayedAt:   e.CreatedAt,
		})
	}
	writeJSON(w, out)
}

func toPointDTO(p routes.GpsPoint) pointDTO {
	return pointDTO{ID: p.ID, Latitude: p.Latitude, Longitude: p.Longitude, RecordedAt: p.RecordedAt}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeFile(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}
