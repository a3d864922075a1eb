package bot

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Spok95/pocket-bot/internal/dialog"
	"github.com/Spok95/pocket-bot/internal/domain/routes"
	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
	"github.com/Spok95/pocket-bot/internal/quiz"
	"github.com/Spok95/pocket-bot/internal/trivia"
)

func testGame() *quiz.Game {
	qs := []trivia.Question{
		{Text: "Capital of Spain?", CorrectAnswer: "Madrid", IncorrectAnswers: []string{"Bilbao", "Sevilla", "Valencia"}},
		{Text: "2+2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "22"}},
	}
	return quiz.NewGame(qs, 22, "easy", rand.New(rand.NewPCG(7, 7)))
}

func callbacks(g *quiz.Game) []string {
	var out []string
	for _, row := range answerKeyboard(g).InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

func TestQuestionText(t *testing.T) {
	g := testGame()
	text := questionText(g)
	for _, want := range []string{"Question 1/2", "Счёт: 0", "Geography", "Capital of Spain?"} {
		if !strings.Contains(text, want) {
			t.Fatalf("question text %q lacks %q", text, want)
		}
	}
}

func TestAnswerKeyboard(t *testing.T) {
	g := testGame()
	data := callbacks(g)
	// 4 ответа + 50/50 + замена + завершить
	if len(data) != 7 {
		t.Fatalf("callbacks = %v", data)
	}
	if data[0] != "quiz:ans:0:0" || data[3] != "quiz:ans:0:3" {
		t.Fatalf("answer callbacks = %v", data[:4])
	}

	if _, err := g.FiftyFifty(); err != nil {
		t.Fatal(err)
	}
	data = callbacks(g)
	answers := 0
	for _, d := range data {
		if strings.HasPrefix(d, "quiz:ans:") {
			answers++
		}
		if d == "quiz:5050" {
			t.Fatalf("50/50 offered twice")
		}
	}
	if answers != 2 {
		t.Fatalf("after 50/50 answers = %d, want 2", answers)
	}
	if !strings.Contains(questionText(g), "50/50") {
		t.Fatalf("question text does not mention 50/50")
	}
}

func TestAnswerFeedbackAndResult(t *testing.T) {
	ok := answerFeedback("Q", quiz.AnswerResult{Selected: "A", Correct: "A", IsCorrect: true})
	if !strings.Contains(ok, "✅") {
		t.Fatalf("feedback = %q", ok)
	}
	bad := answerFeedback("Q", quiz.AnswerResult{Selected: "B", Correct: "A"})
	if !strings.Contains(bad, "❌") || !strings.Contains(bad, "Правильный ответ: A") {
		t.Fatalf("feedback = %q", bad)
	}

	if r := resultText(9, 10); !strings.Contains(r, "9 / 10") || !strings.Contains(r, "🏆") {
		t.Fatalf("result = %q", r)
	}
	if r := resultText(1, 10); !strings.Contains(r, "😭") {
		t.Fatalf("result = %q", r)
	}
}

func TestLeaderboardText(t *testing.T) {
	if !strings.Contains(leaderboardText(nil), "Рекордов пока нет") {
		t.Fatalf("empty leaderboard text")
	}
	text := leaderboardText([]quiz.ResultEntry{
		{Name: "Ane", Category: 9, Difficulty: "hard", Score: 10, Total: 10},
		{Category: 12, Difficulty: "easy", Score: 4, Total: 10},
	})
	if !strings.Contains(text, "1. Ane — 10/10 (General Knowledge, hard)") || !strings.Contains(text, "2. Без имени") {
		t.Fatalf("leaderboard = %q", text)
	}
}

func TestOverviewText(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	o := subscriptions.BuildOverview([]subscriptions.Subscription{
		{ID: 1, Name: "Music", Amount: 10, Currency: "EUR", Cycle: subscriptions.CycleMonthly, FirstPaymentDate: day},
		{ID: 2, Name: "Gym", Amount: 5, Currency: "EUR", Cycle: subscriptions.CycleWeekly, FirstPaymentDate: day},
	}, day)

	text := overviewText(o)
	for _, want := range []string{"Music — 10.00 EUR", "2025/03/01", "В месяц: 30.00 EUR", "В год: 360.00 EUR", "В день: 1.00 EUR"} {
		if !strings.Contains(text, want) {
			t.Fatalf("overview %q lacks %q", text, want)
		}
	}

	o.Items[1].Currency = "USD"
	if text := overviewText(o); !strings.Contains(text, "В месяц: 30.00\n") {
		t.Fatalf("mixed currencies must drop the code from totals: %q", text)
	}

	kb := overviewKeyboard(subscriptions.Overview{})
	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 1 {
		t.Fatalf("empty overview must offer only «Добавить»: %+v", kb.InlineKeyboard)
	}
}

func TestRoutesText(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	list := []routes.RouteWithPoints{
		{
			Route: routes.Route{ID: 1, Name: "Bilbao"},
			Points: []routes.GpsPoint{
				{ID: 1, Latitude: 43.26301, Longitude: -2.93501, RecordedAt: at},
				{ID: 2, Latitude: 43.3, Longitude: -2.9, RecordedAt: at.Add(time.Hour)},
			},
		},
		{Route: routes.Route{ID: 2, Name: "Empty"}},
	}
	text := routesText(list)
	if !strings.Contains(text, "Bilbao — 43.3000, -2.9000 (точек: 2)") || !strings.Contains(text, "Empty — точек нет") {
		t.Fatalf("routes text = %q", text)
	}

	card := routeCard(list[0], time.UTC)
	first := strings.Index(card, "43.3000")
	second := strings.Index(card, "43.2630")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("card must list newest point first: %q", card)
	}
}

func TestCallbackID(t *testing.T) {
	if id, ok := callbackID("item:42", "item:"); !ok || id != 42 {
		t.Fatalf("got %d %v", id, ok)
	}
	for _, in := range []string{"item:", "item:x", "item:-1", "del:5"} {
		if _, ok := callbackID(in, "item:"); ok {
			t.Fatalf("%q accepted", in)
		}
	}
}

func TestSubFormPayload(t *testing.T) {
	f := subscriptions.Form{
		Name:             "Cloud",
		Amount:           "1.99",
		Currency:         "USD",
		Cycle:            subscriptions.CycleAnnual,
		FirstPaymentDate: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	p := putSubForm(dialog.Payload{"mode": "edit"}, f)
	got := subForm(p)
	if got.Name != f.Name || got.Amount != f.Amount || got.Currency != f.Currency || got.Cycle != f.Cycle {
		t.Fatalf("form = %+v", got)
	}
	if !got.FirstPaymentDate.Equal(f.FirstPaymentDate) {
		t.Fatalf("date = %v", got.FirstPaymentDate)
	}
	if !isEdit(p) || isEdit(dialog.Payload{}) {
		t.Fatalf("isEdit mismatch")
	}
}

func TestPayloadPoint(t *testing.T) {
	if _, _, ok := payloadPoint(dialog.Payload{"lat": 1.5}); ok {
		t.Fatalf("point without longitude accepted")
	}
	lat, lon, ok := payloadPoint(dialog.Payload{"lat": 1.5, "lon": -3.25})
	if !ok || lat != 1.5 || lon != -3.25 {
		t.Fatalf("got %v %v %v", lat, lon, ok)
	}
}
