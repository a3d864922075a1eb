package subscriptions_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Spok95/pocket-bot/internal/domain/subscriptions"
)

func TestParseAmount(t *testing.T) {
	good := map[string]float64{
		"9.99":  9.99,
		"9,99":  9.99,
		" 12 ":  12,
		".5":    0.5,
		"10.":   10,
		"0":     0,
		"100.0": 100,
	}
	for in, want := range good {
		got, err := subscriptions.ParseAmount(in)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", in, err)
		}
		if !approx(got, want) {
			t.Fatalf("%q: got %v, want %v", in, got, want)
		}
	}

	bad := map[string]error{
		"":      subscriptions.ErrAmountRequired,
		"   ":   subscriptions.ErrAmountRequired,
		".":     subscriptions.ErrBadAmount,
		"-3":    subscriptions.ErrBadAmount,
		"1.2.3": subscriptions.ErrBadAmount,
		"abc":   subscriptions.ErrBadAmount,
		"1e5":   subscriptions.ErrBadAmount,
	}
	for in, want := range bad {
		if _, err := subscriptions.ParseAmount(in); !errors.Is(err, want) {
			t.Fatalf("%q: err = %v, want %v", in, err, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025/03/01", "2025-03-01"} {
		got, err := subscriptions.ParseDate(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !got.Equal(date(2025, time.March, 1)) {
			t.Fatalf("%q: got %v", in, got)
		}
	}
	if _, err := subscriptions.ParseDate("01.03.2025"); !errors.Is(err, subscriptions.ErrBadDate) {
		t.Fatalf("err = %v, want ErrBadDate", err)
	}
}

func TestFormBuild(t *testing.T) {
	f := subscriptions.Form{
		Name:             " Spotify ",
		Amount:           "10,99",
		Cycle:            subscriptions.CycleMonthly,
		FirstPaymentDate: time.Date(2025, time.May, 3, 18, 0, 0, 0, time.UTC),
	}
	s, err := f.Build(42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Name != "Spotify" || s.UserID != 42 || s.Currency != subscriptions.DefaultCurrency {
		t.Fatalf("unexpected subscription %+v", s)
	}
	if !approx(s.Amount, 10.99) {
		t.Fatalf("amount = %v", s.Amount)
	}
	if !s.FirstPaymentDate.Equal(date(2025, time.May, 3)) {
		t.Fatalf("date = %v, want truncated to day", s.FirstPaymentDate)
	}
}

func TestFormBuild_RequiredFields(t *testing.T) {
	if _, err := (subscriptions.Form{Amount: "1"}).Build(1); !errors.Is(err, subscriptions.ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
	if _, err := (subscriptions.Form{Name: "x"}).Build(1); !errors.Is(err, subscriptions.ErrAmountRequired) {
		t.Fatalf("err = %v, want ErrAmountRequired", err)
	}
	if _, err := (subscriptions.Form{Name: "x", Amount: "1", Cycle: "daily"}).Build(1); err == nil {
		t.Fatal("expected error for unknown cycle")
	}
}

func TestFormFrom(t *testing.T) {
	s := subscriptions.Subscription{Name: "Scribd", Amount: 11.99, Currency: "EUR", Cycle: subscriptions.CycleAnnual}
	f := subscriptions.FormFrom(s)
	if f.Amount != "11.99" || f.Cycle != subscriptions.CycleAnnual {
		t.Fatalf("form = %+v", f)
	}
}

func TestParseCycle(t *testing.T) {
	c, err := subscriptions.ParseCycle(" Weekly ")
	if err != nil || c != subscriptions.CycleWeekly {
		t.Fatalf("got %q, %v", c, err)
	}
	if _, err := subscriptions.ParseCycle("daily"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSplitAmountCurrency(t *testing.T) {
	cases := []struct{ in, amount, currency string }{
		{"9.99", "9.99", ""},
		{" 9.99 usd ", "9.99", "USD"},
		{"12,5 GBP", "12,5", "GBP"},
		{"9.99 dollars", "9.99 dollars", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		a, cur := subscriptions.SplitAmountCurrency(c.in)
		if a != c.amount || cur != c.currency {
			t.Fatalf("%q: got (%q, %q), want (%q, %q)", c.in, a, cur, c.amount, c.currency)
		}
	}
}
