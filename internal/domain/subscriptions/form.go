package subscriptions

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNameRequired   = errors.New("subscriptions: name is required")
	ErrAmountRequired = errors.New("subscriptions: amount is required")
	ErrBadAmount      = errors.New("subscriptions: amount is not a number")
	ErrBadDate        = errors.New("subscriptions: bad date")
)

var amountRe = regexp.MustCompile(`^\d*\.?\d*$`)

// DateLayout формат даты в диалогах и выгрузках.
const DateLayout = "2006/01/02"

// ParseAmount принимает "9.99", "9,99", ".5"; пустое и "." дают ошибку.
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, ErrAmountRequired
	}
	if s == "." || !amountRe.MatchString(s) {
		return 0, ErrBadAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadAmount, err)
	}
	return v, nil
}

var currencyRe = regexp.MustCompile(`^[A-Za-z]{3}$`)

// SplitAmountCurrency "9.99 usd" -> ("9.99", "USD"); без кода валюты currency пустая.
func SplitAmountCurrency(s string) (amount, currency string) {
	fields := strings.Fields(s)
	if len(fields) == 2 && currencyRe.MatchString(fields[1]) {
		return fields[0], strings.ToUpper(fields[1])
	}
	return strings.TrimSpace(s), ""
}

// ParseDate понимает "2006/01/02" и "2006-01-02".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// Form черновик подписки, собираемый по шагам диалога.
type Form struct {
	Name             string
	Amount           string
	Currency         string
	Cycle            BillingCycle
	FirstPaymentDate time.Time
}

// Build проверяет черновик; при ошибке сохранять нечего.
func (f Form) Build(userID int64) (Subscription, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return Subscription{}, ErrNameRequired
	}
	amount, err := ParseAmount(f.Amount)
	if err != nil {
		return Subscription{}, err
	}
	cycle := f.Cycle
	if cycle == "" {
		cycle = CycleMonthly
	}
	if _, err := ParseCycle(string(cycle)); err != nil {
		return Subscription{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(f.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	date := f.FirstPaymentDate
	if date.IsZero() {
		date = time.Now()
	}
	return Subscription{
		UserID:           userID,
		Name:             name,
		Amount:           amount,
		Currency:         currency,
		Cycle:            cycle,
		FirstPaymentDate: civil(date),
	}, nil
}

// FormFrom заполняет черновик из существующей подписки (экран редактирования).
func FormFrom(s Subscription) Form {
	return Form{
		Name:             s.Name,
		Amount:           strconv.FormatFloat(s.Amount, 'f', -1, 64),
		Currency:         s.Currency,
		Cycle:            s.Cycle,
		FirstPaymentDate: s.FirstPaymentDate,
	}
}
