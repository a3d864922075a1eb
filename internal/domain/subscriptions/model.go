package subscriptions

import (
	"fmt"
	"strings"
	"time"
)

type BillingCycle string

const (
	CycleWeekly  BillingCycle = "weekly"
	CycleMonthly BillingCycle = "monthly"
	CycleAnnual  BillingCycle = "annual"
)

// Cycles в порядке показа на клавиатуре.
var Cycles = []BillingCycle{CycleWeekly, CycleMonthly, CycleAnnual}

func ParseCycle(s string) (BillingCycle, error) {
	switch c := BillingCycle(strings.ToLower(strings.TrimSpace(s))); c {
	case CycleWeekly, CycleMonthly, CycleAnnual:
		return c, nil
	}
	return "", fmt.Errorf("subscriptions: unknown billing cycle %q", s)
}

func (c BillingCycle) Label() string {
	switch c {
	case CycleWeekly:
		return "Еженедельно"
	case CycleMonthly:
		return "Ежемесячно"
	case CycleAnnual:
		return "Ежегодно"
	}
	return string(c)
}

const DefaultCurrency = "EUR"

type Subscription struct {
	ID               int64
	UserID           int64
	Name             string
	Amount           float64
	Currency         string
	Cycle            BillingCycle
	FirstPaymentDate time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
