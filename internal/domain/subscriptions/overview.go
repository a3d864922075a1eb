package subscriptions

import (
	"context"
	"time"
)

type Lister interface {
	List(ctx context.Context, userID int64) ([]Subscription, error)
}

type Item struct {
	Subscription
	NextPayment time.Time
}

// Overview состояние главного экрана подписок.
type Overview struct {
	Items []Item
	Costs Costs
}

func BuildOverview(subs []Subscription, today time.Time) Overview {
	items := make([]Item, 0, len(subs))
	for _, s := range subs {
		items = append(items, Item{
			Subscription: s,
			NextPayment:  NextPaymentDate(s.FirstPaymentDate, s.Cycle, today),
		})
	}
	return Overview{Items: items, Costs: Totals(subs)}
}

func LoadOverview(ctx context.Context, l Lister, userID int64, today time.Time) (Overview, error) {
	subs, err := l.List(ctx, userID)
	if err != nil {
		return Overview{}, err
	}
	return BuildOverview(subs, today), nil
}
