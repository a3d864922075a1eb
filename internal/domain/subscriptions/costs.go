package subscriptions

// Costs суммарные траты в пересчёте на месяц, год и день.
type Costs struct {
	Monthly float64
	Annual  float64
	Daily   float64
}

// MonthlyAmount приближение: неделя = 1/4 месяца, месяц = 30 дней.
func MonthlyAmount(s Subscription) float64 {
	switch s.Cycle {
	case CycleWeekly:
		return s.Amount * 4
	case CycleAnnual:
		return s.Amount / 12
	default:
		return s.Amount
	}
}

func Totals(subs []Subscription) Costs {
	var monthly float64
	for _, s := range subs {
		monthly += MonthlyAmount(s)
	}
	return Costs{
		Monthly: monthly,
		Annual:  monthly * 12,
		Daily:   monthly / 30,
	}
}
