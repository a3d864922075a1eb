package subscriptions

import "time"

// NextPaymentDate первая дата списания не раньше today.
// Сравнение идёт по календарным датам, время суток отбрасывается.
// Если первая оплата ещё впереди (или сегодня), она и возвращается.
// Иначе к текущей дате по одному прибавляется период. Месяц и год прижимаются
// к концу месяца на каждом шаге, поэтому день «сползает»: 31.01 -> 28.02 -> 28.03.
func NextPaymentDate(first time.Time, cycle BillingCycle, today time.Time) time.Time {
	first = civil(first)
	today = civil(today)
	if !first.Before(today) {
		return first
	}

	switch cycle {
	case CycleWeekly:
		// неделя не зависит от длины месяца, можно сразу перескочить
		weeks := int(today.Sub(first).Hours()/24) / 7
		d := first.AddDate(0, 0, 7*weeks)
		for d.Before(today) {
			d = d.AddDate(0, 0, 7)
		}
		return d
	case CycleMonthly, CycleAnnual:
		months := 1
		if cycle == CycleAnnual {
			months = 12
		}
		d := first
		for d.Before(today) {
			d = addMonthsClamped(d, months)
		}
		return d
	}
	return first
}

func addMonthsClamped(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
