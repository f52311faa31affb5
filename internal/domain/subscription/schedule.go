package subscription

import (
	"time"

	"github.com/shopbridge/mollie-gateway/internal/types"
	"github.com/teambition/rrule-go"
)

// NextPayment returns the date of the payment that follows from after cycle units of frequency.
//
// Semi-monthly payments fall on the 1st and the 15th of a month. The first step moves to
// the next slot strictly after from, every further step moves one slot ahead.
func NextPayment(frequency types.SubscriptionFrequency, from time.Time, cycle int) time.Time {
	if cycle < 1 {
		cycle = 1
	}

	switch frequency {
	case types.SubscriptionFrequencyDay:
		return nextOccurrence(rrule.DAILY, from, cycle)
	case types.SubscriptionFrequencyWeek:
		return nextOccurrence(rrule.WEEKLY, from, cycle)
	case types.SubscriptionFrequencySemiMonth:
		return nextSemiMonthSlot(from, cycle)
	case types.SubscriptionFrequencyYear:
		return from.AddDate(cycle, 0, 0)
	default:
		return from.AddDate(0, cycle, 0)
	}
}

// EndDate returns the date after which no payments are due, nil when duration is open ended
func EndDate(frequency types.SubscriptionFrequency, from time.Time, cycle, duration int) *time.Time {
	if duration <= 0 {
		return nil
	}
	if cycle < 1 {
		cycle = 1
	}
	end := NextPayment(frequency, from, cycle*duration)
	return &end
}

func nextOccurrence(freq rrule.Frequency, from time.Time, interval int) time.Time {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  from,
		Count:    2,
	})
	if err != nil {
		if freq == rrule.WEEKLY {
			return from.AddDate(0, 0, 7*interval)
		}
		return from.AddDate(0, 0, interval)
	}
	return r.After(from, false)
}

func nextSemiMonthSlot(from time.Time, cycle int) time.Time {
	year, month, day := from.Date()
	hour, min, sec := from.Clock()
	at := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, hour, min, sec, from.Nanosecond(), from.Location())
	}

	var next time.Time
	if day < 15 {
		next = at(year, month, 15)
	} else {
		next = at(year, month+1, 1)
	}

	remaining := cycle - 1
	next = next.AddDate(0, remaining/2, 0)
	if remaining%2 == 1 {
		y, m, d := next.Date()
		if d == 15 {
			next = at(y, m+1, 1)
		} else {
			next = at(y, m, 15)
		}
	}
	return next
}
