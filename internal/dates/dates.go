// Package dates samples timestamps for generated entities. Every
// generator draws its times through a Sampler so that weekend skew and
// bound handling are uniform across the dataset.
package dates

import (
	"math/rand/v2"
	"time"
)

const day = 24 * time.Hour

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// BusinessDayOffset moves start by n business days, skipping weekends.
// Negative n moves backwards. The time of day is preserved.
func BusinessDayOffset(start time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}

	current := start
	for moved := 0; moved < n; {
		current = current.AddDate(0, 0, step)
		if !IsWeekend(current) {
			moved++
		}
	}
	return current
}

// SprintEnd returns the next Friday after t. A Friday maps to the
// following Friday.
func SprintEnd(t time.Time) time.Time {
	ahead := int(time.Friday - t.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return t.AddDate(0, 0, ahead)
}

// DateOf truncates t to midnight of the same calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Sampler draws random instants from a caller-seeded source.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler wraps rng. Runs are reproducible only if rng is seeded
// deterministically.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// RandomInRange returns a uniformly random instant in [start, end).
// When start >= end it returns start. With respectBusinessDays, a
// weekend result moves to the following Monday, or to the preceding
// Friday if Monday is past end. The result never precedes start.
func (s *Sampler) RandomInRange(start, end time.Time, respectBusinessDays bool) time.Time {
	if !start.Before(end) {
		return start
	}

	span := int64(end.Sub(start) / time.Second)
	if span <= 0 {
		return start
	}
	res := start.Add(time.Duration(s.rng.Int64N(span)) * time.Second)

	if respectBusinessDays && IsWeekend(res) {
		res = res.Add(time.Duration(8-int(res.Weekday())) % 7 * day)
		if res.After(end) {
			res = res.Add(-3 * day)
		}
		if res.Before(start) {
			res = start
		}
	}

	return res
}

// Within is RandomInRange with business-day adjustment enabled.
func (s *Sampler) Within(start, end time.Time) time.Time {
	return s.RandomInRange(start, end, true)
}

// Jitter returns start plus a random whole number of hours in [minH, maxH].
func (s *Sampler) Jitter(start time.Time, minH, maxH int) time.Time {
	if maxH < minH {
		maxH = minH
	}
	h := minH + s.rng.IntN(maxH-minH+1)
	return start.Add(time.Duration(h) * time.Hour)
}
