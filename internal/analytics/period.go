// Package analytics derives the display aggregates shown on the dashboards
// from raw entity collections. Every function is pure and leaves its
// inputs untouched.
package analytics

import (
	"fmt"
	"strings"
	"time"
)

// Period anchors calendar bucketing at a reference instant. Record times
// are compared in Now's location.
type Period struct {
	Now       time.Time
	WeekStart time.Weekday
}

// NewPeriod returns a Period with weeks starting on Sunday.
func NewPeriod(now time.Time) Period {
	return Period{Now: now, WeekStart: time.Sunday}
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekBounds returns the half-open interval [start, end) of the week containing Now.
func (p Period) WeekBounds() (time.Time, time.Time) {
	today := dayStart(p.Now)
	offset := (int(today.Weekday()) - int(p.WeekStart) + 7) % 7
	start := today.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

func (p Period) InDay(t time.Time) bool {
	t = t.In(p.Now.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := p.Now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (p Period) InWeek(t time.Time) bool {
	start, end := p.WeekBounds()
	t = t.In(p.Now.Location())
	return !t.Before(start) && t.Before(end)
}

func (p Period) InMonth(t time.Time) bool {
	t = t.In(p.Now.Location())
	return t.Year() == p.Now.Year() && t.Month() == p.Now.Month()
}

func (p Period) InYear(t time.Time) bool {
	return t.In(p.Now.Location()).Year() == p.Now.Year()
}

// Buckets partitions records by period. The buckets are independent: a
// record from today lands in all four.
type Buckets[T any] struct {
	Day   []T
	Week  []T
	Month []T
	Year  []T
}

// Bucket sorts records into the day/week/month/year buckets of p using dateOf.
func Bucket[T any](records []T, dateOf func(T) time.Time, p Period) Buckets[T] {
	b := Buckets[T]{Day: []T{}, Week: []T{}, Month: []T{}, Year: []T{}}
	for _, r := range records {
		t := dateOf(r)
		if p.InDay(t) {
			b.Day = append(b.Day, r)
		}
		if p.InWeek(t) {
			b.Week = append(b.Week, r)
		}
		if p.InMonth(t) {
			b.Month = append(b.Month, r)
		}
		if p.InYear(t) {
			b.Year = append(b.Year, r)
		}
	}
	return b
}

// ParseWeekday accepts an English weekday name ("sunday", "Mon", ...).
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
