package view

import (
	"time"
)

// CloseWindow narrows the board to deals expected to close in a period.
type CloseWindow int

const (
	WindowAll CloseWindow = iota
	WindowThisMonth
	WindowNextMonth
	WindowThisQuarter
	WindowOverdue

	windowCount
)

func (w CloseWindow) String() string {
	switch w {
	case WindowAll:
		return "Any Time"
	case WindowThisMonth:
		return "This Month"
	case WindowNextMonth:
		return "Next Month"
	case WindowThisQuarter:
		return "This Quarter"
	case WindowOverdue:
		return "Overdue"
	}

	return "Unknown"
}

func (w CloseWindow) Next() CloseWindow {
	return (w + 1) % windowCount
}

// Range returns the inclusive close date bounds for w relative to now. A nil
// bound is open.
func (w CloseWindow) Range(now time.Time) (from, to *time.Time) {
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch w {
	case WindowThisMonth:
		return bounds(month, month.AddDate(0, 1, -1))
	case WindowNextMonth:
		next := month.AddDate(0, 1, 0)
		return bounds(next, next.AddDate(0, 1, -1))
	case WindowThisQuarter:
		q := time.Date(now.Year(), ((now.Month()-1)/3)*3+1, 1, 0, 0, 0, 0, time.UTC)
		return bounds(q, q.AddDate(0, 3, -1))
	case WindowOverdue:
		yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return nil, &yesterday
	}

	return nil, nil
}

func bounds(from, to time.Time) (*time.Time, *time.Time) {
	return &from, &to
}
