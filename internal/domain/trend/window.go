package trend

import (
	"fmt"
	"time"
)

// Window selects how far back a longitudinal series reaches.
type Window string

const (
	WindowAll        Window = "all"
	WindowSixMonths  Window = "6m"
	WindowOneYear    Window = "1y"
	WindowThreeYears Window = "3y"
	WindowFiveYears  Window = "5y"
)

// ParseWindow resolves a query value; empty means the full history.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "", WindowAll:
		return WindowAll, nil
	case WindowSixMonths, WindowOneYear, WindowThreeYears, WindowFiveYears:
		return Window(s), nil
	}
	return "", fmt.Errorf("unknown window %q", s)
}

// Cutoff returns the earliest observation instant the window admits, or the
// zero time for the unbounded window. Calendar arithmetic, not fixed-length
// durations, so "6m" means six calendar months.
func (w Window) Cutoff(now time.Time) time.Time {
	switch w {
	case WindowSixMonths:
		return now.AddDate(0, -6, 0)
	case WindowOneYear:
		return now.AddDate(-1, 0, 0)
	case WindowThreeYears:
		return now.AddDate(-3, 0, 0)
	case WindowFiveYears:
		return now.AddDate(-5, 0, 0)
	}
	return time.Time{}
}
