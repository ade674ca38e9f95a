// Package dates resolves the date expressions users type on the command
// line ("today", "next monday", "in 2 weeks", "2024-05-01") into concrete
// local times. The same resolver backs both `-due` filtering and
// `-reschedule` validation, so the two can never drift apart.
package dates

import (
	"fmt"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"
)

// NoDueDate is the sentinel used when a task has no due date: end of the
// century, local time, so date comparisons and ascending sorts stay simple.
var NoDueDate = time.Date(2099, 12, 31, 23, 59, 59, 0, time.Local)

var explicitLayouts = []struct {
	layout  string
	hasTime bool
}{
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
}

// Resolve parses expr relative to ref, preferring explicit ISO-style layouts
// and falling back to natural language. hasTime reports whether expr carried
// a time-of-day component; callers only snap to start/end of day when it did
// not.
func Resolve(expr string, ref time.Time) (t time.Time, hasTime bool, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, false, fmt.Errorf("empty date expression")
	}
	for _, l := range explicitLayouts {
		if t, err := time.ParseInLocation(l.layout, expr, time.Local); err == nil {
			return t, l.hasTime, nil
		}
	}
	t, err = naturaldate.Parse(expr, ref, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("could not parse date expression %q", expr)
	}
	return t, timeOfDayHint(expr), nil
}

// timeOfDayHint guesses whether a natural-language expression mentioned a
// clock time. Coarse, but it only decides start/end-of-day snapping.
func timeOfDayHint(expr string) bool {
	lower := strings.ToLower(expr)
	if strings.Contains(lower, ":") {
		return true
	}
	for _, marker := range []string{"am", "pm", "noon", "midnight", "hour", "minute", "o'clock"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// StartOfDay returns t snapped to 00:00:00.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t snapped to 23:59:59, the time all-day tasks carry.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// DayString renders t as its calendar day, used for "due on <day>" matching.
func DayString(t time.Time) string {
	return t.Format("2006-01-02")
}
