package scheduler

import (
	"time"

	"CrossSentinel/internal/model"
)

// ShouldRunNow reports whether now falls inside the scan window. The window
// is evaluated in w.Location; hours are [StartHour, EndHour) and a window with
// StartHour > EndHour runs overnight, keyed on the weekday of now.
func ShouldRunNow(now time.Time, w model.ScheduleWindow) bool {
	if w.Location != nil {
		now = now.In(w.Location)
	}
	if !w.HasWeekday(now.Weekday()) {
		return false
	}
	h := now.Hour()
	switch {
	case w.StartHour < w.EndHour:
		return h >= w.StartHour && h < w.EndHour
	case w.StartHour > w.EndHour:
		return h >= w.StartHour || h < w.EndHour
	default:
		return false
	}
}
