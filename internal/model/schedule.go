package model

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleWindow describes when scanning is active. Hours are [StartHour, EndHour);
// a window with StartHour > EndHour wraps past midnight.
type ScheduleWindow struct {
	Weekdays  []time.Weekday
	StartHour int
	EndHour   int
	Location  *time.Location // nil evaluates in the caller's time zone
}

// HasWeekday reports whether d is an active weekday.
func (w ScheduleWindow) HasWeekday(d time.Weekday) bool {
	for _, wd := range w.Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 3 {
		s = s[:3]
	}
	d, ok := weekdayNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	return d, nil
}

// ParseWeekdays parses a weekday list such as "mon-fri" or "mon,wed,fri".
// Ranges may wrap the week ("fri-mon").
func ParseWeekdays(list string) ([]time.Weekday, error) {
	var out []time.Weekday
	seen := make(map[time.Weekday]bool)
	add := func(d time.Weekday) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}

	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		start, err := parseWeekday(from)
		if err != nil {
			return nil, err
		}
		if !isRange {
			add(start)
			continue
		}
		end, err := parseWeekday(to)
		if err != nil {
			return nil, err
		}
		for d := start; ; d = (d + 1) % 7 {
			add(d)
			if d == end {
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no weekdays in %q", list)
	}
	return out, nil
}
