package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeWindow is an instant range with Start strictly before End.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return NewError(KindInvalidInput, "event window start and end are required")
	}
	if !w.End.After(w.Start) {
		return NewError(KindInvalidInput, "event window end must be after start")
	}
	return nil
}

func (w TimeWindow) Duration() time.Duration { return w.End.Sub(w.Start) }

func (w TimeWindow) Hours() float64 { return w.Duration().Hours() }

// ClockWindow is a clock time-of-day span in minutes since local midnight.
// EndMin <= StartMin marks a window that nominally runs to "24:00"
// (stored as 0). Such a window closes at the end of the same calendar day:
// the 24:00 boundary is exclusive and never reads into the next day.
type ClockWindow struct {
	StartMin int
	EndMin   int
}

// ClockWindowOf extracts the local clock span of a time window in loc.
// An end falling exactly on midnight becomes the 24:00 sentinel (0).
func ClockWindowOf(w TimeWindow, loc *time.Location) ClockWindow {
	return ClockWindow{
		StartMin: minuteOfDay(w.Start.In(loc)),
		EndMin:   minuteOfDay(w.End.In(loc)),
	}
}

// ParseClockWindow parses "HH:MM-HH:MM". "24:00" is accepted as an end.
func ParseClockWindow(s string) (ClockWindow, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return ClockWindow{}, fmt.Errorf("invalid clock window %q, expected HH:MM-HH:MM", s)
	}
	start, err := ParseHHMM(parts[0])
	if err != nil {
		return ClockWindow{}, err
	}
	end, err := ParseHHMM(parts[1])
	if err != nil {
		return ClockWindow{}, err
	}
	return ClockWindow{StartMin: start, EndMin: end % (24 * 60)}, nil
}

func (w ClockWindow) WrapsMidnight() bool { return w.EndMin <= w.StartMin }

// Contains reports whether a minute-of-day falls in the window, evaluated
// on a single calendar day. Non-wrapping windows are [start, end); a window
// ending at 24:00 covers [start, end-of-day].
func (w ClockWindow) Contains(minOfDay int) bool {
	if w.WrapsMidnight() {
		return minOfDay >= w.StartMin
	}
	return minOfDay >= w.StartMin && minOfDay < w.EndMin
}

func (w ClockWindow) String() string {
	end := w.EndMin
	if w.WrapsMidnight() {
		end = 24 * 60
	}
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.StartMin/60, w.StartMin%60, end/60, end%60)
}

// ParseHHMM parses "HH:MM" into minutes since midnight. "24:00" yields 1440.
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	var h, m int
	if _, err := fmt.Sscanf(parts[0], "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &m); err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h == 24 && m == 0 {
		return 24 * 60, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// MinuteOfDay returns the local minute-of-day of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	return minuteOfDay(t.In(loc))
}

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }
