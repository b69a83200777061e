package calendar

import "time"

// Season is a month/day range within a single year, inclusive on both ends.
// The two DR rule variants carry different season starts (May 5 for the
// 20-day baseline path, May 1 for the single-window eligibility path);
// they are deliberately kept as distinct values, not merged.
type Season struct {
	StartMonth time.Month
	StartDay   int
	EndMonth   time.Month
	EndDay     int
}

var (
	// BaselineSeason bounds the rich day-select CBL path.
	BaselineSeason = Season{StartMonth: time.May, StartDay: 5, EndMonth: time.October, EndDay: 31}
	// EligibilitySeason bounds the single-window dayDR path.
	EligibilitySeason = Season{StartMonth: time.May, StartDay: 1, EndMonth: time.October, EndDay: 31}
)

// Contains reports whether the calendar day of t falls within the season.
// Evaluate t in the program's local timezone before calling.
func (s Season) Contains(t time.Time) bool {
	m, d := t.Month(), t.Day()
	if m < s.StartMonth || m > s.EndMonth {
		return false
	}
	if m == s.StartMonth && d < s.StartDay {
		return false
	}
	if m == s.EndMonth && d > s.EndDay {
		return false
	}
	return true
}

// DateSet is a set of calendar days keyed by "2006-01-02".
type DateSet map[string]struct{}

func NewDateSet(days ...time.Time) DateSet {
	s := make(DateSet, len(days))
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func (s DateSet) Add(day time.Time) { s[day.Format("2006-01-02")] = struct{}{} }

func (s DateSet) Contains(day time.Time) bool {
	_, ok := s[day.Format("2006-01-02")]
	return ok
}

// RuleSet classifies calendar days for one customer. It is a pure predicate
// over the holiday calendar and the customer's prior DR event days, both
// supplied up front.
type RuleSet struct {
	Season      Season
	Holidays    DateSet // designated off-peak/holiday days
	PriorEvents DateSet // executed or scheduled DR event days for the customer
}

// IsQualifyingDay reports whether day may contribute to the baseline:
// a Monday-Friday day inside the season that is neither a holiday/off-peak
// day nor a prior DR event day.
func (r RuleSet) IsQualifyingDay(day time.Time) bool {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if !r.Season.Contains(day) {
		return false
	}
	if r.Holidays.Contains(day) {
		return false
	}
	if r.PriorEvents.Contains(day) {
		return false
	}
	return true
}
