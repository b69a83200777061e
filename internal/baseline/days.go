package baseline

import (
	"time"

	"dayselect-dr/internal/calendar"
	"dayselect-dr/internal/model"
)

// DefaultBaselineDays is the number of qualifying days averaged into CBL1.
const DefaultBaselineDays = 20

// DefaultLookbackLimit bounds how many calendar days the selector walks
// back before giving up with InsufficientHistory.
const DefaultLookbackLimit = 90

// Selector picks the most recent qualifying days before an event date.
// It carries no state between calls.
type Selector struct {
	Rules calendar.RuleSet
	// Limit is the lookback bound in calendar days (DefaultLookbackLimit
	// when zero).
	Limit int
}

// Select walks backward one calendar day at a time from eventDate-1,
// collecting days that pass the rule set and the optional accept filter,
// until count days are found. The accept filter lets the caller substitute
// days that have no usable samples with earlier qualifying days.
// The result is chronological ascending.
func (s Selector) Select(eventDate time.Time, count int, accept func(day time.Time) bool) ([]time.Time, error) {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLookbackLimit
	}

	days := make([]time.Time, 0, count)
	day := eventDate.AddDate(0, 0, -1)
	for searched := 0; searched < limit && len(days) < count; searched++ {
		if s.Rules.IsQualifyingDay(day) && (accept == nil || accept(day)) {
			days = append(days, day)
		}
		day = day.AddDate(0, 0, -1)
	}
	if len(days) < count {
		return nil, model.NewError(model.KindInsufficientHistory,
			"only %d of %d qualifying days with samples found within the %d-day lookback", len(days), count, limit)
	}

	// Collected newest-first; report oldest-first.
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days, nil
}
