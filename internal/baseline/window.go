package baseline

import (
	"context"
	"time"

	"dayselect-dr/internal/model"
	"dayselect-dr/internal/store"
)

// AdjustWindow is the 22:00-24:00 clock window used for the load-adjustment
// factor. It closes at the end of the same calendar day: the 24:00 boundary
// is exclusive and the window never reads into the next day's 00:00.
var AdjustWindow = model.ClockWindow{StartMin: 22 * 60, EndMin: 0}

// Averager computes mean demand over a clock window on one calendar day.
type Averager struct {
	Repo store.SampleRepository
	Loc  *time.Location
}

// Average returns the mean kw of the customer's samples on day whose local
// time-of-day falls in win. Returns a NoSamples error when nothing matches;
// the caller decides whether that is fatal or whether the day is skipped.
func (a Averager) Average(ctx context.Context, customerID string, day time.Time, win model.ClockWindow) (float64, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, a.Loc)
	samples, err := a.Repo.Samples(ctx, customerID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}

	var sum float64
	var n int
	for _, s := range samples {
		if !win.Contains(model.MinuteOfDay(s.Timestamp, a.Loc)) {
			continue
		}
		sum += s.KW
		n++
	}
	if n == 0 {
		return 0, model.NewError(model.KindNoSamples,
			"no samples for %s on %s in window %s", customerID, dayStart.Format(model.DateKey), win)
	}
	return sum / float64(n), nil
}
