package baseline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayselect-dr/internal/model"
	"dayselect-dr/internal/store"
)

// windowSamples builds 15-minute readings of kw for one customer covering
// win on day (local midnight in UTC for tests).
func windowSamples(cid string, day time.Time, win model.ClockWindow, kw float64) []model.Sample {
	endMin := win.EndMin
	if win.WrapsMidnight() {
		endMin = 24 * 60
	}
	var out []model.Sample
	for m := win.StartMin; m < endMin; m += 15 {
		out = append(out, model.Sample{
			CustomerID: cid,
			Timestamp:  day.Add(time.Duration(m) * time.Minute),
			KW:         kw,
		})
	}
	return out
}

func TestAveragerMeanOverWindow(t *testing.T) {
	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	win := model.ClockWindow{StartMin: 16 * 60, EndMin: 20 * 60}

	samples := []model.Sample{
		{CustomerID: "c1", Timestamp: day.Add(16 * time.Hour), KW: 80},
		{CustomerID: "c1", Timestamp: day.Add(17 * time.Hour), KW: 120},
		{CustomerID: "c1", Timestamp: day.Add(20 * time.Hour), KW: 999}, // end exclusive
		{CustomerID: "c1", Timestamp: day.Add(10 * time.Hour), KW: 999}, // outside window
	}
	a := Averager{Repo: store.NewSliceRepo(samples), Loc: time.UTC}

	avg, err := a.Average(context.Background(), "c1", day, win)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, avg, 1e-9)
}

func TestAveragerAdjustWindowStaysOnSameDay(t *testing.T) {
	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	next := day.AddDate(0, 0, 1)

	samples := []model.Sample{
		{CustomerID: "c1", Timestamp: day.Add(22 * time.Hour), KW: 50},
		{CustomerID: "c1", Timestamp: day.Add(23*time.Hour + 45*time.Minute), KW: 70},
		// Next local midnight onward must never contribute.
		{CustomerID: "c1", Timestamp: next, KW: 999},
		{CustomerID: "c1", Timestamp: next.Add(30 * time.Minute), KW: 999},
	}
	a := Averager{Repo: store.NewSliceRepo(samples), Loc: time.UTC}

	avg, err := a.Average(context.Background(), "c1", day, AdjustWindow)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, avg, 1e-9)
}

func TestAveragerNoSamples(t *testing.T) {
	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	a := Averager{Repo: store.NewSliceRepo(nil), Loc: time.UTC}

	_, err := a.Average(context.Background(), "c1", day, AdjustWindow)
	require.Error(t, err)
	assert.Equal(t, model.KindNoSamples, model.KindOf(err))
}

func TestAveragerLocalizesTimestamps(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	day := time.Date(2025, 6, 17, 0, 0, 0, 0, loc)
	// 08:30 UTC is 16:30 in Taipei.
	samples := []model.Sample{
		{CustomerID: "c1", Timestamp: time.Date(2025, 6, 17, 8, 30, 0, 0, time.UTC), KW: 42},
	}
	a := Averager{Repo: store.NewSliceRepo(samples), Loc: loc}

	avg, err := a.Average(context.Background(), "c1", day, model.ClockWindow{StartMin: 16 * 60, EndMin: 20 * 60})
	require.NoError(t, err)
	assert.InDelta(t, 42.0, avg, 1e-9)
}
