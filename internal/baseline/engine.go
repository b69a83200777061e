package baseline

import (
	"context"
	"time"

	"dayselect-dr/internal/calendar"
	"dayselect-dr/internal/model"
	"dayselect-dr/internal/store"
)

// Result is the derived customer baseline load. Recomputed per request,
// never persisted.
type Result struct {
	CBL1KW           float64
	AFKW             float64
	CBL1PlusAFKW     float64
	CBL2KW           float64
	CBLKW            float64
	HistAdjustAvgKW  float64
	TodayAdjustAvgKW float64
	SourceDays       []time.Time // ascending
}

// Engine produces the day-select CBL: the 20-qualifying-day average over
// the event's clock window, plus the non-negative load-adjustment factor,
// clamped by contract capacity when one is on file.
type Engine struct {
	Repo  store.SampleRepository
	Rules calendar.RuleSet
	Loc   *time.Location
	// Days is the qualifying-day count (DefaultBaselineDays when zero).
	Days int
	// LookbackLimit bounds the selector walk (DefaultLookbackLimit when zero).
	LookbackLimit int
}

// ComputeCBL derives the baseline for an event window. contractCapacity is
// the optional CBL2 clamp; nil means uncapped.
func (e *Engine) ComputeCBL(ctx context.Context, customerID string, win model.TimeWindow, contractCapacity *float64) (*Result, error) {
	if err := win.Validate(); err != nil {
		return nil, err
	}

	localStart := win.Start.In(e.Loc)
	eventDate := model.DayOf(win.Start, e.Loc)
	if !e.Rules.Season.Contains(localStart) {
		return nil, model.NewError(model.KindOutOfSeason,
			"event date %s is outside the day-select season", eventDate.Format(model.DateKey))
	}

	count := e.Days
	if count <= 0 {
		count = DefaultBaselineDays
	}
	limit := e.LookbackLimit
	if limit <= 0 {
		limit = DefaultLookbackLimit
	}

	// One bulk read covering the full lookback (plus two leading days for
	// timezone skew at the range edge), then all averaging runs against the
	// snapshot.
	fetchStart := eventDate.AddDate(0, 0, -(limit + 2))
	fetchEnd := model.DayOf(win.End, e.Loc).AddDate(0, 0, 1)
	samples, err := e.Repo.Samples(ctx, customerID, fetchStart, fetchEnd)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, model.NewError(model.KindNotFound, "no meter data for customer %s", customerID)
	}
	snapshot := Averager{Repo: store.NewSliceRepo(samples), Loc: e.Loc}

	eventWin := model.ClockWindowOf(win, e.Loc)

	// Days whose event-window average raises NoSamples are skipped and the
	// selector substitutes an earlier qualifying day in their place.
	eventAvgs := make(map[string]float64, count)
	accept := func(day time.Time) bool {
		avg, err := snapshot.Average(ctx, customerID, day, eventWin)
		if err != nil {
			return false
		}
		eventAvgs[day.Format(model.DateKey)] = avg
		return true
	}

	selector := Selector{Rules: e.Rules, Limit: limit}
	days, err := selector.Select(eventDate, count, accept)
	if err != nil {
		return nil, err
	}

	var cbl1 float64
	for _, d := range days {
		cbl1 += eventAvgs[d.Format(model.DateKey)]
	}
	cbl1 /= float64(len(days))

	var histSum float64
	var histN int
	for _, d := range days {
		avg, err := snapshot.Average(ctx, customerID, d, AdjustWindow)
		if err != nil {
			if model.IsKind(err, model.KindNoSamples) {
				continue
			}
			return nil, err
		}
		histSum += avg
		histN++
	}
	var histAdjust float64
	if histN > 0 {
		histAdjust = histSum / float64(histN)
	}

	todayAdjust, err := snapshot.Average(ctx, customerID, eventDate, AdjustWindow)
	if err != nil {
		if !model.IsKind(err, model.KindNoSamples) {
			return nil, err
		}
		todayAdjust = 0
	}

	af := todayAdjust - histAdjust
	if af < 0 {
		af = 0
	}

	cbl1PlusAF := cbl1 + af
	cbl2 := cbl1PlusAF
	if contractCapacity != nil {
		cbl2 = *contractCapacity
	}
	cbl := cbl1PlusAF
	if cbl2 < cbl {
		cbl = cbl2
	}

	return &Result{
		CBL1KW:           cbl1,
		AFKW:             af,
		CBL1PlusAFKW:     cbl1PlusAF,
		CBL2KW:           cbl2,
		CBLKW:            cbl,
		HistAdjustAvgKW:  histAdjust,
		TodayAdjustAvgKW: todayAdjust,
		SourceDays:       days,
	}, nil
}
