package eligibility

import (
	"context"
	"time"

	"dayselect-dr/internal/calendar"
	"dayselect-dr/internal/model"
	"dayselect-dr/internal/store"
)

// MeasureDayDR is the only measure tag the single-window path accepts.
const MeasureDayDR = "dayDR"

// Rejection reasons. The rule order is fixed: contract value, measure,
// capacity, weekday/season, timespan shape. The first failing rule names
// the reason.
const (
	ReasonContractValue = "Contract value below threshold"
	ReasonMeasure       = "Unsupported measure"
	ReasonCapacity      = "capacityDR must exceed 20 kW"
	ReasonSeason        = "Request outside active DR season"
	ReasonWindow        = "Timespan not in allowed DR windows"
)

// allowedWindows are the accepted local time-of-day shapes for a dayDR call.
var allowedWindows = []model.ClockWindow{
	{StartMin: 18 * 60, EndMin: 20 * 60},
	{StartMin: 16 * 60, EndMin: 20 * 60},
	{StartMin: 16 * 60, EndMin: 22 * 60},
}

// trailingDays is the lookback for the single-window CBL: the mean across
// the trailing 20 calendar days of each day's minimum sample in the window.
const trailingDays = 20

// Request is one dayDR eligibility call.
type Request struct {
	CustomerID string
	Measure    string
	CapacityKW float64
	Span       model.TimeWindow
	Loc        *time.Location
}

// Result is the structured accepted/reason outcome. The validator reports
// rule failures here rather than as errors so the boundary layer decides
// HTTP semantics; errors are reserved for repository and history failures.
type Result struct {
	Accepted bool
	Reason   string
	CBL      *float64
}

// Validator is the degenerate single-day variant of the calendar/window
// rules: no qualifying-day machinery, a fixed window triplet, and the
// May 1 season start.
type Validator struct {
	Repo     store.SampleRepository
	Settings store.SettingsRepository
	Season   calendar.Season

	// ContractValueThreshold gates the call (rejected when <=); default 100.
	ContractValueThreshold float64
	// MinCapacityKW gates capacityDR (rejected when <=); default 20.
	MinCapacityKW float64
}

// Validate applies the gating rules in order and, when all pass, computes
// the trailing-20-day CBL for the requested window.
func (v Validator) Validate(ctx context.Context, req Request) (Result, error) {
	if err := req.Span.Validate(); err != nil {
		return Result{}, err
	}

	threshold := v.ContractValueThreshold
	if threshold == 0 {
		threshold = 100
	}
	minCapacity := v.MinCapacityKW
	if minCapacity == 0 {
		minCapacity = 20
	}
	season := v.Season
	if season == (calendar.Season{}) {
		season = calendar.EligibilitySeason
	}

	settings, err := v.Settings.Settings(ctx, req.CustomerID)
	if err != nil {
		return Result{}, err
	}
	if settings.ContractValue == nil || *settings.ContractValue <= threshold {
		return Result{Reason: ReasonContractValue}, nil
	}
	if req.Measure != MeasureDayDR {
		return Result{Reason: ReasonMeasure}, nil
	}
	if req.CapacityKW <= minCapacity {
		return Result{Reason: ReasonCapacity}, nil
	}

	localStart := req.Span.Start.In(req.Loc)
	if wd := localStart.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return Result{Reason: ReasonSeason}, nil
	}
	if !season.Contains(localStart) {
		return Result{Reason: ReasonSeason}, nil
	}

	win := model.ClockWindowOf(req.Span, req.Loc)
	if !windowAllowed(win) {
		return Result{Reason: ReasonWindow}, nil
	}

	cbl, err := v.computeCBL(ctx, req.CustomerID, localStart, win, req.Loc)
	if err != nil {
		return Result{}, err
	}
	return Result{Accepted: true, CBL: &cbl}, nil
}

func windowAllowed(win model.ClockWindow) bool {
	for _, w := range allowedWindows {
		if win == w {
			return true
		}
	}
	return false
}

// computeCBL averages, across the trailing 20 calendar days, each day's
// minimum sample value inside the requested window. The window bounds are
// inclusive here, matching the historical behavior of this path.
func (v Validator) computeCBL(ctx context.Context, customerID string, localStart time.Time, win model.ClockWindow, loc *time.Location) (float64, error) {
	callDate := model.DayOf(localStart, loc)
	earliest := callDate.AddDate(0, 0, -trailingDays)

	samples, err := v.Repo.Samples(ctx, customerID, earliest, callDate)
	if err != nil {
		return 0, err
	}

	minByDay := make(map[string]float64)
	for _, s := range samples {
		m := model.MinuteOfDay(s.Timestamp, loc)
		if m < win.StartMin || m > win.EndMin {
			continue
		}
		key := model.DayOf(s.Timestamp, loc).Format(model.DateKey)
		if cur, ok := minByDay[key]; !ok || s.KW < cur {
			minByDay[key] = s.KW
		}
	}
	if len(minByDay) == 0 {
		return 0, model.NewError(model.KindInsufficientHistory,
			"insufficient load profile for CBL calculation")
	}

	var sum float64
	for _, kw := range minByDay {
		sum += kw
	}
	return sum / float64(len(minByDay)), nil
}
