package reward

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"dayselect-dr/internal/baseline"
	"dayselect-dr/internal/model"
	"dayselect-dr/internal/store"
)

// Result is the settlement for one executed event.
type Result struct {
	ActualAvgKW        float64
	ActualReductionKW  float64
	ExecutionRate      float64
	ReductionRatio     float64
	TariffRate         float64
	EventDurationHours float64
	RewardNTD          float64
}

// reductionRatioBrackets maps an execution rate to its discrete reward
// multiplier. Ordered highest lower-bound first; brackets are inclusive on
// the lower edge, exclusive on the upper.
var reductionRatioBrackets = []struct {
	MinRate float64
	Ratio   float64
}{
	{MinRate: 0.95, Ratio: 1.2},
	{MinRate: 0.80, Ratio: 1.0},
	{MinRate: 0.60, Ratio: 0.8},
	{MinRate: 0.00, Ratio: 0.0},
}

// tariffSchedule is the per-kWh rate (NTD) by event duration.
var tariffSchedule = []struct {
	Hours      int
	RatePerKWh float64
}{
	{Hours: 2, RatePerKWh: 2.47},
	{Hours: 4, RatePerKWh: 1.84},
	{Hours: 6, RatePerKWh: 1.69},
}

// maxExecutionRate caps the execution rate after rounding.
const maxExecutionRate = 1.2

// Engine derives the reward from a baseline and the event-day actuals.
// A pure derivation pipeline with fail-fast validation, no internal state.
type Engine struct {
	Repo store.SampleRepository
	Loc  *time.Location
}

// ComputeReward settles one event against its baseline. committedCapacity
// is the contracted reduction in kW and must be positive.
func (e *Engine) ComputeReward(ctx context.Context, base *baseline.Result, customerID string, win model.TimeWindow, committedCapacity float64) (*Result, error) {
	if err := win.Validate(); err != nil {
		return nil, err
	}
	if committedCapacity <= 0 {
		return nil, model.NewError(model.KindInvalidInput, "committed capacity must be positive")
	}

	hours, tariff, err := tariffFor(win)
	if err != nil {
		return nil, err
	}

	avgr := baseline.Averager{Repo: e.Repo, Loc: e.Loc}
	eventDate := model.DayOf(win.Start, e.Loc)
	actualAvg, err := avgr.Average(ctx, customerID, eventDate, model.ClockWindowOf(win, e.Loc))
	if err != nil {
		return nil, err
	}

	reduction := base.CBLKW - actualAvg
	if reduction < 0 {
		reduction = 0
	}

	// Round to one decimal before capping.
	rate := decimal.NewFromFloat(reduction).
		Div(decimal.NewFromFloat(committedCapacity)).
		Round(1)
	if capRate := decimal.NewFromFloat(maxExecutionRate); rate.GreaterThan(capRate) {
		rate = capRate
	}
	execRate := rate.InexactFloat64()

	ratio := reductionRatioFor(execRate)

	amount := decimal.NewFromFloat(committedCapacity).
		Mul(rate).
		Mul(decimal.NewFromInt(int64(hours))).
		Mul(decimal.NewFromFloat(tariff)).
		Mul(decimal.NewFromFloat(ratio))

	return &Result{
		ActualAvgKW:        actualAvg,
		ActualReductionKW:  reduction,
		ExecutionRate:      execRate,
		ReductionRatio:     ratio,
		TariffRate:         tariff,
		EventDurationHours: float64(hours),
		RewardNTD:          amount.InexactFloat64(),
	}, nil
}

func reductionRatioFor(executionRate float64) float64 {
	for _, b := range reductionRatioBrackets {
		if executionRate >= b.MinRate {
			return b.Ratio
		}
	}
	return 0
}

func tariffFor(win model.TimeWindow) (int, float64, error) {
	d := win.Duration()
	if d%time.Hour == 0 {
		hours := int(d / time.Hour)
		for _, t := range tariffSchedule {
			if t.Hours == hours {
				return hours, t.RatePerKWh, nil
			}
		}
	}
	return 0, 0, model.NewError(model.KindUnsupportedDuration,
		"event duration %s is not supported, expected 2, 4 or 6 hours", d)
}
