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

var (
	eventDay   = time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC) // Wednesday
	eventWin16 = model.ClockWindow{StartMin: 14 * 60, EndMin: 18 * 60}
)

// flatHistory seeds every calendar day in the lookback with 15-minute
// samples: eventKW in the event window and adjustKW in 22:00-24:00.
func flatHistory(cid string, daysBack int, eventKW, adjustKW float64, skipEventWindowOn ...string) []model.Sample {
	skip := map[string]bool{}
	for _, d := range skipEventWindowOn {
		skip[d] = true
	}
	var out []model.Sample
	for offset := 1; offset <= daysBack; offset++ {
		day := eventDay.AddDate(0, 0, -offset)
		if !skip[day.Format(model.DateKey)] {
			out = append(out, windowSamples(cid, day, eventWin16, eventKW)...)
		}
		out = append(out, windowSamples(cid, day, AdjustWindow, adjustKW)...)
	}
	return out
}

func eventWindow() model.TimeWindow {
	return model.TimeWindow{
		Start: eventDay.Add(14 * time.Hour),
		End:   eventDay.Add(18 * time.Hour),
	}
}

func newEngine(samples []model.Sample) *Engine {
	return &Engine{
		Repo:  store.NewSliceRepo(samples),
		Rules: baselineRules(),
		Loc:   time.UTC,
	}
}

func TestComputeCBLFlatProfile(t *testing.T) {
	samples := flatHistory("c1", 35, 100, 100)
	// Event day: 90 kW in the event window, 100 kW in the adjustment window.
	samples = append(samples, windowSamples("c1", eventDay, eventWin16, 90)...)
	samples = append(samples, windowSamples("c1", eventDay, AdjustWindow, 100)...)

	capKW := 120.0
	res, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), &capKW)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, res.CBL1KW, 1e-9)
	assert.InDelta(t, 0.0, res.AFKW, 1e-9)
	assert.InDelta(t, 100.0, res.CBL1PlusAFKW, 1e-9)
	assert.InDelta(t, 120.0, res.CBL2KW, 1e-9)
	assert.InDelta(t, 100.0, res.CBLKW, 1e-9)
	assert.InDelta(t, 100.0, res.HistAdjustAvgKW, 1e-9)
	assert.InDelta(t, 100.0, res.TodayAdjustAvgKW, 1e-9)

	require.Len(t, res.SourceDays, 20)
	for i, d := range res.SourceDays {
		assert.True(t, d.Before(eventDay))
		assert.NotEqual(t, time.Saturday, d.Weekday())
		assert.NotEqual(t, time.Sunday, d.Weekday())
		if i > 0 {
			assert.True(t, res.SourceDays[i-1].Before(d))
		}
	}
}

func TestComputeCBLAdjustmentFactor(t *testing.T) {
	samples := flatHistory("c1", 35, 100, 80)
	// Tonight's adjustment window runs hotter than history: AF kicks in.
	samples = append(samples, windowSamples("c1", eventDay, AdjustWindow, 95)...)

	res, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 15.0, res.AFKW, 1e-9)
	assert.InDelta(t, 115.0, res.CBL1PlusAFKW, 1e-9)
	// Uncapped: cbl2 mirrors cbl1+af and the final CBL is not clamped.
	assert.InDelta(t, 115.0, res.CBL2KW, 1e-9)
	assert.InDelta(t, 115.0, res.CBLKW, 1e-9)
}

func TestComputeCBLNegativeAdjustmentClampsToZero(t *testing.T) {
	samples := flatHistory("c1", 35, 100, 100)
	// Tonight is quieter than history: AF must clamp at zero, not go negative.
	samples = append(samples, windowSamples("c1", eventDay, AdjustWindow, 60)...)

	res, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.AFKW)
	assert.InDelta(t, 100.0, res.CBLKW, 1e-9)
}

func TestComputeCBLContractCapacityClamps(t *testing.T) {
	samples := flatHistory("c1", 35, 100, 100)
	capKW := 85.0

	res, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), &capKW)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, res.CBLKW, 1e-9)
	assert.LessOrEqual(t, res.CBLKW, res.CBL2KW)
}

func TestComputeCBLSubstitutesDaysWithoutSamples(t *testing.T) {
	// 2025-06-16 is a qualifying Monday with no event-window samples.
	samples := flatHistory("c1", 35, 100, 100, "2025-06-16")

	res, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), nil)
	require.NoError(t, err)

	require.Len(t, res.SourceDays, 20)
	for _, d := range res.SourceDays {
		assert.NotEqual(t, "2025-06-16", d.Format(model.DateKey))
	}
	assert.InDelta(t, 100.0, res.CBL1KW, 1e-9)
}

func TestComputeCBLInsufficientHistory(t *testing.T) {
	samples := flatHistory("c1", 10, 100, 100)

	_, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), nil)
	require.Error(t, err)
	assert.Equal(t, model.KindInsufficientHistory, model.KindOf(err))
}

func TestComputeCBLOutOfSeason(t *testing.T) {
	samples := flatHistory("c1", 35, 100, 100)
	win := model.TimeWindow{
		Start: time.Date(2025, 5, 2, 14, 0, 0, 0, time.UTC), // before May 5
		End:   time.Date(2025, 5, 2, 18, 0, 0, 0, time.UTC),
	}

	_, err := newEngine(samples).ComputeCBL(context.Background(), "c1", win, nil)
	require.Error(t, err)
	assert.Equal(t, model.KindOutOfSeason, model.KindOf(err))
}

func TestComputeCBLInvalidWindow(t *testing.T) {
	samples := flatHistory("c1", 35, 100, 100)
	win := model.TimeWindow{Start: eventDay.Add(18 * time.Hour), End: eventDay.Add(14 * time.Hour)}

	_, err := newEngine(samples).ComputeCBL(context.Background(), "c1", win, nil)
	assert.Equal(t, model.KindInvalidInput, model.KindOf(err))
}

func TestComputeCBLUnknownCustomer(t *testing.T) {
	_, err := newEngine(nil).ComputeCBL(context.Background(), "ghost", eventWindow(), nil)
	require.Error(t, err)
	assert.Equal(t, model.KindNotFound, model.KindOf(err))
}

func TestComputeCBLMissingTodayAdjustmentDefaultsToZero(t *testing.T) {
	// No event-day samples at all in 22:00-24:00; AF falls back to zero
	// rather than failing the whole computation.
	samples := flatHistory("c1", 35, 100, 100)

	res, err := newEngine(samples).ComputeCBL(context.Background(), "c1", eventWindow(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.TodayAdjustAvgKW)
	assert.Equal(t, 0.0, res.AFKW)
	assert.InDelta(t, 100.0, res.CBLKW, 1e-9)
}
