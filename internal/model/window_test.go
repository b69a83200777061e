package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHHMM(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"16:00", 960},
		{"23:59", 1439},
		{"24:00", 1440},
	} {
		got, err := ParseHHMM(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"25:00", "16", "16:60", "24:01", "ab:cd"} {
		_, err := ParseHHMM(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseClockWindow(t *testing.T) {
	w, err := ParseClockWindow("16:00-20:00")
	require.NoError(t, err)
	assert.Equal(t, ClockWindow{StartMin: 960, EndMin: 1200}, w)
	assert.False(t, w.WrapsMidnight())

	w, err = ParseClockWindow("22:00-24:00")
	require.NoError(t, err)
	assert.Equal(t, ClockWindow{StartMin: 1320, EndMin: 0}, w)
	assert.True(t, w.WrapsMidnight())
	assert.Equal(t, "22:00-24:00", w.String())

	_, err = ParseClockWindow("16:00")
	assert.Error(t, err)
}

func TestClockWindowContains(t *testing.T) {
	day := ClockWindow{StartMin: 960, EndMin: 1200} // 16:00-20:00
	assert.True(t, day.Contains(960))
	assert.True(t, day.Contains(1199))
	assert.False(t, day.Contains(1200)) // end exclusive
	assert.False(t, day.Contains(959))

	// 22:00-24:00 closes at end of the same day; "24:00" is exclusive.
	wrap := ClockWindow{StartMin: 1320, EndMin: 0}
	assert.True(t, wrap.Contains(1320))
	assert.True(t, wrap.Contains(1439))
	assert.False(t, wrap.Contains(0))
	assert.False(t, wrap.Contains(1319))
}

func TestClockWindowOf(t *testing.T) {
	loc := time.UTC
	win := TimeWindow{
		Start: time.Date(2025, 6, 18, 22, 0, 0, 0, loc),
		End:   time.Date(2025, 6, 19, 0, 0, 0, 0, loc),
	}
	cw := ClockWindowOf(win, loc)
	assert.Equal(t, ClockWindow{StartMin: 1320, EndMin: 0}, cw)
	assert.True(t, cw.WrapsMidnight())
}

func TestTimeWindowValidate(t *testing.T) {
	start := time.Date(2025, 6, 18, 16, 0, 0, 0, time.UTC)

	assert.NoError(t, TimeWindow{Start: start, End: start.Add(2 * time.Hour)}.Validate())

	err := TimeWindow{Start: start, End: start}.Validate()
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	err = TimeWindow{Start: start, End: start.Add(-time.Hour)}.Validate()
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}
