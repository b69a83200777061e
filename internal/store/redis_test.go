package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayselect-dr/internal/model"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	s := miniredis.RunT(t)
	st, err := NewRedisStore(s.Addr(), 0, "")
	require.NoError(t, err)
	return st
}

func TestRedisStoreSamples(t *testing.T) {
	ctx := context.Background()
	st := newRedisStore(t)
	base := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	n, err := st.AddSamples(ctx, []model.Sample{
		sample("c1", base.Add(30*time.Minute), 90),
		sample("c1", base, 100),
		sample("c2", base, 55),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := st.Samples(ctx, "c1", base, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 100.0, got[0].KW)
	assert.Equal(t, 90.0, got[1].KW)

	// Unknown customer reads empty, not an error.
	got, err = st.Samples(ctx, "nobody", base, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStoreDuplicateTimestampsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	st := newRedisStore(t)
	ts := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

	_, err := st.AddSamples(ctx, []model.Sample{sample("c1", ts, 100)})
	require.NoError(t, err)
	_, err = st.AddSamples(ctx, []model.Sample{sample("c1", ts, 111)})
	require.NoError(t, err)

	got, err := st.Samples(ctx, "c1", ts, ts.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 111.0, got[0].KW)
}

func TestRedisStoreRejectsInvalidSamples(t *testing.T) {
	ctx := context.Background()
	st := newRedisStore(t)
	ts := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

	_, err := st.AddSamples(ctx, []model.Sample{sample("c1", ts, -1)})
	assert.Equal(t, model.KindInvalidInput, model.KindOf(err))
}

func TestRedisStoreSettingsAndEvents(t *testing.T) {
	ctx := context.Background()
	st := newRedisStore(t)

	s, err := st.Settings(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, s.ContractValue)

	val := 150.0
	require.NoError(t, st.SetSettings(ctx, "c1", model.Settings{ContractValue: &val}))
	s, err = st.Settings(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, s.ContractValue)
	assert.Equal(t, 150.0, *s.ContractValue)
	assert.Nil(t, s.ContractCapacityKW)

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.AddEventDay(ctx, "c1", day))
	require.NoError(t, st.AddEventDay(ctx, "c1", day)) // set semantics
	days, err := st.PriorEventDays(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-06-10", days[0].Format(model.DateKey))
}
