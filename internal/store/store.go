package store

import (
	"context"
	"sort"
	"time"

	"dayselect-dr/internal/model"
)

// SampleRepository is the read interface the calculation engines consume.
// Samples returns readings with start <= timestamp < end, ordered by
// timestamp. An empty result is not an error.
type SampleRepository interface {
	Samples(ctx context.Context, customerID string, start, end time.Time) ([]model.Sample, error)
}

// SettingsRepository resolves per-customer contract data.
type SettingsRepository interface {
	Settings(ctx context.Context, customerID string) (model.Settings, error)
}

// EventHistory lists a customer's prior DR event days.
type EventHistory interface {
	PriorEventDays(ctx context.Context, customerID string) ([]time.Time, error)
}

// Store is the full meter/settings surface served by both backends.
type Store interface {
	SampleRepository
	SettingsRepository
	EventHistory
	AddSamples(ctx context.Context, samples []model.Sample) (int, error)
	SetSettings(ctx context.Context, customerID string, s model.Settings) error
	AddEventDay(ctx context.Context, customerID string, day time.Time) error
}

// SliceRepo serves a fixed, pre-fetched snapshot of one customer's samples.
// The engines bulk-read once per computation and then average against the
// snapshot, so recomputation always re-reads from source.
type SliceRepo struct {
	samples []model.Sample
}

// NewSliceRepo sorts (and keeps) the given samples.
func NewSliceRepo(samples []model.Sample) *SliceRepo {
	out := make([]model.Sample, len(samples))
	copy(out, samples)
	sortSamples(out)
	return &SliceRepo{samples: out}
}

func (r *SliceRepo) Samples(_ context.Context, customerID string, start, end time.Time) ([]model.Sample, error) {
	return filterSamples(r.samples, customerID, start, end), nil
}

func (r *SliceRepo) Len() int { return len(r.samples) }

func sortSamples(s []model.Sample) {
	sort.Slice(s, func(i, j int) bool { return s[i].Timestamp.Before(s[j].Timestamp) })
}

func filterSamples(sorted []model.Sample, customerID string, start, end time.Time) []model.Sample {
	var out []model.Sample
	for _, s := range sorted {
		if s.CustomerID != customerID {
			continue
		}
		if s.Timestamp.Before(start) || !s.Timestamp.Before(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}
