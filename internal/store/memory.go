package store

import (
	"context"
	"sync"
	"time"

	"dayselect-dr/internal/model"
)

// MemoryStore is an in-memory Store used by tests and the offline CLI.
// Duplicate timestamps for a customer are rejected on ingest so a stored
// series stays unambiguous.
type MemoryStore struct {
	mu       sync.RWMutex
	samples  map[string][]model.Sample // per customer, kept sorted
	seen     map[string]map[int64]struct{}
	settings map[string]model.Settings
	events   map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		samples:  make(map[string][]model.Sample),
		seen:     make(map[string]map[int64]struct{}),
		settings: make(map[string]model.Settings),
		events:   make(map[string][]time.Time),
	}
}

// AddSamples ingests a batch. The whole batch is validated before any
// record is stored, so a rejected batch leaves the store unchanged.
func (m *MemoryStore) AddSamples(_ context.Context, samples []model.Sample) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type key struct {
		cid string
		ns  int64
	}
	inBatch := make(map[key]struct{}, len(samples))
	for _, s := range samples {
		if s.CustomerID == "" {
			return 0, model.NewError(model.KindInvalidInput, "sample customer_id is required")
		}
		if s.Timestamp.IsZero() {
			return 0, model.NewError(model.KindInvalidInput, "sample timestamp is required")
		}
		if s.KW < 0 {
			return 0, model.NewError(model.KindInvalidInput, "sample kw must be non-negative")
		}
		k := key{s.CustomerID, s.Timestamp.UnixNano()}
		if _, ok := inBatch[k]; ok {
			return 0, model.NewError(model.KindInvalidInput,
				"duplicate sample for %s at %s", s.CustomerID, s.Timestamp.Format(time.RFC3339))
		}
		inBatch[k] = struct{}{}
		if seen, ok := m.seen[s.CustomerID]; ok {
			if _, dup := seen[s.Timestamp.UnixNano()]; dup {
				return 0, model.NewError(model.KindInvalidInput,
					"duplicate sample for %s at %s", s.CustomerID, s.Timestamp.Format(time.RFC3339))
			}
		}
	}

	for _, s := range samples {
		m.samples[s.CustomerID] = append(m.samples[s.CustomerID], s)
		if m.seen[s.CustomerID] == nil {
			m.seen[s.CustomerID] = make(map[int64]struct{})
		}
		m.seen[s.CustomerID][s.Timestamp.UnixNano()] = struct{}{}
	}
	for cid := range m.samples {
		sortSamples(m.samples[cid])
	}
	return len(samples), nil
}

func (m *MemoryStore) Samples(_ context.Context, customerID string, start, end time.Time) ([]model.Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return filterSamples(m.samples[customerID], customerID, start, end), nil
}

func (m *MemoryStore) Settings(_ context.Context, customerID string) (model.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[customerID], nil
}

func (m *MemoryStore) SetSettings(_ context.Context, customerID string, s model.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[customerID] = s
	return nil
}

func (m *MemoryStore) PriorEventDays(_ context.Context, customerID string) ([]time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]time.Time, len(m.events[customerID]))
	copy(out, m.events[customerID])
	return out, nil
}

func (m *MemoryStore) AddEventDay(_ context.Context, customerID string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[customerID] = append(m.events[customerID], day)
	return nil
}
