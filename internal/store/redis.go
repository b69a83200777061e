package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dayselect-dr/internal/model"
)

const (
	samplesKeyFmt  = "dr:samples:%s"
	settingsKeyFmt = "dr:setting:%s"
	eventsKeyFmt   = "dr:events:%s"
)

// RedisStore keeps meter samples, contract settings and DR event history in
// Redis. Samples are a list of JSON records per customer; the store cannot
// validate a batch atomically, so duplicate timestamps are resolved on read
// with last-write-wins instead of being rejected at ingest.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string, db int, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) AddSamples(ctx context.Context, samples []model.Sample) (int, error) {
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
	}
	pipe := r.client.Pipeline()
	for _, s := range samples {
		raw, err := json.Marshal(s)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal sample: %w", err)
		}
		pipe.RPush(ctx, fmt.Sprintf(samplesKeyFmt, s.CustomerID), raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to store samples: %w", err)
	}
	return len(samples), nil
}

func (r *RedisStore) Samples(ctx context.Context, customerID string, start, end time.Time) ([]model.Sample, error) {
	raws, err := r.client.LRange(ctx, fmt.Sprintf(samplesKeyFmt, customerID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	// Later list entries win on duplicate timestamps.
	byNano := make(map[int64]model.Sample, len(raws))
	for _, raw := range raws {
		var s model.Sample
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("malformed sample record: %w", err)
		}
		byNano[s.Timestamp.UnixNano()] = s
	}

	out := make([]model.Sample, 0, len(byNano))
	for _, s := range byNano {
		out = append(out, s)
	}
	sortSamples(out)
	return filterSamples(out, customerID, start, end), nil
}

func (r *RedisStore) Settings(ctx context.Context, customerID string) (model.Settings, error) {
	raw, err := r.client.Get(ctx, fmt.Sprintf(settingsKeyFmt, customerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Settings{}, nil
		}
		return model.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	var s model.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return model.Settings{}, fmt.Errorf("malformed settings record: %w", err)
	}
	return s, nil
}

func (r *RedisStore) SetSettings(ctx context.Context, customerID string, s model.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := r.client.Set(ctx, fmt.Sprintf(settingsKeyFmt, customerID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}
	return nil
}

func (r *RedisStore) PriorEventDays(ctx context.Context, customerID string) ([]time.Time, error) {
	members, err := r.client.SMembers(ctx, fmt.Sprintf(eventsKeyFmt, customerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read event days: %w", err)
	}
	out := make([]time.Time, 0, len(members))
	for _, m := range members {
		day, err := time.Parse(model.DateKey, m)
		if err != nil {
			return nil, fmt.Errorf("malformed event day %q: %w", m, err)
		}
		out = append(out, day)
	}
	return out, nil
}

func (r *RedisStore) AddEventDay(ctx context.Context, customerID string, day time.Time) error {
	key := fmt.Sprintf(eventsKeyFmt, customerID)
	if err := r.client.SAdd(ctx, key, day.Format(model.DateKey)).Err(); err != nil {
		return fmt.Errorf("failed to store event day: %w", err)
	}
	return nil
}
