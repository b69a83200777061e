package seed

import (
	"fmt"
	"math/rand"
	"time"

	"dayselect-dr/internal/model"
)

// Ints generates a deterministic sequence of pseudo-random integers drawn
// uniformly from the inclusive range [lower, upper].
func Ints(seed int64, count, lower, upper int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must be non-negative")
	}
	if lower > upper {
		return nil, fmt.Errorf("lower cannot be greater than upper")
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]int, count)
	for i := range out {
		out[i] = lower + rng.Intn(upper-lower+1)
	}
	return out, nil
}

// ProfileParams shapes a demo load profile: flat base demand with a daily
// trough window, jittered per day by the seeded RNG.
type ProfileParams struct {
	Days         int
	SlotMinutes  int
	BaseKW       float64
	BaseJitter   int
	TroughKW     float64
	TroughJitter int
	Trough       model.ClockWindow
}

// DefaultProfile mirrors the demo seeding shape: 20 days of 15-minute
// samples at ~100 kW with a ~70 kW trough between 18:00 and 20:00.
func DefaultProfile() ProfileParams {
	return ProfileParams{
		Days:         20,
		SlotMinutes:  15,
		BaseKW:       100,
		BaseJitter:   5,
		TroughKW:     70,
		TroughJitter: 3,
		Trough:       model.ClockWindow{StartMin: 18 * 60, EndMin: 20 * 60},
	}
}

// BuildProfile generates samples for the p.Days calendar days preceding
// asOf (excluding asOf itself) in loc. The same seed always yields the
// same profile.
func BuildProfile(customerID string, asOf time.Time, loc *time.Location, seed int64, p ProfileParams) ([]model.Sample, error) {
	if p.Days <= 0 {
		return nil, fmt.Errorf("days must be positive")
	}
	if p.SlotMinutes <= 0 {
		return nil, fmt.Errorf("slot_minutes must be positive")
	}

	// Two jitter draws per day.
	jitter, err := Ints(seed, p.Days*2, -maxJitter(p), maxJitter(p))
	if err != nil {
		return nil, err
	}

	asOfDay := model.DayOf(asOf, loc)
	var out []model.Sample
	for offset := 1; offset <= p.Days; offset++ {
		day := asOfDay.AddDate(0, 0, -offset)
		base := p.BaseKW + float64(clamp(jitter[(offset-1)*2], p.BaseJitter))
		trough := p.TroughKW + float64(clamp(jitter[(offset-1)*2+1], p.TroughJitter))

		end := day.AddDate(0, 0, 1)
		for cur := day; cur.Before(end); cur = cur.Add(time.Duration(p.SlotMinutes) * time.Minute) {
			kw := base
			m := model.MinuteOfDay(cur, loc)
			// The demo trough includes its end minute.
			if m >= p.Trough.StartMin && m <= p.Trough.EndMin {
				kw = trough
			}
			out = append(out, model.Sample{CustomerID: customerID, Timestamp: cur, KW: kw})
		}
	}
	return out, nil
}

func maxJitter(p ProfileParams) int {
	j := p.BaseJitter
	if p.TroughJitter > j {
		j = p.TroughJitter
	}
	if j == 0 {
		j = 1
	}
	return j
}

func clamp(v, bound int) int {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
