package model

import "time"

// Sample is one 15-minute average-demand meter reading.
// Samples are immutable once recorded and ordered by timestamp.
type Sample struct {
	CustomerID string    `json:"customer_id"`
	Timestamp  time.Time `json:"timestamp"`
	KW         float64   `json:"kw"`
}

// Settings holds per-customer contract data used for gating and clamping.
// Nil fields mean "not on file".
type Settings struct {
	ContractValue      *float64 `json:"contract_value"`
	ContractCapacityKW *float64 `json:"contract_capacity_kw"`
}

// DateKey formats a calendar day the way the store and responses key days.
const DateKey = "2006-01-02"

// DayOf truncates an instant to its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
