package models

import "time"

// MeterRecord is one ingested 15-minute reading.
type MeterRecord struct {
	CustomerID string    `json:"customer_id" binding:"required"`
	Timestamp  time.Time `json:"timestamp" binding:"required"`
	KW         float64   `json:"kw"`
}

// BulkMeterIngestRequest is the body of POST /meter-data/batch.
type BulkMeterIngestRequest struct {
	Records []MeterRecord `json:"records" binding:"required"`
}

// DaySelectCBLRequest asks for a day-select baseline.
type DaySelectCBLRequest struct {
	CustomerID string    `json:"customer_id" binding:"required"`
	EventStart time.Time `json:"event_start" binding:"required"`
	EventEnd   time.Time `json:"event_end" binding:"required"`
	// Contract capacity in kW. When provided, CBL = min(CBL1+AF, CBL2).
	ContractCapacityKW *float64 `json:"contract_capacity_kw"`
}

// DaySelectRewardRequest asks for an event settlement.
type DaySelectRewardRequest struct {
	CustomerID          string    `json:"customer_id" binding:"required"`
	EventStart          time.Time `json:"event_start" binding:"required"`
	EventEnd            time.Time `json:"event_end" binding:"required"`
	ContractCapacityKW  *float64  `json:"contract_capacity_kw"`
	CommittedCapacityKW float64   `json:"committed_capacity_kw" binding:"required"`
}

// TimeSpan is a start/end instant pair.
type TimeSpan struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// DayDRRequest is the single-window eligibility call.
type DayDRRequest struct {
	CustomerID string   `json:"customer_id" binding:"required"`
	Measure    string   `json:"measure" binding:"required"`
	CapacityDR float64  `json:"capacityDR" binding:"required"`
	TimespanDR TimeSpan `json:"timespanDR" binding:"required"`
	// IANA timezone used to evaluate local rules; defaults to the program
	// timezone.
	Timezone *string `json:"timezone"`
}
