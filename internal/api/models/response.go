package models

import "time"

// BaselineDetail carries the baseline computation breakdown. Field names
// are the external contract and must stay as-is.
type BaselineDetail struct {
	CBL1KW           float64 `json:"cbl1_kw"`
	AFKW             float64 `json:"af_kw"`
	CBL1PlusAFKW     float64 `json:"cbl1_plus_af_kw"`
	CBL2KW           float64 `json:"cbl2_kw"`
	CBLKW            float64 `json:"cbl_kw"`
	HistAdjustAvgKW  float64 `json:"hist_adjust_avg_kw"`
	TodayAdjustAvgKW float64 `json:"today_adjust_avg_kw"`
}

// DaySelectCBLResponse is the body of POST /dr/day-select/cbl.
type DaySelectCBLResponse struct {
	ID                 string         `json:"id,omitempty"`
	CustomerID         string         `json:"customer_id"`
	EventStart         time.Time      `json:"event_start"`
	EventEnd           time.Time      `json:"event_end"`
	CBLKW              float64        `json:"cbl_kw"`
	BaselineSourceDays []string       `json:"baseline_source_days"`
	Method             string         `json:"method"`
	Detail             BaselineDetail `json:"detail"`
}

// DaySelectRewardResponse extends the baseline detail with the settlement
// fields.
type DaySelectRewardResponse struct {
	ID                 string         `json:"id,omitempty"`
	CustomerID         string         `json:"customer_id"`
	EventStart         time.Time      `json:"event_start"`
	EventEnd           time.Time      `json:"event_end"`
	BaselineSourceDays []string       `json:"baseline_source_days"`
	Detail             BaselineDetail `json:"detail"`

	ActualAvgKW        float64 `json:"actual_avg_kw"`
	ActualReductionKW  float64 `json:"actual_reduction_kw"`
	ExecutionRate      float64 `json:"execution_rate"`
	ReductionRatio     float64 `json:"reduction_ratio"`
	TariffRate         float64 `json:"tariff_rate"`
	EventDurationHours float64 `json:"event_duration_hours"`
	RewardNTD          float64 `json:"reward_ntd"`
}

// DayDRResponse is the structured eligibility outcome.
type DayDRResponse struct {
	Accepted bool     `json:"accepted"`
	Reason   *string  `json:"reason"`
	CBL      *float64 `json:"cbl"`
}

// IngestResponse acknowledges a meter batch.
type IngestResponse struct {
	Status   string `json:"status"`
	Inserted int    `json:"inserted"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
