package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dayselect-dr/internal/api/models"
	"dayselect-dr/internal/baseline"
	"dayselect-dr/internal/calendar"
	"dayselect-dr/internal/config"
	"dayselect-dr/internal/eligibility"
	"dayselect-dr/internal/model"
	"dayselect-dr/internal/reward"
	"dayselect-dr/internal/store"
)

// Method tags the CBL algorithm version in responses.
const Method = "day-select-cbl-v1"

// DRHandler serves the day-select CBL, reward and eligibility endpoints.
type DRHandler struct {
	Store    store.Store
	Loc      *time.Location
	Program  config.ProgramConfig
	Holidays calendar.DateSet
}

func NewDRHandler(st store.Store, loc *time.Location, program config.ProgramConfig, holidays calendar.DateSet) *DRHandler {
	return &DRHandler{Store: st, Loc: loc, Program: program, Holidays: holidays}
}

// ComputeCBL handles POST /api/v1/dr/day-select/cbl
func (h *DRHandler) ComputeCBL(c *gin.Context) {
	var req models.DaySelectCBLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	res, err := h.runBaseline(c, req.CustomerID, req.EventStart, req.EventEnd, req.ContractCapacityKW)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DaySelectCBLResponse{
		ID:                 uuid.NewString(),
		CustomerID:         req.CustomerID,
		EventStart:         req.EventStart,
		EventEnd:           req.EventEnd,
		CBLKW:              round2(res.CBLKW),
		BaselineSourceDays: formatDays(res.SourceDays),
		Method:             Method,
		Detail:             toDetail(res),
	})
}

// ComputeReward handles POST /api/v1/dr/day-select/reward
func (h *DRHandler) ComputeReward(c *gin.Context) {
	var req models.DaySelectRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	capacity := req.ContractCapacityKW
	if capacity == nil {
		settings, err := h.Store.Settings(c, req.CustomerID)
		if err != nil {
			respondEngineError(c, err)
			return
		}
		capacity = settings.ContractCapacityKW
	}

	base, err := h.runBaseline(c, req.CustomerID, req.EventStart, req.EventEnd, capacity)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	engine := reward.Engine{Repo: h.Store, Loc: h.Loc}
	win := model.TimeWindow{Start: req.EventStart, End: req.EventEnd}
	res, err := engine.ComputeReward(c, base, req.CustomerID, win, req.CommittedCapacityKW)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.DaySelectRewardResponse{
		ID:                 uuid.NewString(),
		CustomerID:         req.CustomerID,
		EventStart:         req.EventStart,
		EventEnd:           req.EventEnd,
		BaselineSourceDays: formatDays(base.SourceDays),
		Detail:             toDetail(base),
		ActualAvgKW:        round2(res.ActualAvgKW),
		ActualReductionKW:  round2(res.ActualReductionKW),
		ExecutionRate:      res.ExecutionRate,
		ReductionRatio:     res.ReductionRatio,
		TariffRate:         res.TariffRate,
		EventDurationHours: res.EventDurationHours,
		RewardNTD:          round2(res.RewardNTD),
	})
}

// DayDR handles POST /api/v1/dayDR
func (h *DRHandler) DayDR(c *gin.Context) {
	var req models.DayDRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	loc := h.Loc
	if req.Timezone != nil {
		parsed, err := time.LoadLocation(*req.Timezone)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_TIMEZONE", Message: err.Error()},
			})
			return
		}
		loc = parsed
	}

	v := eligibility.Validator{
		Repo:                   h.Store,
		Settings:               h.Store,
		Season:                 calendar.EligibilitySeason,
		ContractValueThreshold: h.Program.ContractValueThreshold,
		MinCapacityKW:          h.Program.MinCapacityKW,
	}
	res, err := v.Validate(c, eligibility.Request{
		CustomerID: req.CustomerID,
		Measure:    req.Measure,
		CapacityKW: req.CapacityDR,
		Span:       model.TimeWindow{Start: req.TimespanDR.Start, End: req.TimespanDR.End},
		Loc:        loc,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	out := models.DayDRResponse{Accepted: res.Accepted}
	if res.Reason != "" {
		reason := res.Reason
		out.Reason = &reason
	}
	if res.CBL != nil {
		cbl := round2(*res.CBL)
		out.CBL = &cbl
	}
	c.JSON(http.StatusOK, out)
}

func (h *DRHandler) runBaseline(c *gin.Context, customerID string, start, end time.Time, contractCapacity *float64) (*baseline.Result, error) {
	priorDays, err := h.Store.PriorEventDays(c, customerID)
	if err != nil {
		return nil, err
	}

	engine := baseline.Engine{
		Repo: h.Store,
		Rules: calendar.RuleSet{
			Season:      calendar.BaselineSeason,
			Holidays:    h.Holidays,
			PriorEvents: calendar.NewDateSet(priorDays...),
		},
		Loc:           h.Loc,
		Days:          h.Program.BaselineDays,
		LookbackLimit: h.Program.LookbackLimitDays,
	}
	return engine.ComputeCBL(c, customerID, model.TimeWindow{Start: start, End: end}, contractCapacity)
}

func toDetail(res *baseline.Result) models.BaselineDetail {
	return models.BaselineDetail{
		CBL1KW:           round2(res.CBL1KW),
		AFKW:             round2(res.AFKW),
		CBL1PlusAFKW:     round2(res.CBL1PlusAFKW),
		CBL2KW:           round2(res.CBL2KW),
		CBLKW:            round2(res.CBLKW),
		HistAdjustAvgKW:  round2(res.HistAdjustAvgKW),
		TodayAdjustAvgKW: round2(res.TodayAdjustAvgKW),
	}
}

func formatDays(days []time.Time) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(model.DateKey)
	}
	return out
}

// round2 applies the 2-decimal response-boundary rounding; internal
// computation keeps full precision.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
	})
}

// respondEngineError maps typed engine failures onto HTTP statuses.
func respondEngineError(c *gin.Context, err error) {
	kind := model.KindOf(err)
	status := http.StatusInternalServerError
	code := string(kind)
	switch kind {
	case model.KindInvalidInput, model.KindOutOfSeason, model.KindRuleViolation,
		model.KindUnsupportedDuration, model.KindInsufficientHistory:
		status = http.StatusBadRequest
	case model.KindNoSamples:
		status = http.StatusUnprocessableEntity
	case model.KindNotFound:
		status = http.StatusNotFound
	default:
		code = "INTERNAL_ERROR"
	}
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
}
