package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dayselect-dr/internal/api/models"
	"dayselect-dr/internal/model"
	"dayselect-dr/internal/store"
)

// MeterHandler handles meter sample ingestion.
type MeterHandler struct {
	Store store.Store
}

func NewMeterHandler(st store.Store) *MeterHandler {
	return &MeterHandler{Store: st}
}

// IngestBatch handles POST /api/v1/meter-data/batch
func (h *MeterHandler) IngestBatch(c *gin.Context) {
	var req models.BulkMeterIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	samples := make([]model.Sample, len(req.Records))
	for i, r := range req.Records {
		samples[i] = model.Sample{CustomerID: r.CustomerID, Timestamp: r.Timestamp, KW: r.KW}
	}

	inserted, err := h.Store.AddSamples(c, samples)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.IngestResponse{Status: "ok", Inserted: inserted})
}
