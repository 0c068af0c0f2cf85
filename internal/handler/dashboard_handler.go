package handler

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/entity"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
)

// DashboardHandler serves the dashboard snapshots and recompute trigger.
type DashboardHandler struct {
	svc  *service.DashboardService
	refs *repository.ReferenceRepository
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(svc *service.DashboardService, refs *repository.ReferenceRepository) *DashboardHandler {
	return &DashboardHandler{svc: svc, refs: refs}
}

// snapshotOrEmpty reads one snapshot; a never-computed type renders as an
// empty array so the frontend always gets all three keys.
func (h *DashboardHandler) snapshotOrEmpty(c *gin.Context, resultType string, date *time.Time) (json.RawMessage, error) {
	payload, err := h.svc.GetCalculationResults(c.Request.Context(), resultType, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return json.RawMessage("[]"), nil
		}
		return nil, err
	}
	return json.RawMessage(payload), nil
}

// GetData handles GET /api/v1/dashboard/data. Optional ?date=YYYY-MM-DD
// selects a past snapshot; the default is today.
func (h *DashboardHandler) GetData(c *gin.Context) {
	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = &t
	}

	picPoints, err := h.snapshotOrEmpty(c, entity.ResultTypePICPoints, date)
	if err != nil {
		ServiceError(c, err)
		return
	}
	shipperTrend, err := h.snapshotOrEmpty(c, entity.ResultTypeShipperTrend, date)
	if err != nil {
		ServiceError(c, err)
		return
	}
	portTrend, err := h.snapshotOrEmpty(c, entity.ResultTypeLoadingPortTrend, date)
	if err != nil {
		ServiceError(c, err)
		return
	}

	at := time.Now()
	if date != nil {
		at = *date
	}
	Success(c, gin.H{
		"pic_points":         picPoints,
		"shipper_trend":      shipperTrend,
		"loading_port_trend": portTrend,
		"calculation_date":   at.UTC().Format("2006-01-02"),
	})
}

// GetResult handles GET /api/v1/dashboard/results/:type. Unlike GetData it
// does not mask a missing snapshot.
func (h *DashboardHandler) GetResult(c *gin.Context) {
	resultType := c.Param("type")
	switch resultType {
	case entity.ResultTypePICPoints, entity.ResultTypeShipperTrend, entity.ResultTypeLoadingPortTrend:
	default:
		BadRequest(c, "unknown result type: "+resultType)
		return
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = &t
	}

	payload, err := h.svc.GetCalculationResults(c.Request.Context(), resultType, date)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"result_type": resultType, "result_data": json.RawMessage(payload)})
}

// Calculate handles POST /api/v1/dashboard/calculate, the manual
// recompute trigger. It runs synchronously and reports the first failure.
func (h *DashboardHandler) Calculate(c *gin.Context) {
	if err := h.svc.RunAllCalculations(c.Request.Context()); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "dashboard recalculated"})
}

// PICPerformance handles GET /api/v1/dashboard/pic/:picId/performance.
// Optional start_date/end_date bound the window, default trailing 30 days.
func (h *DashboardHandler) PICPerformance(c *gin.Context) {
	picID := c.Param("picId")
	pic, err := h.refs.FindPICByID(c.Request.Context(), picID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			BadRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		start = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			BadRequest(c, "end_date must be YYYY-MM-DD")
			return
		}
		// include the whole end day
		end = t.Add(24*time.Hour - time.Nanosecond)
	}

	rows, err := h.svc.CalculatePICPerformance(c.Request.Context(), picID, start, end)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"pic":        pic,
		"activities": rows,
	})
}
