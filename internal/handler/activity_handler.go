package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
)

// ActivityHandler serves the activity ledger endpoints.
type ActivityHandler struct {
	svc *service.ActivityService
}

// NewActivityHandler creates the activity handler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

// Create handles POST /api/v1/activities.
func (h *ActivityHandler) Create(c *gin.Context) {
	var req service.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	activity, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, activity)
}

// List handles GET /api/v1/activities.
func (h *ActivityHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"vessel": c.Query("vessel"),
		"pic":    c.Query("pic"),
		"status": c.Query("status"),
	}

	activities, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, gin.H{
		"items": activities,
		"pagination": Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// Get handles GET /api/v1/activities/:id.
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, activity)
}

// Update handles PUT /api/v1/activities/:id.
func (h *ActivityHandler) Update(c *gin.Context) {
	var req service.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	activity, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, activity)
}

// Delete handles DELETE /api/v1/activities/:id.
func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "activity deleted"})
}

// Export handles GET /api/v1/activities/export.
func (h *ActivityHandler) Export(c *gin.Context) {
	filters := map[string]interface{}{
		"vessel": c.Query("vessel"),
		"pic":    c.Query("pic"),
		"status": c.Query("status"),
	}

	f, err := h.svc.ExportXLSX(c.Request.Context(), filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	fileName := fmt.Sprintf("activities_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
