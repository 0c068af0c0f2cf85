package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/repository"
)

// ReferenceHandler serves the dimension lookup lists the activity form
// autocompletes against.
type ReferenceHandler struct {
	refs *repository.ReferenceRepository
}

// NewReferenceHandler creates the reference handler.
func NewReferenceHandler(refs *repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{refs: refs}
}

func (h *ReferenceHandler) ListVessels(c *gin.Context) {
	rows, err := h.refs.ListVessels(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

func (h *ReferenceHandler) ListPICs(c *gin.Context) {
	rows, err := h.refs.ListPICs(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

func (h *ReferenceHandler) ListShippers(c *gin.Context) {
	rows, err := h.refs.ListShippers(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

func (h *ReferenceHandler) ListBuyers(c *gin.Context) {
	rows, err := h.refs.ListBuyers(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

func (h *ReferenceHandler) ListLoadingPorts(c *gin.Context) {
	rows, err := h.refs.ListLoadingPorts(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}

func (h *ReferenceHandler) ListDischargingPorts(c *gin.Context) {
	rows, err := h.refs.ListDischargingPorts(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": rows})
}
