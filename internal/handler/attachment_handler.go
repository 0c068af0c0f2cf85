package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
)

// 20MB per file
const maxAttachmentSize = 20 << 20

// AttachmentHandler serves attachment upload, listing and deletion.
type AttachmentHandler struct {
	svc *service.AttachmentService
}

// NewAttachmentHandler creates the attachment handler.
func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

// Upload handles POST /api/v1/activities/:id/attachments (multipart field "file").
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		BadRequest(c, "file exceeds the 20MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	attachment, err := h.svc.Upload(c.Request.Context(),
		c.Param("id"), GetUserID(c),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"),
		fileHeader.Size, file)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, attachment)
}

// List handles GET /api/v1/activities/:id/attachments.
func (h *AttachmentHandler) List(c *gin.Context) {
	attachments, err := h.svc.ListByActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": attachments})
}

// Download handles GET /api/v1/attachments/:id/download.
func (h *AttachmentHandler) Download(c *gin.Context) {
	attachment, reader, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	contentType := attachment.FileType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// Delete handles DELETE /api/v1/attachments/:id.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "attachment deleted"})
}
