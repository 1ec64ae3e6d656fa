// File: handlers/complaint.go
package handlers

import (
	"net/http"
	"time"

	"mauryaelectronics/services/complaint"
	"mauryaelectronics/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ComplaintHandler exposes the complaint lifecycle over HTTP.
type ComplaintHandler struct {
	Svc    complaint.ComplaintService
	Logger *zap.Logger
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(svc complaint.ComplaintService, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{Svc: svc, Logger: logger}
}

func actorID(c *gin.Context) string {
	if v, ok := c.Get("staffID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// CreateComplaintHandler registers a single complaint.
func (h *ComplaintHandler) CreateComplaintHandler(c *gin.Context) {
	var in complaint.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	in.CreatedBy = actorID(c)

	detail, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// CreateBatchHandler registers multiple complaints in one call (multi-service
// registration); numbering comes from one contiguous block.
func (h *ComplaintHandler) CreateBatchHandler(c *gin.Context) {
	var input struct {
		Complaints []complaint.CreateInput `json:"complaints"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	by := actorID(c)
	for i := range input.Complaints {
		input.Complaints[i].CreatedBy = by
	}

	created, err := h.Svc.CreateBatch(c.Request.Context(), input.Complaints)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": created})
}

// GetComplaintHandler returns the assembled complaint view.
func (h *ComplaintHandler) GetComplaintHandler(c *gin.Context) {
	detail, err := h.Svc.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListComplaintsHandler supports optional status, technician and date-range filters.
func (h *ComplaintHandler) ListComplaintsHandler(c *gin.Context) {
	q := complaint.ListQuery{
		Status:       c.Query("status"),
		TechnicianID: c.Query("technician_id"),
	}
	if start, end := c.Query("start"), c.Query("end"); start != "" && end != "" {
		s, err := time.Parse("2006-01-02", start)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid start date", err.Error())
			return
		}
		e, err := time.Parse("2006-01-02", end)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid end date", err.Error())
			return
		}
		e = e.Add(24*time.Hour - time.Millisecond)
		q.Start, q.End = &s, &e
	}

	list, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateComplaintHandler applies a whitelisted partial update.
func (h *ComplaintHandler) UpdateComplaintHandler(c *gin.Context) {
	var in complaint.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	in.Actor = actorID(c)

	detail, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ChangeStatusHandler applies a direct lifecycle transition.
func (h *ComplaintHandler) ChangeStatusHandler(c *gin.Context) {
	var input struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if input.Status == "" {
		utils.JSONError(c, http.StatusBadRequest, "status required", "")
		return
	}

	updated, err := h.Svc.ChangeStatus(c.Request.Context(), c.Param("id"), input.Status, actorID(c), input.Note)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaint": updated})
}

// DeleteComplaintHandler removes a complaint and its satellites.
func (h *ComplaintHandler) DeleteComplaintHandler(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	h.Logger.Info("complaint deleted", zap.String("id", c.Param("id")), zap.String("by", actorID(c)))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
