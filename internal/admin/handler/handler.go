package handler

import (
	"net/http"

	"maturity_backend/internal/admin/service"
	"maturity_backend/internal/admin/transport"
	"maturity_backend/platform/httpkit"
	"maturity_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

// Handler serves the admin lead views.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns leads newest first.
// GET /api/v1/admin/leads?search=
func (h *Handler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("search"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Detail returns one lead with its result, answers and follow-ups.
// GET /api/v1/admin/leads/:id
func (h *Handler) Detail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}
	resp, err := h.svc.Detail(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ExportCSV streams the filtered listing.
// GET /api/v1/admin/leads/export.csv?search=
func (h *Handler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+h.svc.ExportFilename()+`"`)
	c.Status(http.StatusOK)
	if err := h.svc.ExportCSV(c.Request.Context(), c.Query("search"), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// RequestPurge starts delete-all and returns the confirmation token.
// POST /api/v1/admin/leads/purge
func (h *Handler) RequestPurge(c *gin.Context) {
	resp, err := h.svc.RequestPurge(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ConfirmPurge deletes every lead.
// DELETE /api/v1/admin/leads
func (h *Handler) ConfirmPurge(c *gin.Context) {
	var req transport.PurgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if fields := h.val.Fields(req); fields != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, fields)
		return
	}

	resp, err := h.svc.ConfirmPurge(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}
