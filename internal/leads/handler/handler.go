package handler

import (
	"net/http"

	"maturity_backend/internal/leads/service"
	"maturity_backend/internal/leads/transport"
	"maturity_backend/internal/report"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/httpkit"
	"maturity_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLeadID  = "invalid lead id"
	pdfFilename       = "diagnostico-maturidade-vendas.pdf"
)

// Handler handles HTTP requests for lead capture and stored reports.
type Handler struct {
	svc      *service.Service
	renderer *report.Renderer
	log      *logger.Logger
}

// New creates a new leads handler.
func New(svc *service.Service, renderer *report.Renderer, log *logger.Logger) *Handler {
	return &Handler{svc: svc, renderer: renderer, log: log}
}

// Submit captures the lead form.
// POST /api/v1/leads
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// Report returns the stored result of a lead as JSON.
// GET /api/v1/leads/:id/report
func (h *Handler) Report(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, result, err := h.svc.Report(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.LeadReportResponse{
		LeadID:  lead.ID,
		Name:    lead.Name,
		Company: lead.Company,
		Result:  result,
	})
}

// ReportPDF streams the printable document of a lead.
// GET /api/v1/leads/:id/report.pdf
func (h *Handler) ReportPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lead, result, err := h.svc.Report(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	pdf, err := h.renderer.PDF(c.Request.Context(), h.renderer.View(result, &lead))
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "Erro ao gerar PDF. Tente novamente.", err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+pdfFilename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Shared renders the screen view of a stored lead for share links.
// GET /r/:id
func (h *Handler) Shared(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	lead, result, err := h.svc.Report(c.Request.Context(), id)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			h.log.WithContext(c.Request.Context()).Error("load shared report failed", "error", err)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.HTML(c.Writer, h.renderer.View(result, &lead)); err != nil {
		_ = c.Error(err)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}
