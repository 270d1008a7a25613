package handler

import (
	"net/http"

	"maturity_backend/internal/quiz/service"
	"maturity_backend/internal/quiz/transport"
	"maturity_backend/internal/report"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/httpkit"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for quiz sessions.
type Handler struct {
	svc      *service.Service
	renderer *report.Renderer
	val      *validator.Validator
	log      *logger.Logger
}

// New creates a new quiz handler.
func New(svc *service.Service, renderer *report.Renderer, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, renderer: renderer, val: val, log: log}
}

// Catalog returns categories, questions and level profiles.
// GET /api/v1/quiz/catalog
func (h *Handler) Catalog(c *gin.Context) {
	httpkit.OK(c, h.svc.Catalog())
}

// Start opens a new session.
// POST /api/v1/quiz/sessions
func (h *Handler) Start(c *gin.Context) {
	resp, err := h.svc.Start(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// Get returns the session state.
// GET /api/v1/quiz/sessions/:id
func (h *Handler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Answer records an answer for a question.
// PUT /api/v1/quiz/sessions/:id/answer
func (h *Handler) Answer(c *gin.Context) {
	var req transport.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if fields := h.val.Fields(req); fields != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, fields)
		return
	}

	resp, err := h.svc.Answer(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Next advances to the next question or completes the quiz.
// POST /api/v1/quiz/sessions/:id/next
func (h *Handler) Next(c *gin.Context) {
	resp, err := h.svc.Next(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Previous goes back one question.
// POST /api/v1/quiz/sessions/:id/previous
func (h *Handler) Previous(c *gin.Context) {
	resp, err := h.svc.Previous(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Evaluate scores an answer set directly.
// POST /api/v1/quiz/evaluate
func (h *Handler) Evaluate(c *gin.Context) {
	var req transport.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if fields := h.val.Fields(req); fields != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, fields)
		return
	}
	httpkit.OK(c, h.svc.Evaluate(req.Answers))
}

// Result renders the screen view of a completed session. Without a
// completed session there is nothing to show and the client is sent home.
// GET /resultado?session=
func (h *Handler) Result(c *gin.Context) {
	id := c.Query("session")
	if id == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	result, _, err := h.svc.CompletedResult(c.Request.Context(), id)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) && !apperr.Is(err, apperr.KindPrecondition) {
			h.log.WithContext(c.Request.Context()).Error("load quiz result failed", "error", err)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.HTML(c.Writer, h.renderer.View(result, nil)); err != nil {
		_ = c.Error(err)
	}
}
