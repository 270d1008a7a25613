// Package leads provides the lead capture bounded context: the contact
// form that unlocks the diagnostic document, its persistence gateway and
// the stored report views.
package leads

import (
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	apphttp "maturity_backend/internal/http"
	"maturity_backend/internal/leads/handler"
	"maturity_backend/internal/leads/repository"
	"maturity_backend/internal/leads/service"
	"maturity_backend/internal/report"
	"maturity_backend/platform/config"
	"maturity_backend/platform/httpkit"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Config is what the leads module reads from the environment.
type Config interface {
	config.RateLimitConfig
	config.SessionConfig
	GetAppBaseURL() string
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	limiter *httpkit.IPRateLimiter
}

// NewModule wires the leads module. A nil rdb keeps the in-flight guard
// in process memory.
func NewModule(
	repo repository.Repository,
	rdb *redis.Client,
	cfg Config,
	cat *catalog.Catalog,
	quiz service.QuizResults,
	renderer *report.Renderer,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	var guard service.Guard = service.NewLocalGuard()
	if rdb != nil {
		guard = service.NewRedisGuard(rdb)
	}

	svc := service.New(service.Deps{
		Repo:    repo,
		Guard:   guard,
		LockTTL: cfg.GetSubmitLockTTL(),
		Quiz:    quiz,
		Catalog: cat,
		Val:     val,
		Bus:     bus,
		BaseURL: cfg.GetAppBaseURL(),
		Log:     log,
	})

	return &Module{
		handler: handler.New(svc, renderer, log),
		service: svc,
		limiter: httpkit.PerMinute(cfg.GetLeadSubmitRatePerMinute(), cfg.GetLeadSubmitBurst(), log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/leads")
	g.POST("", m.limiter.RateLimit(), m.handler.Submit)
	g.GET("/:id/report", m.handler.Report)
	g.GET("/:id/report.pdf", m.handler.ReportPDF)

	ctx.Engine.GET("/r/:id", m.handler.Shared)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
