// Package quiz provides the quiz session bounded context: the multi-step
// questionnaire flow driven over HTTP with collector state kept in a
// short-lived session store.
package quiz

import (
	"time"

	"maturity_backend/internal/catalog"
	apphttp "maturity_backend/internal/http"
	"maturity_backend/internal/quiz/handler"
	"maturity_backend/internal/quiz/repository"
	"maturity_backend/internal/quiz/service"
	"maturity_backend/internal/report"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the quiz bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the quiz module. A nil rdb selects the in-process store.
func NewModule(rdb *redis.Client, ttl time.Duration, cat *catalog.Catalog, renderer *report.Renderer, val *validator.Validator, log *logger.Logger) *Module {
	var store repository.SessionStore
	if rdb != nil {
		store = repository.NewRedisStore(rdb, ttl)
	} else {
		store = repository.NewMemoryStore(ttl)
	}

	svc := service.New(store, cat, log)
	return &Module{
		handler: handler.New(svc, renderer, val, log),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "quiz"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts quiz routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.V1.Group("/quiz")
	g.GET("/catalog", m.handler.Catalog)
	g.POST("/evaluate", m.handler.Evaluate)
	g.POST("/sessions", m.handler.Start)
	g.GET("/sessions/:id", m.handler.Get)
	g.PUT("/sessions/:id/answer", m.handler.Answer)
	g.POST("/sessions/:id/next", m.handler.Next)
	g.POST("/sessions/:id/previous", m.handler.Previous)

	ctx.Engine.GET("/resultado", m.handler.Result)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
