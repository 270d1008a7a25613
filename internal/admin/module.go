// Package admin provides the admin bounded context: the lead listing,
// CSV export, per-lead detail and the two-step delete-all.
package admin

import (
	"time"

	"maturity_backend/internal/admin/handler"
	"maturity_backend/internal/admin/repository"
	"maturity_backend/internal/admin/service"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	apphttp "maturity_backend/internal/http"
	leadsrepo "maturity_backend/internal/leads/repository"
	"maturity_backend/internal/storage"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Config is what the admin module reads from the environment.
type Config interface {
	GetPurgeTokenTTL() time.Duration
	GetTimezone() *time.Location
	GetAppBaseURL() string
}

// Module is the admin bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the admin module. A nil rdb keeps purge tokens in
// memory and a nil archive leaves archived report links out of the detail.
func NewModule(
	repo repository.Repository,
	leads leadsrepo.LeadReader,
	rdb *redis.Client,
	archive storage.ReportArchive,
	cfg Config,
	cat *catalog.Catalog,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	var tokens repository.TokenStore = repository.NewMemoryTokenStore()
	if rdb != nil {
		tokens = repository.NewRedisTokenStore(rdb)
	}

	svc := service.New(service.Deps{
		Repo:     repo,
		Leads:    leads,
		Tokens:   tokens,
		TokenTTL: cfg.GetPurgeTokenTTL(),
		Archive:  archive,
		Catalog:  cat,
		Bus:      bus,
		Location: cfg.GetTimezone(),
		BaseURL:  cfg.GetAppBaseURL(),
		Log:      log,
	})
	return &Module{handler: handler.New(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "admin"
}

// RegisterRoutes mounts admin routes. They are unguarded; deploy them
// behind network-level access control.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	g := ctx.Admin.Group("/leads")
	g.GET("", m.handler.List)
	g.GET("/export.csv", m.handler.ExportCSV)
	g.GET("/:id", m.handler.Detail)
	g.POST("/purge", m.handler.RequestPurge)
	g.DELETE("", m.handler.ConfirmPurge)
}

var _ apphttp.Module = (*Module)(nil)
