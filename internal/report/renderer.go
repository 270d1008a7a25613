package report

import (
	"context"
	"io"
	"time"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/metrics"
	"maturity_backend/platform/logger"
)

// Renderer binds the catalog, branding settings and optional logo.
type Renderer struct {
	cat      *catalog.Catalog
	settings Settings
	logo     *LogoFetcher
	log      *logger.Logger
	now      func() time.Time
}

// NewRenderer creates a renderer. The logo is fetched lazily on the first PDF.
func NewRenderer(cat *catalog.Catalog, settings Settings, log *logger.Logger) *Renderer {
	return &Renderer{
		cat:      cat,
		settings: settings,
		logo:     NewLogoFetcher(settings.LogoURL),
		log:      log,
		now:      time.Now,
	}
}

// View builds the shared view model for result.
func (r *Renderer) View(result assessment.Result, lead *Lead) View {
	return NewView(result, r.cat, lead, r.settings, r.now())
}

// HTML writes the screen view.
func (r *Renderer) HTML(w io.Writer, v View) error {
	if err := RenderHTML(w, v); err != nil {
		return err
	}
	metrics.ReportsRendered.WithLabelValues("html").Inc()
	return nil
}

// PDF renders the document view. Logo and QR failures degrade silently.
func (r *Renderer) PDF(ctx context.Context, v View) ([]byte, error) {
	var assets Assets

	logo, err := r.logo.Get(ctx)
	if err != nil {
		r.log.WithContext(ctx).Warn("report logo unavailable, using wordmark", "error", err)
	}
	assets.Logo = logo

	if url := v.ShareURL(); url != "" {
		qr, err := qrPNG(url)
		if err != nil {
			r.log.WithContext(ctx).Warn("report qr code skipped", "error", err)
		}
		assets.QR = qr
	}

	out, err := RenderPDF(v, assets)
	if err != nil {
		return nil, err
	}
	metrics.ReportsRendered.WithLabelValues("pdf").Inc()
	return out, nil
}
