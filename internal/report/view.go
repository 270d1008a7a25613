// Package report renders the scored assessment as an HTML screen view and
// as a four-page PDF document. Both renderers consume the same View built
// from one assessment.Result and never rescore.
package report

import (
	"fmt"
	"strings"
	"time"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/platform/config"

	"github.com/google/uuid"
)

// Settings carries branding and contact details printed on every report.
type Settings struct {
	BrandName      string
	AppBaseURL     string
	LogoURL        string
	ContactEmail   string
	ContactPhone   string
	ContactWebsite string
	Location       *time.Location
}

// SettingsFromConfig copies the report settings out of the app config.
func SettingsFromConfig(cfg config.ReportConfig) Settings {
	return Settings{
		BrandName:      cfg.GetBrandName(),
		AppBaseURL:     cfg.GetAppBaseURL(),
		LogoURL:        cfg.GetLogoURL(),
		ContactEmail:   cfg.GetContactEmail(),
		ContactPhone:   cfg.GetContactPhone(),
		ContactWebsite: cfg.GetContactWebsite(),
		Location:       cfg.GetTimezone(),
	}
}

// Lead identifies the respondent on a persisted report.
type Lead struct {
	ID      uuid.UUID
	Name    string
	Company string
	Email   string
}

// CategoryView is one numbered row of the per-category analysis.
type CategoryView struct {
	Number  int
	ID      string
	Name    string
	Score   float64
	Percent float64
}

// View is everything both renderers need.
type View struct {
	Settings        Settings
	Lead            *Lead
	GeneratedAt     time.Time
	Scores          assessment.Scores
	Profile         catalog.LevelProfile
	NextLevel       *catalog.LevelProfile
	Categories      []CategoryView
	Recommendations []assessment.Recommendation
}

// NewView derives the shared view model. lead is nil for anonymous results.
func NewView(result assessment.Result, cat *catalog.Catalog, lead *Lead, s Settings, now time.Time) View {
	v := View{
		Settings:        s,
		Lead:            lead,
		GeneratedAt:     now,
		Scores:          result.Scores,
		Profile:         result.Profile,
		Recommendations: result.Recommendations,
	}
	if next := result.Scores.Level + 1; next >= catalog.MinValue && next <= catalog.MaxValue {
		p := cat.Level(next)
		v.NextLevel = &p
	}
	for i, c := range result.Scores.PerCategory {
		v.Categories = append(v.Categories, CategoryView{
			Number:  i + 1,
			ID:      c.CategoryID,
			Name:    c.Name,
			Score:   c.Score,
			Percent: c.Score / catalog.MaxValue * 100,
		})
	}
	return v
}

// GeneratedDate is the dd/mm/yyyy date in the configured timezone.
func (v View) GeneratedDate() string {
	t := v.GeneratedAt
	if v.Settings.Location != nil {
		t = t.In(v.Settings.Location)
	}
	return t.Format("02/01/2006")
}

// LevelHeading is "NÍVEL n - NAME".
func (v View) LevelHeading() string {
	return fmt.Sprintf("NÍVEL %d - %s", v.Profile.ID, strings.ToUpper(v.Profile.Name))
}

// ShareURL points at the shareable HTML report of a persisted lead.
func (v View) ShareURL() string {
	if v.Lead == nil || v.Settings.AppBaseURL == "" {
		return ""
	}
	return strings.TrimRight(v.Settings.AppBaseURL, "/") + "/r/" + v.Lead.ID.String()
}

// PDFURL is the download link of the document view for a persisted lead.
func (v View) PDFURL() string {
	if v.Lead == nil {
		return ""
	}
	return "/api/v1/leads/" + v.Lead.ID.String() + "/report.pdf"
}

func formatScore(s float64) string {
	return fmt.Sprintf("%.1f", s)
}

func formatEfficiency(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
