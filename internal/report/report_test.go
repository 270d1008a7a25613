package report

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/platform/logger"

	"github.com/google/uuid"
)

func answersAll(cat *catalog.Catalog, value string) map[string]string {
	out := make(map[string]string)
	for _, q := range cat.Questions() {
		out[q.ID] = value
	}
	return out
}

func testSettings(t *testing.T) Settings {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return Settings{
		BrandName:      "MASTERVENDAS",
		AppBaseURL:     "https://diagnostico.example.com",
		ContactEmail:   "contato@example.com",
		ContactPhone:   "(11) 99999-9999",
		ContactWebsite: "www.example.com",
		Location:       loc,
	}
}

func TestNewViewDerivesFromSingleResult(t *testing.T) {
	cat := catalog.MustLoad()
	result := assessment.Evaluate(answersAll(cat, "3"), cat)
	now := time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)

	v := NewView(result, cat, nil, testSettings(t), now)

	if len(v.Categories) != len(cat.Categories()) {
		t.Fatalf("expected %d categories, got %d", len(cat.Categories()), len(v.Categories))
	}
	if v.Categories[0].Number != 1 || v.Categories[0].Percent != 60 {
		t.Fatalf("unexpected first category %+v", v.Categories[0])
	}
	if v.NextLevel == nil || v.NextLevel.ID != 4 {
		t.Fatalf("expected next level 4, got %+v", v.NextLevel)
	}
	if got := v.GeneratedDate(); got != "31/12/2025" {
		t.Fatalf("expected date in report timezone, got %s", got)
	}
	if v.ShareURL() != "" {
		t.Fatalf("expected no share url for anonymous result")
	}
}

func TestNewViewTopLevelHasNoNextLevel(t *testing.T) {
	cat := catalog.MustLoad()
	result := assessment.Evaluate(answersAll(cat, "5"), cat)

	v := NewView(result, cat, nil, testSettings(t), time.Now())

	if v.NextLevel != nil {
		t.Fatalf("expected no next level at level 5")
	}
	if !strings.HasPrefix(v.LevelHeading(), "NÍVEL 5 - ") {
		t.Fatalf("unexpected heading %q", v.LevelHeading())
	}
}

func TestRenderHTMLIncludesRadarAndEscapesLead(t *testing.T) {
	cat := catalog.MustLoad()
	result := assessment.Evaluate(answersAll(cat, "2"), cat)
	lead := &Lead{ID: uuid.New(), Name: "Ana", Company: "<script>alert(1)</script>"}
	v := NewView(result, cat, lead, testSettings(t), time.Now())

	var buf bytes.Buffer
	if err := RenderHTML(&buf, v); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatalf("expected lead company to be escaped")
	}
	if !strings.Contains(html, cat.Categories()[0].Name) {
		t.Fatalf("expected category names in output")
	}
	if got := strings.Count(html, "<polygon"); got != 6 {
		t.Fatalf("expected 5 rings and 1 score polygon, got %d", got)
	}
	if !strings.Contains(html, "Recomendações para Evolução") {
		t.Fatalf("expected recommendations section")
	}
	if !strings.Contains(html, v.PDFURL()) {
		t.Fatalf("expected pdf download link")
	}
}

func TestRenderPDFHasFourPages(t *testing.T) {
	cat := catalog.MustLoad()
	result := assessment.Evaluate(answersAll(cat, "1"), cat)
	lead := &Lead{ID: uuid.New(), Name: "João", Company: "Ação Ltda"}
	v := NewView(result, cat, lead, testSettings(t), time.Now())

	qr, err := qrPNG(v.ShareURL())
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	out, err := RenderPDF(v, Assets{QR: qr})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("expected pdf header")
	}
	if got := bytes.Count(out, []byte("<</Type /Page\n")); got != 4 {
		t.Fatalf("expected 4 pages, got %d", got)
	}
}

func TestRendererPDFFallsBackWhenLogoFails(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cat := catalog.MustLoad()
	s := testSettings(t)
	s.LogoURL = srv.URL + "/logo.png"
	r := NewRenderer(cat, s, logger.Discard())
	v := r.View(assessment.Evaluate(answersAll(cat, "4"), cat), &Lead{ID: uuid.New(), Name: "Ana"})

	for i := 0; i < 2; i++ {
		out, err := r.PDF(context.Background(), v)
		if err != nil || len(out) == 0 {
			t.Fatalf("expected pdf despite logo failure, got %v", err)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected a single logo request, got %d", got)
	}
}

func TestImageType(t *testing.T) {
	cases := []struct {
		contentType, url, want string
	}{
		{"image/png", "https://x/logo", "PNG"},
		{"image/jpeg; charset=binary", "https://x/logo", "JPG"},
		{"application/octet-stream", "https://x/logo.JPEG?v=2", "JPG"},
		{"image/svg+xml", "https://x/logo.svg", ""},
	}
	for _, tc := range cases {
		if got := imageType(tc.contentType, tc.url); got != tc.want {
			t.Fatalf("imageType(%q, %q): expected %q, got %q", tc.contentType, tc.url, tc.want, got)
		}
	}
}
