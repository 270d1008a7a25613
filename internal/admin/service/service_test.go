package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"maturity_backend/internal/admin/repository"
	"maturity_backend/internal/admin/transport"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	leadsrepo "maturity_backend/internal/leads/repository"
	"maturity_backend/internal/storage"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	rows    []repository.LeadRow
	deleted int
}

func (f *fakeRepo) ListLeads(context.Context) ([]repository.LeadRow, error) {
	return append([]repository.LeadRow(nil), f.rows...), nil
}

func (f *fakeRepo) CountLeads(context.Context) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeRepo) DeleteAllLeads(context.Context) (int64, error) {
	n := int64(len(f.rows))
	f.rows = nil
	f.deleted++
	return n, nil
}

type fakeReader struct {
	leads   map[uuid.UUID]leadsrepo.Lead
	results map[uuid.UUID]leadsrepo.MaturityResult
	rows    map[uuid.UUID][]leadsrepo.Response
}

func (f fakeReader) GetLead(_ context.Context, id uuid.UUID) (leadsrepo.Lead, error) {
	l, ok := f.leads[id]
	if !ok {
		return leadsrepo.Lead{}, leadsrepo.ErrNotFound
	}
	return l, nil
}

func (f fakeReader) GetResult(_ context.Context, id uuid.UUID) (leadsrepo.MaturityResult, error) {
	r, ok := f.results[id]
	if !ok {
		return leadsrepo.MaturityResult{}, leadsrepo.ErrNotFound
	}
	return r, nil
}

func (f fakeReader) ListResponses(_ context.Context, id uuid.UUID) ([]leadsrepo.Response, error) {
	return f.rows[id], nil
}

func ptr[T any](v T) *T { return &v }

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func sampleRows() []repository.LeadRow {
	return []repository.LeadRow{
		{
			ID: uuid.New(), Name: "José Araújo", Email: "jose@acme.com", Company: "Acme", JobTitle: "CEO",
			Phone: "+5511987654321", CreatedAt: time.Date(2025, 3, 10, 13, 5, 0, 0, time.UTC),
			OverallScore: ptr(3.26), MaturityLevel: ptr(3),
		},
		{
			ID: uuid.New(), Name: `Maria "Mary" Lima`, Email: "maria@beta.com", Company: "Beta, Comércio", JobTitle: "Diretora",
			Phone: "11 3333-4444", CreatedAt: time.Date(2025, 3, 9, 2, 0, 0, 0, time.UTC),
		},
	}
}

func newTestService(t *testing.T, repo *fakeRepo, reader fakeReader) (*Service, *events.InMemoryBus) {
	t.Helper()
	bus := events.NewInMemoryBus(logger.Discard())
	svc := New(Deps{
		Repo:     repo,
		Leads:    reader,
		Tokens:   repository.NewMemoryTokenStore(),
		TokenTTL: time.Minute,
		Catalog:  catalog.MustLoad(),
		Bus:      bus,
		Location: saoPaulo(t),
		BaseURL:  "https://diagnostico.example.com",
		Log:      logger.Discard(),
	})
	return svc, bus
}

func TestSearchIgnoresCaseAndAccents(t *testing.T) {
	rows := sampleRows()

	cases := map[string]int{
		"":         2,
		"jose":     1,
		"ARAUJO":   1,
		"comercio": 1,
		"beta.com": 1,
		"zzz":      0,
	}
	for term, want := range cases {
		if got := len(filterLeads(rows, term)); got != want {
			t.Fatalf("search %q: expected %d rows, got %d", term, want, got)
		}
	}
}

func TestWriteCSVQuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, sampleRows(), saoPaulo(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Fatalf("expected UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Name,Email,Company,Title,Phone,Registration Date,Overall Score,Maturity Level" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want1 := `"José Araújo","jose@acme.com","Acme","CEO","+5511987654321","10/03/2025 10:05","3.3","3"`
	if lines[1] != want1 {
		t.Fatalf("expected %q, got %q", want1, lines[1])
	}
	want2 := `"Maria ""Mary"" Lima","maria@beta.com","Beta, Comércio","Diretora","11 3333-4444","08/03/2025 23:00","N/A","N/A"`
	if lines[2] != want2 {
		t.Fatalf("expected %q, got %q", want2, lines[2])
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename(time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)); got != "leads-2025-07-04.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestDetailIncludesBadgeFollowUpsAndLinks(t *testing.T) {
	id := uuid.New()
	reader := fakeReader{
		leads: map[uuid.UUID]leadsrepo.Lead{id: {ID: id, Name: "Ana", Email: "ana@acme.com", Company: "Acme", Phone: "+55 (11) 98765-4321"}},
		results: map[uuid.UUID]leadsrepo.MaturityResult{id: {
			LeadID: id, OverallScore: 1.2, MaturityLevel: 1, CategoryScores: map[string]float64{},
		}},
		rows: map[uuid.UUID][]leadsrepo.Response{id: {{QuestionID: "q1", AnswerValue: 1}}},
	}
	svc, _ := newTestService(t, &fakeRepo{}, reader)

	d, err := svc.Detail(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(d.Lead.Badge, "Nível 1 - ") {
		t.Fatalf("unexpected badge %q", d.Lead.Badge)
	}
	if len(d.FollowUps) != 4 {
		t.Fatalf("expected 4 level 1 follow-ups, got %v", d.FollowUps)
	}
	if !strings.HasPrefix(d.WhatsAppURL, "https://wa.me/5511987654321?text=Ol%C3%A1%20Ana%21") {
		t.Fatalf("unexpected whatsapp link %q", d.WhatsAppURL)
	}
	if !strings.HasPrefix(d.MailtoURL, "mailto:ana@acme.com?subject=Seu%20Resultado") {
		t.Fatalf("unexpected mailto link %q", d.MailtoURL)
	}
	if len(d.Responses) != 1 || d.Result == nil || d.Profile == nil {
		t.Fatalf("expected result, profile and one response, got %+v", d)
	}
}

func TestDetailWithoutResult(t *testing.T) {
	id := uuid.New()
	reader := fakeReader{leads: map[uuid.UUID]leadsrepo.Lead{id: {ID: id, Name: "Ana"}}}
	svc, _ := newTestService(t, &fakeRepo{}, reader)

	d, err := svc.Detail(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Result != nil || d.Lead.Badge != "Sem resultado" {
		t.Fatalf("expected no result, got %+v", d)
	}

	if _, err := svc.Detail(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPurgeRequiresTokenAndLiteralConfirmation(t *testing.T) {
	repo := &fakeRepo{rows: sampleRows()}
	svc, bus := newTestService(t, repo, fakeReader{})
	var purged []events.LeadsPurged
	bus.Subscribe(events.LeadsPurged{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		purged = append(purged, e.(events.LeadsPurged))
		return nil
	}))
	ctx := context.Background()

	challenge, err := svc.RequestPurge(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if challenge.Count != 2 || challenge.Token == "" {
		t.Fatalf("unexpected challenge %+v", challenge)
	}

	for _, confirmation := range []string{"sim", "SIM ", "yes", "NÃO"} {
		_, err := svc.ConfirmPurge(ctx, transport.PurgeRequest{Token: challenge.Token, Confirmation: confirmation})
		if !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("confirmation %q: expected bad request, got %v", confirmation, err)
		}
	}
	if _, err := svc.ConfirmPurge(ctx, transport.PurgeRequest{Token: "bogus", Confirmation: "SIM"}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unknown token, got %v", err)
	}
	if repo.deleted != 0 {
		t.Fatalf("expected nothing deleted, got %d deletes", repo.deleted)
	}

	res, err := svc.ConfirmPurge(ctx, transport.PurgeRequest{Token: challenge.Token, Confirmation: "SIM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", res.Deleted)
	}

	_, err = svc.ConfirmPurge(ctx, transport.PurgeRequest{Token: challenge.Token, Confirmation: "SIM"})
	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) || domainErr.Message != msgInvalidToken {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}

	bus.Wait()
	if len(purged) != 1 || purged[0].Deleted != 2 {
		t.Fatalf("expected one LeadsPurged event, got %+v", purged)
	}
}

func TestDetailLinksArchivedReport(t *testing.T) {
	id := uuid.New()
	reader := fakeReader{leads: map[uuid.UUID]leadsrepo.Lead{id: {ID: id, Name: "Ana"}}}
	svc, _ := newTestService(t, &fakeRepo{}, reader)
	archive := storage.NewMemoryArchive()
	svc.archive = archive

	d, _ := svc.Detail(context.Background(), id)
	if d.ArchivedReportURL != "" {
		t.Fatalf("expected no link before archiving, got %q", d.ArchivedReportURL)
	}

	_, _ = archive.PutReport(context.Background(), id, []byte("%PDF"))
	d, _ = svc.Detail(context.Background(), id)
	if d.ArchivedReportURL != "memory://"+storage.ReportKey(id) {
		t.Fatalf("unexpected link %q", d.ArchivedReportURL)
	}
}
