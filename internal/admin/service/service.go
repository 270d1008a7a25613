// Package service implements the admin use cases: listing, search, CSV
// export, per-lead detail and the confirmed delete-all.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"maturity_backend/internal/admin/repository"
	"maturity_backend/internal/admin/transport"
	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	leadsrepo "maturity_backend/internal/leads/repository"
	"maturity_backend/internal/storage"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PurgeConfirmation is the literal the operator must type to delete everything.
const PurgeConfirmation = "SIM"

const (
	msgInvalidConfirmation = "Exclusão cancelada"
	msgInvalidToken        = "Token de confirmação inválido ou expirado"
	msgNoResult            = "Sem resultado"
	whatsAppTemplate       = "Olá %s! Tudo bem? Vimos seu resultado no diagnóstico de maturidade em vendas B2B e gostaria de conversar sobre oportunidades para sua empresa."
	mailSubject            = "Seu Resultado - Diagnóstico de Maturidade em Vendas B2B"
	mailBodyTemplate       = "Olá %s,\n\nSeu diagnóstico foi concluído! Veja o resultado em: %s\n\nGostaria de conversar sobre oportunidades para sua empresa."
)

// Service runs the admin use cases.
type Service struct {
	repo     repository.Repository
	leads    leadsrepo.LeadReader
	tokens   repository.TokenStore
	tokenTTL time.Duration
	archive  storage.ReportArchive
	cat      *catalog.Catalog
	bus      events.Bus
	loc      *time.Location
	baseURL  string
	log      *logger.Logger
	now      func() time.Time
}

// Deps groups the collaborators of the admin service.
type Deps struct {
	Repo     repository.Repository
	Leads    leadsrepo.LeadReader
	Tokens   repository.TokenStore
	TokenTTL time.Duration
	Archive  storage.ReportArchive // optional
	Catalog  *catalog.Catalog
	Bus      events.Bus
	Location *time.Location
	BaseURL  string
	Log      *logger.Logger
}

func New(d Deps) *Service {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     d.Repo,
		leads:    d.Leads,
		tokens:   d.Tokens,
		tokenTTL: d.TokenTTL,
		archive:  d.Archive,
		cat:      d.Catalog,
		bus:      d.Bus,
		loc:      loc,
		baseURL:  strings.TrimRight(d.BaseURL, "/"),
		log:      d.Log,
		now:      time.Now,
	}
}

// List returns leads newest first, filtered by search.
func (s *Service) List(ctx context.Context, search string) (transport.LeadListResponse, error) {
	rows, err := s.repo.ListLeads(ctx)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	rows = filterLeads(rows, search)

	items := make([]transport.LeadSummary, 0, len(rows))
	for _, r := range rows {
		items = append(items, s.summary(r))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// ExportCSV writes the filtered listing as CSV.
func (s *Service) ExportCSV(ctx context.Context, search string, w io.Writer) error {
	rows, err := s.repo.ListLeads(ctx)
	if err != nil {
		return err
	}
	return writeCSV(w, filterLeads(rows, search), s.loc)
}

// ExportFilename names today's export in the configured time zone.
func (s *Service) ExportFilename() string {
	return ExportFilename(s.now().In(s.loc))
}

// Detail loads a lead with its result and answers.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (transport.LeadDetail, error) {
	var (
		lead      leadsrepo.Lead
		result    *leadsrepo.MaturityResult
		responses []leadsrepo.Response
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l, err := s.leads.GetLead(gctx, id)
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return apperr.NotFound("lead not found")
		}
		lead = l
		return err
	})
	g.Go(func() error {
		r, err := s.leads.GetResult(gctx, id)
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		result = &r
		return nil
	})
	g.Go(func() error {
		rows, err := s.leads.ListResponses(gctx, id)
		responses = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.LeadDetail{}, err
	}

	row := repository.LeadRow{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Company:   lead.Company,
		JobTitle:  lead.JobTitle,
		Phone:     lead.Phone,
		CreatedAt: lead.CreatedAt,
	}
	detail := transport.LeadDetail{
		Responses:   make([]transport.ResponseItem, 0, len(responses)),
		FollowUps:   []string{},
		WhatsAppURL: whatsAppURL(lead.Name, lead.Phone),
		ShareURL:    s.baseURL + "/r/" + lead.ID.String(),
	}
	detail.MailtoURL = mailtoURL(lead.Name, lead.Email, detail.ShareURL)

	if result != nil {
		row.OverallScore = &result.OverallScore
		row.MaturityLevel = &result.MaturityLevel
		profile := s.cat.Level(result.MaturityLevel)
		detail.Profile = &profile
		detail.FollowUps = assessment.FollowUps(result.MaturityLevel, s.cat)
		detail.Result = &transport.ResultItem{
			OverallScore:   result.OverallScore,
			MaturityLevel:  result.MaturityLevel,
			CategoryScores: result.CategoryScores,
			CreatedAt:      result.CreatedAt,
		}
	}
	detail.Lead = s.summary(row)
	detail.ArchivedReportURL = s.archivedURL(ctx, id)

	for _, r := range responses {
		detail.Responses = append(detail.Responses, transport.ResponseItem{
			QuestionID:   r.QuestionID,
			QuestionText: r.QuestionText,
			AnswerValue:  r.AnswerValue,
			Category:     r.Category,
		})
	}
	return detail, nil
}

// RequestPurge issues a confirmation token for delete-all.
func (s *Service) RequestPurge(ctx context.Context) (transport.PurgeChallenge, error) {
	count, err := s.repo.CountLeads(ctx)
	if err != nil {
		return transport.PurgeChallenge{}, err
	}
	token, err := s.tokens.Issue(ctx, s.tokenTTL)
	if err != nil {
		return transport.PurgeChallenge{}, err
	}
	return transport.PurgeChallenge{
		Token:     token,
		Count:     count,
		ExpiresAt: s.now().Add(s.tokenTTL).UTC(),
		Prompt:    fmt.Sprintf("Tem certeza que deseja deletar TODOS os %d leads? Digite \"%s\" para confirmar.", count, PurgeConfirmation),
	}, nil
}

// ConfirmPurge deletes every lead when the token is live and the
// confirmation is exactly SIM. A wrong confirmation leaves the token usable.
func (s *Service) ConfirmPurge(ctx context.Context, req transport.PurgeRequest) (transport.PurgeResult, error) {
	if req.Confirmation != PurgeConfirmation {
		return transport.PurgeResult{}, apperr.BadRequest(msgInvalidConfirmation)
	}
	ok, err := s.tokens.Consume(ctx, req.Token)
	if err != nil {
		return transport.PurgeResult{}, err
	}
	if !ok {
		return transport.PurgeResult{}, apperr.BadRequest(msgInvalidToken)
	}

	deleted, err := s.repo.DeleteAllLeads(ctx)
	if err != nil {
		s.log.DatabaseError("admin.purge", err)
		return transport.PurgeResult{}, err
	}
	s.log.WithContext(ctx).Warn("all leads deleted", "deleted", deleted)
	s.bus.Publish(ctx, events.LeadsPurged{BaseEvent: events.NewBaseEvent(), Deleted: deleted})
	return transport.PurgeResult{Deleted: deleted}, nil
}

// archivedURL links the document the delivery job stored, if any.
func (s *Service) archivedURL(ctx context.Context, id uuid.UUID) string {
	if s.archive == nil {
		return ""
	}
	link, err := s.archive.ReportURL(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotArchived) {
			s.log.WithContext(ctx).Warn("presign archived report failed", "leadId", id, "error", err)
		}
		return ""
	}
	return link.URL
}

func (s *Service) summary(r repository.LeadRow) transport.LeadSummary {
	return transport.LeadSummary{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Company:       r.Company,
		JobTitle:      r.JobTitle,
		Phone:         r.Phone,
		CreatedAt:     r.CreatedAt,
		OverallScore:  r.OverallScore,
		MaturityLevel: r.MaturityLevel,
		Badge:         s.badge(r.MaturityLevel),
	}
}

// badge is "Nível n - label", or a placeholder when the lead has no result.
func (s *Service) badge(level *int) string {
	if level == nil {
		return msgNoResult
	}
	label := s.cat.Level(*level).Label
	if label == "" {
		label = notAvailable
	}
	return fmt.Sprintf("Nível %d - %s", *level, label)
}

func whatsAppURL(name, rawPhone string) string {
	return "https://wa.me/" + phone.Digits(rawPhone) + "?text=" + encodeComponent(fmt.Sprintf(whatsAppTemplate, name))
}

func mailtoURL(name, email, shareURL string) string {
	return "mailto:" + email +
		"?subject=" + encodeComponent(mailSubject) +
		"&body=" + encodeComponent(fmt.Sprintf(mailBodyTemplate, name, shareURL))
}

// encodeComponent escapes like a browser's encodeURIComponent: spaces
// become %20, not +.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
