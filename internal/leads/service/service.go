package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/events"
	"maturity_backend/internal/leads/repository"
	"maturity_backend/internal/leads/transport"
	"maturity_backend/internal/metrics"
	"maturity_backend/internal/report"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/logger"
	"maturity_backend/platform/phone"
	"maturity_backend/platform/sanitize"
	"maturity_backend/platform/validator"

	"github.com/google/uuid"
)

const (
	msgSubmitInFlight  = "Seu envio já está em andamento."
	msgAnswersRequired = "Responda o questionário antes de enviar seus dados"
)

// QuizResults resolves the answers of a completed quiz session.
type QuizResults interface {
	CompletedResult(ctx context.Context, sessionID string) (assessment.Result, map[string]string, error)
}

// Service runs lead submissions and serves stored results.
type Service struct {
	repo    repository.LeadReader
	gateway *Gateway
	guard   Guard
	lockTTL time.Duration
	quiz    QuizResults
	cat     *catalog.Catalog
	val     *validator.Validator
	bus     events.Bus
	baseURL string
	log     *logger.Logger
}

// Deps groups the collaborators of the lead service.
type Deps struct {
	Repo    repository.Repository
	Guard   Guard
	LockTTL time.Duration
	Quiz    QuizResults
	Catalog *catalog.Catalog
	Val     *validator.Validator
	Bus     events.Bus
	BaseURL string
	Log     *logger.Logger
}

// New creates the lead service and registers the form messages on val.
func New(d Deps) *Service {
	registerMessages(d.Val)
	return &Service{
		repo:    d.Repo,
		gateway: NewGateway(d.Repo, d.Catalog, d.Log),
		guard:   d.Guard,
		lockTTL: d.LockTTL,
		quiz:    d.Quiz,
		cat:     d.Catalog,
		val:     d.Val,
		bus:     d.Bus,
		baseURL: strings.TrimRight(d.BaseURL, "/"),
		log:     d.Log,
	}
}

func registerMessages(val *validator.Validator) {
	for field, msg := range map[string]string{
		"name":     "Nome deve ter pelo menos 2 caracteres",
		"email":    "Email inválido",
		"company":  "Nome da empresa deve ter pelo menos 2 caracteres",
		"jobTitle": "Cargo deve ter pelo menos 2 caracteres",
	} {
		val.RegisterMessage(field, "required", msg)
		val.RegisterMessage(field, "min", msg)
	}
	val.RegisterMessage("email", "email", "Email inválido")
	val.RegisterMessage("phone", "required", "Telefone deve ter pelo menos 10 dígitos")
	val.RegisterMessage("phone", "phonedigits", "Telefone deve ter pelo menos 10 dígitos")
}

// Submit validates the form, stores the lead and unlocks the document.
// Validation failures return per-field messages without touching the store.
func (s *Service) Submit(ctx context.Context, req transport.SubmitLeadRequest) (transport.SubmitLeadResponse, error) {
	sub := NewSubmission()
	_ = sub.To(StateValidating)

	req = normalize(req)
	if fields := s.val.Fields(req); fields != nil {
		sub.Fields = fields
		_ = sub.To(StateIdle)
		metrics.LeadSubmitFailures.WithLabelValues("validation").Inc()
		return transport.SubmitLeadResponse{}, apperr.InvalidFields(fields)
	}

	result, answers, err := s.resolveAnswers(ctx, req)
	if err != nil {
		_ = sub.To(StateIdle)
		metrics.LeadSubmitFailures.WithLabelValues("answers").Inc()
		return transport.SubmitLeadResponse{}, err
	}

	release, ok, err := s.guard.Acquire(ctx, guardKey(req), s.lockTTL)
	if err != nil {
		_ = sub.To(StateIdle)
		return transport.SubmitLeadResponse{}, apperr.Wrap(apperr.KindUnavailable, "Serviço indisponível. Tente novamente.", err).WithOp("leads.acquire_submit_lock")
	}
	if !ok {
		_ = sub.To(StateIdle)
		metrics.LeadSubmitFailures.WithLabelValues("in_flight").Inc()
		return transport.SubmitLeadResponse{}, apperr.Conflict(msgSubmitInFlight)
	}
	defer release()

	_ = sub.To(StateSubmitting)
	contact := Contact{
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		JobTitle: req.JobTitle,
		Phone:    phone.NormalizeE164(req.Phone),
	}
	leadID, err := s.gateway.SubmitLead(ctx, contact, answers, result.Scores)
	if err != nil {
		_ = sub.To(StatePersistFailed)
		_ = sub.To(StateIdle)
		metrics.LeadSubmitFailures.WithLabelValues("persist").Inc()
		return transport.SubmitLeadResponse{}, err
	}
	_ = sub.To(StatePersisted)
	_ = sub.To(StateDocumentUnlocked)

	s.log.WithContext(ctx).Info("lead captured", "leadId", leadID, "level", result.Scores.Level)
	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        leadID,
		Email:         contact.Email,
		Name:          contact.Name,
		Company:       contact.Company,
		MaturityLevel: result.Scores.Level,
		OverallScore:  result.Scores.Overall,
	})

	history := make([]string, 0, len(sub.History()))
	for _, st := range sub.History() {
		history = append(history, string(st))
	}
	return transport.SubmitLeadResponse{
		LeadID:    leadID,
		State:     string(sub.State()),
		History:   history,
		Result:    result,
		ReportURL: "/api/v1/leads/" + leadID.String() + "/report.pdf",
		ShareURL:  s.baseURL + "/r/" + leadID.String(),
	}, nil
}

func (s *Service) resolveAnswers(ctx context.Context, req transport.SubmitLeadRequest) (assessment.Result, map[string]string, error) {
	if req.SessionID != "" {
		return s.quiz.CompletedResult(ctx, req.SessionID)
	}
	if len(req.Answers) == 0 {
		return assessment.Result{}, nil, apperr.InvalidFields(apperr.FieldErrors{"answers": msgAnswersRequired})
	}
	return assessment.Evaluate(req.Answers, s.cat), req.Answers, nil
}

// Report loads a stored lead and its scored result. When the best-effort
// result row is missing the scores are rebuilt from the stored answers.
func (s *Service) Report(ctx context.Context, id uuid.UUID) (report.Lead, assessment.Result, error) {
	lead, err := s.repo.GetLead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return report.Lead{}, assessment.Result{}, apperr.NotFound("lead not found")
		}
		return report.Lead{}, assessment.Result{}, err
	}
	rl := report.Lead{ID: lead.ID, Name: lead.Name, Company: lead.Company, Email: lead.Email}

	stored, err := s.repo.GetResult(ctx, id)
	if err == nil {
		scores := assessment.ScoresFromMap(stored.CategoryScores, stored.OverallScore, stored.MaturityLevel, s.cat)
		return rl, assessment.FromScores(scores, s.cat), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return report.Lead{}, assessment.Result{}, err
	}

	rows, err := s.repo.ListResponses(ctx, id)
	if err != nil {
		return report.Lead{}, assessment.Result{}, err
	}
	return rl, assessment.Evaluate(AnswersFromResponses(rows), s.cat), nil
}

// AnswersFromResponses rebuilds an answer set from stored rows.
func AnswersFromResponses(rows []repository.Response) map[string]string {
	answers := make(map[string]string, len(rows))
	for _, r := range rows {
		answers[r.QuestionID] = strconv.Itoa(r.AnswerValue)
	}
	return answers
}

func normalize(req transport.SubmitLeadRequest) transport.SubmitLeadRequest {
	req.Name = sanitize.Text(req.Name)
	req.Email = sanitize.Email(req.Email)
	req.Company = sanitize.Text(req.Company)
	req.JobTitle = sanitize.Text(req.JobTitle)
	req.Phone = strings.TrimSpace(req.Phone)
	req.SessionID = strings.TrimSpace(req.SessionID)
	return req
}

func guardKey(req transport.SubmitLeadRequest) string {
	if req.SessionID != "" {
		return "session:" + req.SessionID
	}
	return "email:" + req.Email
}
