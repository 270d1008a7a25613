package service

import (
	"context"
	"strconv"
	"strings"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/catalog"
	"maturity_backend/internal/leads/repository"
	"maturity_backend/internal/metrics"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/logger"

	"github.com/google/uuid"
)

// msgPersistFailed is shown to the respondent when the lead insert fails.
const msgPersistFailed = "Erro ao salvar dados. Tente novamente."

// Contact is a validated and sanitized lead form.
type Contact struct {
	Name     string
	Email    string
	Company  string
	JobTitle string
	Phone    string
}

// persistStep is one write of a submission. Only required steps can fail
// the submission; the others are logged and swallowed.
type persistStep struct {
	name     string
	required bool
	run      func(ctx context.Context) error
}

// Gateway stores a submission: the lead row first, then the answers and
// the scored result as best-effort follow-ups. There are no retries.
type Gateway struct {
	repo repository.LeadWriter
	cat  *catalog.Catalog
	log  *logger.Logger
}

func NewGateway(repo repository.LeadWriter, cat *catalog.Catalog, log *logger.Logger) *Gateway {
	return &Gateway{repo: repo, cat: cat, log: log}
}

// SubmitLead returns the new lead id once the required step succeeded.
func (g *Gateway) SubmitLead(ctx context.Context, contact Contact, answers map[string]string, scores assessment.Scores) (uuid.UUID, error) {
	var leadID uuid.UUID

	steps := []persistStep{
		{
			name:     "lead",
			required: true,
			run: func(ctx context.Context) error {
				lead, err := g.repo.CreateLead(ctx, repository.CreateLeadParams{
					Name:     contact.Name,
					Email:    contact.Email,
					Company:  contact.Company,
					JobTitle: contact.JobTitle,
					Phone:    contact.Phone,
				})
				leadID = lead.ID
				return err
			},
		},
		{
			name: "responses",
			run: func(ctx context.Context) error {
				return g.repo.InsertResponses(ctx, leadID, g.responseRows(answers))
			},
		},
		{
			name: "maturity_result",
			run: func(ctx context.Context) error {
				return g.repo.InsertResult(ctx, repository.MaturityResult{
					LeadID:         leadID,
					OverallScore:   scores.Overall,
					MaturityLevel:  scores.Level,
					CategoryScores: scores.Map(),
				})
			},
		},
	}

	log := g.log.WithContext(ctx)
	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			continue
		}
		if step.required {
			log.DatabaseError("lead."+step.name, err)
			return uuid.Nil, apperr.Wrap(apperr.KindInternal, msgPersistFailed, err).WithOp("leads." + step.name)
		}
		log.BestEffortFailure(step.name, leadID.String(), err)
		metrics.BestEffortFailures.WithLabelValues(step.name).Inc()
	}

	metrics.LeadsCaptured.Inc()
	return leadID, nil
}

// responseRows builds one row per answered catalog question, in catalog order.
// Values that are not options of the question score 0 and are not stored.
func (g *Gateway) responseRows(answers map[string]string) []repository.Response {
	rows := make([]repository.Response, 0, len(answers))
	for _, q := range g.cat.Questions() {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || !q.HasOption(v) {
			continue
		}
		rows = append(rows, repository.Response{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			AnswerValue:  v,
			Category:     q.CategoryName,
		})
	}
	return rows
}
