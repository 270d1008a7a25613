package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) CreateLead(ctx context.Context, p CreateLeadParams) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, company, job_title, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, company, job_title, phone, created_at, updated_at
	`, p.Name, p.Email, p.Company, p.JobTitle, p.Phone).Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Company, &lead.JobTitle, &lead.Phone, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

// InsertResponses writes all rows in one batch.
func (r *PgRepository) InsertResponses(ctx context.Context, leadID uuid.UUID, rows []Response) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO questionnaire_responses (lead_id, question_id, question_text, answer_value, category)
			VALUES ($1, $2, $3, $4, $5)
		`, leadID, row.QuestionID, row.QuestionText, row.AnswerValue, row.Category)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < len(rows); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert response %d: %w", i, err)
		}
	}
	return nil
}

func (r *PgRepository) InsertResult(ctx context.Context, res MaturityResult) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO maturity_results (lead_id, overall_score, maturity_level, category_scores)
		VALUES ($1, $2, $3, $4)
	`, res.LeadID, res.OverallScore, res.MaturityLevel, res.CategoryScores)
	if err != nil {
		return fmt.Errorf("insert maturity result: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLead(ctx context.Context, id uuid.UUID) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, company, job_title, phone, created_at, updated_at
		FROM leads WHERE id = $1
	`, id).Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Company, &lead.JobTitle, &lead.Phone, &lead.CreatedAt, &lead.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *PgRepository) GetResult(ctx context.Context, leadID uuid.UUID) (MaturityResult, error) {
	var res MaturityResult
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, overall_score, maturity_level, category_scores, created_at
		FROM maturity_results WHERE lead_id = $1
	`, leadID).Scan(&res.ID, &res.LeadID, &res.OverallScore, &res.MaturityLevel, &res.CategoryScores, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MaturityResult{}, ErrNotFound
	}
	if err != nil {
		return MaturityResult{}, fmt.Errorf("get maturity result: %w", err)
	}
	return res, nil
}

func (r *PgRepository) ListResponses(ctx context.Context, leadID uuid.UUID) ([]Response, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, question_id, question_text, answer_value, category, created_at
		FROM questionnaire_responses
		WHERE lead_id = $1
		ORDER BY created_at ASC, question_id ASC
	`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	defer rows.Close()

	items := make([]Response, 0)
	for rows.Next() {
		var item Response
		if err := rows.Scan(&item.ID, &item.LeadID, &item.QuestionID, &item.QuestionText, &item.AnswerValue, &item.Category, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

var _ Repository = (*PgRepository)(nil)
