package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadRow is one line of the admin listing: a lead and, when the
// best-effort result step succeeded, its scored result.
type LeadRow struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Company       string
	JobTitle      string
	Phone         string
	CreatedAt     time.Time
	OverallScore  *float64
	MaturityLevel *int
}

// Repository is what the admin service needs from storage.
type Repository interface {
	ListLeads(ctx context.Context) ([]LeadRow, error)
	CountLeads(ctx context.Context) (int64, error)
	DeleteAllLeads(ctx context.Context) (int64, error)
}

// PgRepository reads the lead tables for the admin surface.
type PgRepository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// ListLeads returns every lead newest first.
func (r *PgRepository) ListLeads(ctx context.Context) ([]LeadRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id, l.name, l.email, l.company, l.job_title, l.phone, l.created_at,
			mr.overall_score, mr.maturity_level
		FROM leads l
		LEFT JOIN maturity_results mr ON mr.lead_id = l.id
		ORDER BY l.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	out := make([]LeadRow, 0)
	for rows.Next() {
		var row LeadRow
		if err := rows.Scan(
			&row.ID, &row.Name, &row.Email, &row.Company, &row.JobTitle, &row.Phone, &row.CreatedAt,
			&row.OverallScore, &row.MaturityLevel,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return out, nil
}

// CountLeads returns the number of stored leads.
func (r *PgRepository) CountLeads(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

// DeleteAllLeads removes every lead. Responses and results go with them
// through ON DELETE CASCADE.
func (r *PgRepository) DeleteAllLeads(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads`)
	if err != nil {
		return 0, fmt.Errorf("delete leads: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PgRepository)(nil)
