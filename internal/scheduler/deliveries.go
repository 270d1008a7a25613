package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveryStore records which leads already received their report.
type DeliveryStore interface {
	MarkDelivered(ctx context.Context, leadID uuid.UUID, archiveKey string, emailed bool) error
	ListUndelivered(ctx context.Context, createdAfter, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

// DeliveryRepository is the Postgres DeliveryStore.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

func (r *DeliveryRepository) MarkDelivered(ctx context.Context, leadID uuid.UUID, archiveKey string, emailed bool) error {
	var key *string
	if archiveKey != "" {
		key = &archiveKey
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO report_deliveries (lead_id, archive_key, emailed)
		VALUES ($1, $2, $3)
		ON CONFLICT (lead_id) DO UPDATE
		SET archive_key = EXCLUDED.archive_key, emailed = EXCLUDED.emailed, delivered_at = now()
	`, leadID, key, emailed)
	if err != nil {
		return fmt.Errorf("mark report delivered: %w", err)
	}
	return nil
}

// ListUndelivered returns leads created in the window with no delivery row,
// oldest first.
func (r *DeliveryRepository) ListUndelivered(ctx context.Context, createdAfter, createdBefore time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.id
		FROM leads l
		LEFT JOIN report_deliveries d ON d.lead_id = l.id
		WHERE d.lead_id IS NULL AND l.created_at > $1 AND l.created_at < $2
		ORDER BY l.created_at ASC
		LIMIT $3
	`, createdAfter, createdBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("list undelivered leads: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lead id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ DeliveryStore = (*DeliveryRepository)(nil)
