package followup

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vasctrack/vasctrack/internal/platform/db"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *PostgresRepository) Create(ctx context.Context, fu *FollowUp) error {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return err
	}
	fu.TenantID = tenantID

	err = r.conn(ctx).QueryRow(ctx, `
		INSERT INTO follow_up (tenant_id, patient_name, due_date, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		fu.TenantID, fu.PatientName, fu.DueDate, fu.Reason,
	).Scan(&fu.ID, &fu.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert follow-up: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DueOn(ctx context.Context, date time.Time) ([]*FollowUp, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, tenant_id, patient_name, due_date, reason, created_at
		FROM follow_up
		WHERE tenant_id = $1 AND due_date = $2
		ORDER BY id ASC`,
		tenantID, date)
	if err != nil {
		return nil, fmt.Errorf("query follow-ups: %w", err)
	}
	defer rows.Close()

	out := []*FollowUp{}
	for rows.Next() {
		var fu FollowUp
		if err := rows.Scan(&fu.ID, &fu.TenantID, &fu.PatientName, &fu.DueDate, &fu.Reason, &fu.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		out = append(out, &fu)
	}
	return out, rows.Err()
}
