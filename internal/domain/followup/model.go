package followup

import (
	"context"
	"time"
)

// FollowUp is a scheduled re-evaluation reminder for a patient. DueDate is a
// calendar date in the clinic's timezone, not an instant. Reminders are
// create-only: once written they are never updated.
type FollowUp struct {
	ID          int64     `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
	Reason      string    `db:"reason" json:"reason"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Repository persists follow-ups, tenant-scoped through the request context.
type Repository interface {
	Create(ctx context.Context, fu *FollowUp) error
	// DueOn returns follow-ups whose due date equals the given calendar
	// date, in insertion order.
	DueOn(ctx context.Context, date time.Time) ([]*FollowUp, error)
}
