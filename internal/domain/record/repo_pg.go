package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vasctrack/vasctrack/internal/platform/db"
)

// PostgresRepository implements Repository against the tenant's schema.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// conn prefers the tenant-pinned connection from the request; the pool is the
// fallback for CLI paths that set search_path themselves.
func (r *PostgresRepository) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const recordColumns = `id, tenant_id, pseudonym_id, patient_name, observed_at,
	fv, ri, pi, tav, tamv, psv, edv,
	access_type, clinical_phase, note, score, findings, created_at`

func scanRecord(row pgx.Row) (*MeasurementRecord, error) {
	var rec MeasurementRecord
	var findings string
	err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.PseudonymID, &rec.PatientName, &rec.ObservedAt,
		&rec.FV, &rec.RI, &rec.PI, &rec.TAV, &rec.TAMV, &rec.PSV, &rec.EDV,
		&rec.AccessType, &rec.ClinicalPhase, &rec.Note, &rec.Score, &findings, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Findings = SplitFindings(findings)
	return &rec, nil
}

func collectRecords(rows pgx.Rows) ([]*MeasurementRecord, error) {
	defer rows.Close()
	records := []*MeasurementRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ResolveIdentity mints a candidate pseudonym and lets the unique constraint
// on (tenant_id, patient_name) arbitrate concurrent first contacts: the insert
// is a no-op for the loser and the follow-up select returns the winner's token
// for both.
func (r *PostgresRepository) ResolveIdentity(ctx context.Context, patientName string) (string, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return "", err
	}

	q := r.conn(ctx)
	candidate := uuid.NewString()[:8]

	_, err = q.Exec(ctx, `
		INSERT INTO patient_identity (tenant_id, patient_name, pseudonym_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, patient_name) DO NOTHING`,
		tenantID, patientName, candidate)
	if err != nil {
		return "", fmt.Errorf("insert identity: %w", err)
	}

	var pseudonym string
	err = q.QueryRow(ctx, `
		SELECT pseudonym_id FROM patient_identity
		WHERE tenant_id = $1 AND patient_name = $2`,
		tenantID, patientName).Scan(&pseudonym)
	if err != nil {
		return "", fmt.Errorf("select identity: %w", err)
	}
	return pseudonym, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *MeasurementRecord) error {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return err
	}

	pseudonym, err := r.ResolveIdentity(ctx, rec.PatientName)
	if err != nil {
		return err
	}
	rec.TenantID = tenantID
	rec.PseudonymID = pseudonym

	q := r.conn(ctx)
	err = q.QueryRow(ctx, `
		INSERT INTO shunt_record (
			tenant_id, pseudonym_id, patient_name, observed_at,
			fv, ri, pi, tav, tamv, psv, edv,
			access_type, clinical_phase, note, score, findings
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`,
		rec.TenantID, rec.PseudonymID, rec.PatientName, rec.ObservedAt,
		rec.FV, rec.RI, rec.PI, rec.TAV, rec.TAMV, rec.PSV, rec.EDV,
		rec.AccessType, rec.ClinicalPhase, rec.Note, rec.Score, JoinFindings(rec.Findings),
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByPatient(ctx context.Context, patientName string, limit, offset int) ([]*MeasurementRecord, int, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return nil, 0, err
	}
	q := r.conn(ctx)

	var total int
	err = q.QueryRow(ctx, `
		SELECT COUNT(*) FROM shunt_record
		WHERE tenant_id = $1 AND patient_name = $2`,
		tenantID, patientName).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM shunt_record
		WHERE tenant_id = $1 AND patient_name = $2
		ORDER BY observed_at DESC, id DESC
		LIMIT $3 OFFSET $4`, recordColumns),
		tenantID, patientName, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query records: %w", err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *PostgresRepository) AllByPatient(ctx context.Context, patientName string) ([]*MeasurementRecord, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT %s FROM shunt_record
		WHERE tenant_id = $1 AND patient_name = $2
		ORDER BY observed_at ASC, id ASC`, recordColumns),
		tenantID, patientName)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return collectRecords(rows)
}

func (r *PostgresRepository) All(ctx context.Context) ([]*MeasurementRecord, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, fmt.Sprintf(`
		SELECT %s FROM shunt_record
		WHERE tenant_id = $1
		ORDER BY observed_at ASC, id ASC`, recordColumns),
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return collectRecords(rows)
}

func (r *PostgresRepository) ListPatients(ctx context.Context) ([]PatientSummary, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT patient_name, pseudonym_id, COUNT(*), MAX(observed_at)
		FROM shunt_record
		WHERE tenant_id = $1
		GROUP BY patient_name, pseudonym_id
		ORDER BY patient_name ASC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	summaries := []PatientSummary{}
	for rows.Next() {
		var s PatientSummary
		if err := rows.Scan(&s.PatientName, &s.PseudonymID, &s.RecordCount, &s.LastObservedAt); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// RenamePatient moves the identity row and all records to the new name. The
// pseudonym is preserved so longitudinal joins survive the rename.
func (r *PostgresRepository) RenamePatient(ctx context.Context, oldName, newName string) (int64, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return 0, err
	}
	q := r.conn(ctx)

	var exists bool
	err = q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM patient_identity
			WHERE tenant_id = $1 AND patient_name = $2
		)`, tenantID, newName).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check rename target: %w", err)
	}
	if exists {
		return 0, ErrPatientExists
	}

	tag, err := q.Exec(ctx, `
		UPDATE patient_identity SET patient_name = $3
		WHERE tenant_id = $1 AND patient_name = $2`,
		tenantID, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("rename identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrPatientNotFound
	}

	recTag, err := q.Exec(ctx, `
		UPDATE shunt_record SET patient_name = $3
		WHERE tenant_id = $1 AND patient_name = $2`,
		tenantID, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("rename records: %w", err)
	}
	return recTag.RowsAffected(), nil
}

func (r *PostgresRepository) DeleteByPatient(ctx context.Context, patientName string) (int64, error) {
	tenantID, err := db.RequireTenant(ctx)
	if err != nil {
		return 0, err
	}
	q := r.conn(ctx)

	tag, err := q.Exec(ctx, `
		DELETE FROM shunt_record
		WHERE tenant_id = $1 AND patient_name = $2`,
		tenantID, patientName)
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}

	idTag, err := q.Exec(ctx, `
		DELETE FROM patient_identity
		WHERE tenant_id = $1 AND patient_name = $2`,
		tenantID, patientName)
	if err != nil {
		return 0, fmt.Errorf("delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 && idTag.RowsAffected() == 0 {
		return 0, ErrPatientNotFound
	}
	return tag.RowsAffected(), nil
}

// IsNotFound reports whether err is a missing-row condition from this
// repository.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPatientNotFound) || errors.Is(err, pgx.ErrNoRows)
}
