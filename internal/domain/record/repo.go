package record

import (
	"context"
	"errors"
)

var (
	// ErrPatientNotFound is returned when no record exists for the named patient.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrPatientExists is returned when a rename would collide with an
	// existing patient.
	ErrPatientExists = errors.New("patient already exists")
)

// Repository persists measurement records and the name-to-pseudonym map.
// All methods are tenant-scoped through the request context.
type Repository interface {
	// Create resolves the patient's pseudonym (minting one on first contact)
	// and inserts the record, filling ID, PseudonymID, TenantID and CreatedAt.
	Create(ctx context.Context, rec *MeasurementRecord) error

	// ResolveIdentity returns the stable pseudonym for a patient name,
	// creating the mapping if it does not exist yet.
	ResolveIdentity(ctx context.Context, patientName string) (string, error)

	// ListByPatient returns a page of the patient's records, newest first,
	// with the total count.
	ListByPatient(ctx context.Context, patientName string, limit, offset int) ([]*MeasurementRecord, int, error)

	// AllByPatient returns every record for the patient, oldest first.
	AllByPatient(ctx context.Context, patientName string) ([]*MeasurementRecord, error)

	// All returns every record in the tenant, oldest first.
	All(ctx context.Context) ([]*MeasurementRecord, error)

	// ListPatients summarizes every patient with at least one record.
	ListPatients(ctx context.Context) ([]PatientSummary, error)

	// RenamePatient moves a patient's identity and records to a new name and
	// returns the number of records moved.
	RenamePatient(ctx context.Context, oldName, newName string) (int64, error)

	// DeleteByPatient removes the patient's records and identity mapping and
	// returns the number of records removed.
	DeleteByPatient(ctx context.Context, patientName string) (int64, error)
}
