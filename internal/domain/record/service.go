package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/vasctrack/vasctrack/internal/domain/scoring"
)

// ErrInvalid marks a rejected measurement submission. Handlers map it to a
// 400 response.
var ErrInvalid = errors.New("invalid measurement")

type Service struct {
	repo  Repository
	rules scoring.RuleSet
}

func NewService(repo Repository, rules scoring.RuleSet) *Service {
	return &Service{repo: repo, rules: rules}
}

// Rules exposes the active threshold set.
func (s *Service) Rules() scoring.RuleSet {
	return s.rules
}

func (s *Service) validate(rec *MeasurementRecord) error {
	rec.PatientName = strings.TrimSpace(rec.PatientName)
	if rec.PatientName == "" {
		return fmt.Errorf("%w: patient name is required", ErrInvalid)
	}
	if !rec.AccessType.Valid() {
		return fmt.Errorf("%w: unknown access type %q", ErrInvalid, rec.AccessType)
	}
	if !rec.ClinicalPhase.Valid() {
		return fmt.Errorf("%w: unknown clinical phase %q", ErrInvalid, rec.ClinicalPhase)
	}
	return nil
}

// Save validates, classifies and persists a measurement. The stored score and
// findings are always recomputed from the inputs; a caller cannot submit a
// score of its own.
func (s *Service) Save(ctx context.Context, rec *MeasurementRecord) (scoring.Result, error) {
	if err := s.validate(rec); err != nil {
		return scoring.Result{}, err
	}
	if rec.ObservedAt.IsZero() {
		rec.ObservedAt = time.Now().UTC()
	}

	result := s.rules.Classify(rec.Inputs())
	rec.Score = result.Score
	rec.Findings = result.Findings

	if err := s.repo.Create(ctx, rec); err != nil {
		return scoring.Result{}, err
	}
	return result, nil
}

// Classify scores a measurement without persisting anything.
func (s *Service) Classify(in scoring.Inputs) scoring.Result {
	return s.rules.Classify(in)
}

func (s *Service) Records(ctx context.Context, patientName string, limit, offset int) ([]*MeasurementRecord, int, error) {
	return s.repo.ListByPatient(ctx, patientName, limit, offset)
}

func (s *Service) AllRecords(ctx context.Context) ([]*MeasurementRecord, error) {
	return s.repo.All(ctx)
}

func (s *Service) Patients(ctx context.Context) ([]PatientSummary, error) {
	return s.repo.ListPatients(ctx)
}

func (s *Service) Rename(ctx context.Context, oldName, newName string) (int64, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, fmt.Errorf("%w: patient name is required", ErrInvalid)
	}
	if oldName == newName {
		return 0, fmt.Errorf("%w: new name matches current name", ErrInvalid)
	}
	return s.repo.RenamePatient(ctx, oldName, newName)
}

func (s *Service) Delete(ctx context.Context, patientName string) (int64, error) {
	patientName = strings.TrimSpace(patientName)
	if patientName == "" {
		return 0, fmt.Errorf("%w: patient name is required", ErrInvalid)
	}
	return s.repo.DeleteByPatient(ctx, patientName)
}

// MetricStats summarizes one clinical metric across a patient's history.
// StdDev is the sample standard deviation; it is 0 with fewer than two
// records.
type MetricStats struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type PatientStats struct {
	PatientName string        `json:"patient_name"`
	PseudonymID string        `json:"pseudonym_id"`
	RecordCount int           `json:"record_count"`
	Metrics     []MetricStats `json:"metrics"`
}

func (s *Service) Stats(ctx context.Context, patientName string) (*PatientStats, error) {
	records, err := s.repo.AllByPatient(ctx, patientName)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrPatientNotFound
	}

	ps := &PatientStats{
		PatientName: patientName,
		PseudonymID: records[0].PseudonymID,
		RecordCount: len(records),
	}
	for _, name := range MetricNames {
		values := make([]float64, 0, len(records))
		for _, rec := range records {
			v, _ := rec.Metric(name)
			values = append(values, v)
		}
		ms := MetricStats{
			Metric: name,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			Min:    values[0],
			Max:    values[0],
		}
		for _, v := range values[1:] {
			if v < ms.Min {
				ms.Min = v
			}
			if v > ms.Max {
				ms.Max = v
			}
		}
		if len(values) >= 2 {
			ms.StdDev = stat.StdDev(values, nil)
		}
		ps.Metrics = append(ps.Metrics, ms)
	}
	return ps, nil
}
