package cohort

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

type stubRepo struct {
	records []*record.MeasurementRecord
}

func (s *stubRepo) All(ctx context.Context) ([]*record.MeasurementRecord, error) {
	return s.records, nil
}

func (s *stubRepo) Create(ctx context.Context, rec *record.MeasurementRecord) error {
	return errors.New("not implemented")
}

func (s *stubRepo) ResolveIdentity(ctx context.Context, name string) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubRepo) ListByPatient(ctx context.Context, name string, limit, offset int) ([]*record.MeasurementRecord, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *stubRepo) AllByPatient(ctx context.Context, name string) ([]*record.MeasurementRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRepo) ListPatients(ctx context.Context) ([]record.PatientSummary, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRepo) RenamePatient(ctx context.Context, oldName, newName string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubRepo) DeleteByPatient(ctx context.Context, name string) (int64, error) {
	return 0, errors.New("not implemented")
}

func TestService_Compare_Validation(t *testing.T) {
	svc := NewService(&stubRepo{})
	ctx := context.Background()

	if _, err := svc.Compare(ctx, "inpatient", "pre-op", nil); !errors.Is(err, record.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown label, got %v", err)
	}
	if _, err := svc.Compare(ctx, "pre-op", "pre-op", nil); !errors.Is(err, record.ErrInvalid) {
		t.Errorf("expected ErrInvalid for identical cohorts, got %v", err)
	}
	if _, err := svc.Compare(ctx, "pre-op", "post-op", []string{"HR"}); !errors.Is(err, record.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown metric, got %v", err)
	}
}

func TestService_Compare_DefaultsToAllMetrics(t *testing.T) {
	records := []*record.MeasurementRecord{
		{ClinicalPhase: record.PhasePreOp, TAV: 30, FV: 300, RI: 0.5, PI: 1.0, TAMV: 40, PSV: 90, EDV: 30},
		{ClinicalPhase: record.PhasePreOp, TAV: 32, FV: 320, RI: 0.55, PI: 1.1, TAMV: 45, PSV: 95, EDV: 33},
		{ClinicalPhase: record.PhasePostOp, TAV: 50, FV: 500, RI: 0.7, PI: 1.4, TAMV: 60, PSV: 120, EDV: 45},
		{ClinicalPhase: record.PhasePostOp, TAV: 55, FV: 550, RI: 0.75, PI: 1.5, TAMV: 65, PSV: 130, EDV: 50},
	}
	svc := NewService(&stubRepo{records: records})

	cmp, err := svc.Compare(context.Background(), "pre-op", "post-op", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cmp.Metrics) != len(record.MetricNames) {
		t.Errorf("expected %d metrics, got %d", len(record.MetricNames), len(cmp.Metrics))
	}
}

func TestHandler_Compare(t *testing.T) {
	records := []*record.MeasurementRecord{
		{ClinicalPhase: record.PhasePreOp, TAV: 30},
		{ClinicalPhase: record.PhasePreOp, TAV: 32},
		{ClinicalPhase: record.PhasePostOp, TAV: 50},
		{ClinicalPhase: record.PhasePostOp, TAV: 55},
	}
	h := NewHandler(NewService(&stubRepo{records: records}))
	e := echo.New()

	body := `{"category_a": "pre-op", "category_b": "post-op", "metrics": ["TAV"]}`
	req := httptest.NewRequest(http.MethodPost, "/cohorts/compare", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Compare(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cmp Comparison
	if err := json.Unmarshal(rec.Body.Bytes(), &cmp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cmp.CategoryA != "pre-op" || cmp.CategoryB != "post-op" {
		t.Errorf("unexpected labels: %+v", cmp)
	}
	if len(cmp.Metrics) != 1 || cmp.Metrics[0].P != 0.3333 {
		t.Errorf("unexpected metrics: %+v", cmp.Metrics)
	}
}

func TestHandler_Compare_BadCategory(t *testing.T) {
	h := NewHandler(NewService(&stubRepo{}))
	e := echo.New()

	body := `{"category_a": "ward-7", "category_b": "post-op"}`
	req := httptest.NewRequest(http.MethodPost, "/cohorts/compare", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Compare(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
