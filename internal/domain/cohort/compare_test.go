package cohort

import (
	"math"
	"testing"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

func preOp(tav float64) *record.MeasurementRecord {
	return &record.MeasurementRecord{ClinicalPhase: record.PhasePreOp, AccessType: record.AccessFistula, TAV: tav}
}

func postOp(tav float64) *record.MeasurementRecord {
	return &record.MeasurementRecord{ClinicalPhase: record.PhasePostOp, AccessType: record.AccessFistula, TAV: tav}
}

func TestCompare_MannWhitneyP(t *testing.T) {
	records := []*record.MeasurementRecord{
		preOp(30), preOp(32),
		postOp(50), postOp(55),
	}
	cmp := Compare(records,
		record.PhaseCategory(record.PhasePreOp),
		record.PhaseCategory(record.PhasePostOp),
		[]string{"TAV"})

	if len(cmp.Metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(cmp.Metrics))
	}
	m := cmp.Metrics[0]
	// exact two-sided p for fully separated 2-vs-2 samples
	if math.Abs(m.P-0.3333) > 1e-9 {
		t.Errorf("expected p 0.3333, got %v", m.P)
	}
	if m.A.N != 2 || m.B.N != 2 {
		t.Errorf("unexpected cohort sizes: %d vs %d", m.A.N, m.B.N)
	}
	if m.A.Median != 31 || m.B.Median != 52.5 {
		t.Errorf("unexpected medians: %f vs %f", m.A.Median, m.B.Median)
	}
}

func TestCompare_OverlapAssignedToB(t *testing.T) {
	// pre-op graft matches both the phase cohort and the access cohort
	both := &record.MeasurementRecord{ClinicalPhase: record.PhasePreOp, AccessType: record.AccessGraft, TAV: 40}
	records := []*record.MeasurementRecord{
		both,
		preOp(30), preOp(31), // fistula pre-ops, cohort A only
		{ClinicalPhase: record.PhaseRoutine, AccessType: record.AccessGraft, TAV: 41},
	}

	cmp := Compare(records,
		record.PhaseCategory(record.PhasePreOp),
		record.AccessCategory(record.AccessGraft),
		[]string{"TAV"})

	if len(cmp.Metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(cmp.Metrics))
	}
	m := cmp.Metrics[0]
	if m.A.N != 2 {
		t.Errorf("expected 2 in cohort A, got %d", m.A.N)
	}
	if m.B.N != 2 {
		t.Errorf("expected overlap record in cohort B, got %d", m.B.N)
	}
}

func TestCompare_EmptyCohortOmitsMetric(t *testing.T) {
	records := []*record.MeasurementRecord{preOp(30), preOp(32)}
	cmp := Compare(records,
		record.PhaseCategory(record.PhasePreOp),
		record.PhaseCategory(record.PhasePostOp),
		[]string{"TAV"})
	if len(cmp.Metrics) != 0 {
		t.Errorf("expected metric omitted for empty cohort, got %+v", cmp.Metrics)
	}
}

func TestCompare_AllEqualSamplesOmitted(t *testing.T) {
	records := []*record.MeasurementRecord{
		preOp(40), preOp(40),
		postOp(40), postOp(40),
	}
	cmp := Compare(records,
		record.PhaseCategory(record.PhasePreOp),
		record.PhaseCategory(record.PhasePostOp),
		[]string{"TAV"})
	if len(cmp.Metrics) != 0 {
		t.Errorf("expected degenerate metric omitted, got %+v", cmp.Metrics)
	}
}

func TestSummarize_BoxStats(t *testing.T) {
	s := summarize("g", []float64{1, 2, 3, 4, 100})

	if s.Median != 3 {
		t.Errorf("expected median 3, got %f", s.Median)
	}
	if s.Q1 < 1 || s.Q1 > 2 || s.Q3 < 3 || s.Q3 > 5 {
		t.Errorf("quartiles out of range: q1=%f q3=%f", s.Q1, s.Q3)
	}
	if len(s.Outliers) != 1 || s.Outliers[0] != 100 {
		t.Errorf("expected 100 as the only outlier, got %v", s.Outliers)
	}
	if s.WhiskerLow != 1 || s.WhiskerHigh != 4 {
		t.Errorf("unexpected whiskers: %f / %f", s.WhiskerLow, s.WhiskerHigh)
	}
}

func TestSummarize_EvenMedian(t *testing.T) {
	s := summarize("g", []float64{1, 2, 3, 4})
	if s.Median != 2.5 {
		t.Errorf("expected median 2.5, got %f", s.Median)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := summarize("g", nil)
	if s.N != 0 || len(s.Outliers) != 0 {
		t.Errorf("unexpected summary for empty group: %+v", s)
	}
}
