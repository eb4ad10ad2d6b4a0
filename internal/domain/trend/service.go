package trend

import (
	"context"
	"fmt"
	"time"

	"github.com/vasctrack/vasctrack/internal/domain/record"
	"github.com/vasctrack/vasctrack/internal/domain/scoring"
)

type Service struct {
	repo  record.Repository
	rules scoring.RuleSet
	now   func() time.Time
}

func NewService(repo record.Repository, rules scoring.RuleSet) *Service {
	return &Service{repo: repo, rules: rules, now: time.Now}
}

// Trend builds one metric's windowed series for a patient.
func (s *Service) Trend(ctx context.Context, patientName, metric string, w Window) (Series, error) {
	if !validMetric(metric) {
		return Series{}, fmt.Errorf("%w: unknown metric %q", record.ErrInvalid, metric)
	}
	records, err := s.repo.AllByPatient(ctx, patientName)
	if err != nil {
		return Series{}, err
	}
	return Build(records, metric, w, s.now()), nil
}

// Trends builds every metric's windowed series in one pass over the history.
func (s *Service) Trends(ctx context.Context, patientName string, w Window) ([]Series, error) {
	records, err := s.repo.AllByPatient(ctx, patientName)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]Series, 0, len(record.MetricNames))
	for _, metric := range record.MetricNames {
		out = append(out, Build(records, metric, w, now))
	}
	return out, nil
}

func validMetric(name string) bool {
	for _, m := range record.MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

// ReportParameter is one row of the latest-measurement report: the observed
// value next to the cutoff it was judged against.
type ReportParameter struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Threshold string  `json:"threshold"`
	Flagged   bool    `json:"flagged"`
}

// Report summarizes a patient's most recent measurement for clinical review.
type Report struct {
	PatientName string            `json:"patient_name"`
	PseudonymID string            `json:"pseudonym_id"`
	ObservedAt  time.Time         `json:"observed_at"`
	Score       int               `json:"score"`
	Tier        scoring.Tier      `json:"tier"`
	Findings    []string          `json:"findings"`
	TAVR        float64           `json:"tavr"`
	RIOverPI    float64           `json:"ri_over_pi"`
	Parameters  []ReportParameter `json:"parameters"`
}

// LatestReport renders the report for the patient's most recent record.
// Flags are recomputed from the stored inputs against the active thresholds,
// so a threshold change is reflected without rewriting history.
func (s *Service) LatestReport(ctx context.Context, patientName string) (*Report, error) {
	records, err := s.repo.AllByPatient(ctx, patientName)
	if err != nil {
		return nil, err
	}
	latest := Latest(records)
	if latest == nil {
		return nil, record.ErrPatientNotFound
	}

	result := s.rules.Classify(latest.Inputs())
	return &Report{
		PatientName: latest.PatientName,
		PseudonymID: latest.PseudonymID,
		ObservedAt:  latest.ObservedAt,
		Score:       result.Score,
		Tier:        result.Tier,
		Findings:    result.Findings,
		TAVR:        result.TAVR,
		RIOverPI:    result.RIOverPI,
		Parameters: []ReportParameter{
			{Name: "TAV", Value: latest.TAV, Threshold: fmt.Sprintf("<= %.1f", s.rules.TAVMax), Flagged: latest.TAV <= s.rules.TAVMax},
			{Name: "RI", Value: latest.RI, Threshold: fmt.Sprintf(">= %.2f", s.rules.RIMin), Flagged: latest.RI >= s.rules.RIMin},
			{Name: "PI", Value: latest.PI, Threshold: fmt.Sprintf(">= %.1f", s.rules.PIMin), Flagged: latest.PI >= s.rules.PIMin},
			{Name: "EDV", Value: latest.EDV, Threshold: fmt.Sprintf("<= %.1f", s.rules.EDVMax), Flagged: latest.EDV <= s.rules.EDVMax},
		},
	}, nil
}
