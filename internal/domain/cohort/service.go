package cohort

import (
	"context"
	"fmt"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

type Service struct {
	repo record.Repository
}

func NewService(repo record.Repository) *Service {
	return &Service{repo: repo}
}

// Compare loads the tenant's full record set and runs the two-cohort
// analysis. Empty metrics means all of them.
func (s *Service) Compare(ctx context.Context, labelA, labelB string, metrics []string) (Comparison, error) {
	a, err := record.ParseCategory(labelA)
	if err != nil {
		return Comparison{}, fmt.Errorf("%w: %v", record.ErrInvalid, err)
	}
	b, err := record.ParseCategory(labelB)
	if err != nil {
		return Comparison{}, fmt.Errorf("%w: %v", record.ErrInvalid, err)
	}
	if a == b {
		return Comparison{}, fmt.Errorf("%w: cohorts must differ", record.ErrInvalid)
	}

	if len(metrics) == 0 {
		metrics = record.MetricNames
	} else {
		for _, m := range metrics {
			if !knownMetric(m) {
				return Comparison{}, fmt.Errorf("%w: unknown metric %q", record.ErrInvalid, m)
			}
		}
	}

	records, err := s.repo.All(ctx)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(records, a, b, metrics), nil
}

func knownMetric(name string) bool {
	for _, m := range record.MetricNames {
		if m == name {
			return true
		}
	}
	return false
}
