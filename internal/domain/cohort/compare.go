package cohort

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
	gstat "gonum.org/v1/gonum/stat"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

// GroupSummary is the five-number box summary of one cohort's values for one
// metric, with whiskers at the conventional 1.5 IQR fences.
type GroupSummary struct {
	Label       string    `json:"label"`
	N           int       `json:"n"`
	Median      float64   `json:"median"`
	Q1          float64   `json:"q1"`
	Q3          float64   `json:"q3"`
	WhiskerLow  float64   `json:"whisker_low"`
	WhiskerHigh float64   `json:"whisker_high"`
	Outliers    []float64 `json:"outliers"`
}

// MetricComparison is one metric's two-cohort test result.
type MetricComparison struct {
	Metric string       `json:"metric"`
	P      float64      `json:"p"`
	A      GroupSummary `json:"a"`
	B      GroupSummary `json:"b"`
}

// Comparison is the full two-cohort analysis across the requested metrics.
type Comparison struct {
	CategoryA string             `json:"category_a"`
	CategoryB string             `json:"category_b"`
	Metrics   []MetricComparison `json:"metrics"`
}

// Compare partitions records into two cohorts and runs a two-sided
// Mann-Whitney U test per metric. A record matching both categories is
// assigned to B. Metrics where the test is undefined (an empty cohort, or
// complete ties) are omitted rather than reported with a fabricated p-value.
func Compare(records []*record.MeasurementRecord, a, b record.Category, metrics []string) Comparison {
	cmp := Comparison{
		CategoryA: a.String(),
		CategoryB: b.String(),
		Metrics:   []MetricComparison{},
	}

	var groupA, groupB []*record.MeasurementRecord
	for _, rec := range records {
		switch {
		case b.Matches(rec):
			groupB = append(groupB, rec)
		case a.Matches(rec):
			groupA = append(groupA, rec)
		}
	}

	for _, metric := range metrics {
		valuesA := metricValues(groupA, metric)
		valuesB := metricValues(groupB, metric)

		res, err := stats.MannWhitneyUTest(valuesA, valuesB, stats.LocationDiffers)
		if err != nil {
			continue
		}

		cmp.Metrics = append(cmp.Metrics, MetricComparison{
			Metric: metric,
			P:      math.Round(res.P*10000) / 10000,
			A:      summarize(a.String(), valuesA),
			B:      summarize(b.String(), valuesB),
		})
	}
	return cmp
}

func metricValues(records []*record.MeasurementRecord, metric string) []float64 {
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		if v, ok := rec.Metric(metric); ok {
			values = append(values, v)
		}
	}
	return values
}

// summarize computes the box statistics for one cohort's values.
func summarize(label string, values []float64) GroupSummary {
	s := GroupSummary{Label: label, N: len(values), Outliers: []float64{}}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	s.Median = median(sorted)
	s.Q1 = gstat.Quantile(0.25, gstat.LinInterp, sorted, nil)
	s.Q3 = gstat.Quantile(0.75, gstat.LinInterp, sorted, nil)

	iqr := s.Q3 - s.Q1
	loFence := s.Q1 - 1.5*iqr
	hiFence := s.Q3 + 1.5*iqr

	s.WhiskerLow = s.Q3
	s.WhiskerHigh = s.Q1
	inFence := false
	for _, v := range sorted {
		if v < loFence || v > hiFence {
			s.Outliers = append(s.Outliers, v)
			continue
		}
		if !inFence || v < s.WhiskerLow {
			s.WhiskerLow = v
		}
		if !inFence || v > s.WhiskerHigh {
			s.WhiskerHigh = v
		}
		inFence = true
	}
	if !inFence {
		s.WhiskerLow, s.WhiskerHigh = s.Median, s.Median
	}
	return s
}

// median averages the two middle elements of an even-length sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
