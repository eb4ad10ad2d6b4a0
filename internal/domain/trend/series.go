package trend

import (
	"sort"
	"time"

	"github.com/vasctrack/vasctrack/internal/domain/record"
)

// Point is one observation of one metric.
type Point struct {
	ObservedAt time.Time `json:"observed_at"`
	Value      float64   `json:"value"`
	Score      int       `json:"score"`
}

// Series is one metric's chronological trace for one patient.
type Series struct {
	Metric string  `json:"metric"`
	Points []Point `json:"points"`
}

// Build assembles a metric series from the patient's records: window-filtered,
// ascending by observation time, ties kept in insertion order. An empty input
// yields an empty series, never an error.
func Build(records []*record.MeasurementRecord, metric string, w Window, now time.Time) Series {
	s := Series{Metric: metric, Points: []Point{}}
	cutoff := w.Cutoff(now)

	sorted := append([]*record.MeasurementRecord{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ObservedAt.Equal(sorted[j].ObservedAt) {
			return sorted[i].ObservedAt.Before(sorted[j].ObservedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	for _, rec := range sorted {
		if !cutoff.IsZero() && rec.ObservedAt.Before(cutoff) {
			continue
		}
		v, ok := rec.Metric(metric)
		if !ok {
			continue
		}
		s.Points = append(s.Points, Point{ObservedAt: rec.ObservedAt, Value: v, Score: rec.Score})
	}
	return s
}

// Latest picks the patient's most recent record: greatest observation time,
// ties broken by the later-inserted row. Nil for an empty history.
func Latest(records []*record.MeasurementRecord) *record.MeasurementRecord {
	var latest *record.MeasurementRecord
	for _, rec := range records {
		if latest == nil ||
			rec.ObservedAt.After(latest.ObservedAt) ||
			(rec.ObservedAt.Equal(latest.ObservedAt) && rec.ID > latest.ID) {
			latest = rec
		}
	}
	return latest
}
