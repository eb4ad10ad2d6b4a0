package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/vasctrack/vasctrack/internal/domain/scoring"
)

// AccessType enumerates vascular access kinds.
type AccessType string

const (
	AccessFistula         AccessType = "fistula"
	AccessGraft           AccessType = "graft"
	AccessSuperficialized AccessType = "superficialized-artery"
)

func (a AccessType) Valid() bool {
	switch a {
	case AccessFistula, AccessGraft, AccessSuperficialized:
		return true
	}
	return false
}

// ClinicalPhase enumerates the evaluation context of a measurement.
type ClinicalPhase string

const (
	PhasePreOp            ClinicalPhase = "pre-op"
	PhasePostOp           ClinicalPhase = "post-op"
	PhaseRoutine          ClinicalPhase = "routine"
	PhasePreIntervention  ClinicalPhase = "pre-intervention"
	PhasePostIntervention ClinicalPhase = "post-intervention"
)

func (p ClinicalPhase) Valid() bool {
	switch p {
	case PhasePreOp, PhasePostOp, PhaseRoutine, PhasePreIntervention, PhasePostIntervention:
		return true
	}
	return false
}

// MeasurementRecord is one clinical observation of shunt function, mapping to
// the shunt_record table.
type MeasurementRecord struct {
	ID          int64     `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	PseudonymID string    `db:"pseudonym_id" json:"pseudonym_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	ObservedAt  time.Time `db:"observed_at" json:"observed_at"`

	FV   float64 `db:"fv" json:"fv"`
	RI   float64 `db:"ri" json:"ri"`
	PI   float64 `db:"pi" json:"pi"`
	TAV  float64 `db:"tav" json:"tav"`
	TAMV float64 `db:"tamv" json:"tamv"`
	PSV  float64 `db:"psv" json:"psv"`
	EDV  float64 `db:"edv" json:"edv"`

	AccessType    AccessType    `db:"access_type" json:"access_type"`
	ClinicalPhase ClinicalPhase `db:"clinical_phase" json:"clinical_phase"`
	Note          string        `db:"note" json:"note,omitempty"`

	Score    int      `db:"score" json:"score"`
	Findings []string `db:"findings" json:"findings"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MetricNames lists the seven clinical inputs in display order.
var MetricNames = []string{"FV", "RI", "PI", "TAV", "TAMV", "PSV", "EDV"}

// Metric returns the named clinical input, or false for an unknown name.
func (r *MeasurementRecord) Metric(name string) (float64, bool) {
	switch name {
	case "FV":
		return r.FV, true
	case "RI":
		return r.RI, true
	case "PI":
		return r.PI, true
	case "TAV":
		return r.TAV, true
	case "TAMV":
		return r.TAMV, true
	case "PSV":
		return r.PSV, true
	case "EDV":
		return r.EDV, true
	}
	return 0, false
}

// Inputs converts the record's clinical fields for the scoring engine.
func (r *MeasurementRecord) Inputs() scoring.Inputs {
	return scoring.Inputs{
		FV: r.FV, RI: r.RI, PI: r.PI,
		TAV: r.TAV, TAMV: r.TAMV, PSV: r.PSV, EDV: r.EDV,
	}
}

// TAVR is TAV/TAMV, 0 when TAMV is 0.
func (r *MeasurementRecord) TAVR() float64 {
	return scoring.Ratio(r.TAV, r.TAMV)
}

// RIOverPI is RI/PI, 0 when PI is 0.
func (r *MeasurementRecord) RIOverPI() float64 {
	return scoring.Ratio(r.RI, r.PI)
}

// findingsSeparator joins findings for storage and display.
const findingsSeparator = "; "

// JoinFindings renders findings the way they are persisted.
func JoinFindings(findings []string) string {
	return strings.Join(findings, findingsSeparator)
}

// SplitFindings parses the persisted findings column.
func SplitFindings(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, findingsSeparator)
}

// PatientSummary is one row of the patient management list.
type PatientSummary struct {
	PatientName    string    `db:"patient_name" json:"patient_name"`
	PseudonymID    string    `db:"pseudonym_id" json:"pseudonym_id"`
	RecordCount    int       `db:"record_count" json:"record_count"`
	LastObservedAt time.Time `db:"last_observed_at" json:"last_observed_at"`
}

// CategoryKind tags which label space a Category value belongs to.
type CategoryKind int

const (
	CategoryPhase CategoryKind = iota + 1
	CategoryAccess
)

// Category is the tagged union of the two label spaces used for cohort
// partitioning: a clinical phase or an access type.
type Category struct {
	Kind   CategoryKind
	Phase  ClinicalPhase
	Access AccessType
}

func PhaseCategory(p ClinicalPhase) Category {
	return Category{Kind: CategoryPhase, Phase: p}
}

func AccessCategory(a AccessType) Category {
	return Category{Kind: CategoryAccess, Access: a}
}

// ParseCategory resolves a label into a Category. Phase labels are tried
// first; the two enumerations are disjoint so order only matters for
// malformed input.
func ParseCategory(label string) (Category, error) {
	if p := ClinicalPhase(label); p.Valid() {
		return PhaseCategory(p), nil
	}
	if a := AccessType(label); a.Valid() {
		return AccessCategory(a), nil
	}
	return Category{}, fmt.Errorf("unknown category label: %q", label)
}

func (c Category) String() string {
	switch c.Kind {
	case CategoryPhase:
		return string(c.Phase)
	case CategoryAccess:
		return string(c.Access)
	}
	return ""
}

// Matches reports whether the record belongs to this category.
func (c Category) Matches(r *MeasurementRecord) bool {
	switch c.Kind {
	case CategoryPhase:
		return r.ClinicalPhase == c.Phase
	case CategoryAccess:
		return r.AccessType == c.Access
	}
	return false
}
