package scoring

// SessionInputs are the bedside observations of one dialysis session. A
// separate, smaller input set than the ultrasound indices: this classifier is
// independent of Classify and must stay that way.
type SessionInputs struct {
	RecirculationPct     float64 `json:"recirculation_pct"`
	StaticVenousPressure float64 `json:"static_venous_pressure"` // mmHg
	PressureRatio        float64 `json:"pressure_ratio"`         // static venous pressure / MAP
	NeedleDifficulty     bool    `json:"needle_difficulty"`
}

// Session advisory cutoffs. Access-type specific where the evidence differs.
const (
	recircMaxFistula = 5.0  // %
	recircMaxGraft   = 10.0 // %
	staticVPMin      = 40.0 // mmHg
	pressureRatioMax = 0.40
)

// Session advisory texts.
const (
	AdvisoryRecircFistula = "recirculation above 5%: recheck needle placement and measure access flow"
	AdvisoryRecircGraft   = "recirculation above 10%: stenosis surveillance recommended"
	AdvisoryVenousGraft   = "static venous pressure at or above 40 mmHg with pressure ratio above 0.40: venous outflow stenosis suspected"
	AdvisoryNeedle        = "repeated needle insertion difficulty: evaluate access for stenosis or depth change"
)

// AssessSession evaluates dialysis-session observations against access-type
// specific thresholds and returns advisory texts. Empty slice means no
// advisories; never an error.
func AssessSession(accessType string, in SessionInputs) []string {
	advisories := []string{}

	switch accessType {
	case "fistula", "superficialized-artery":
		if in.RecirculationPct > recircMaxFistula {
			advisories = append(advisories, AdvisoryRecircFistula)
		}
	case "graft":
		if in.RecirculationPct > recircMaxGraft {
			advisories = append(advisories, AdvisoryRecircGraft)
		}
		if in.StaticVenousPressure >= staticVPMin && in.PressureRatio > pressureRatioMax {
			advisories = append(advisories, AdvisoryVenousGraft)
		}
	}

	if in.NeedleDifficulty {
		advisories = append(advisories, AdvisoryNeedle)
	}

	return advisories
}
