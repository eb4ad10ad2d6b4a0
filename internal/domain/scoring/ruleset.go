package scoring

import (
	"fmt"

	"github.com/spf13/viper"
)

// Tier buckets a score into a clinical risk band.
type Tier string

const (
	TierNormal   Tier = "normal"
	TierCaution  Tier = "caution"
	TierHighRisk Tier = "high-risk"
)

// Inputs are the seven ultrasound-derived indices of one measurement.
type Inputs struct {
	FV   float64 `json:"fv"`
	RI   float64 `json:"ri"`
	PI   float64 `json:"pi"`
	TAV  float64 `json:"tav"`
	TAMV float64 `json:"tamv"`
	PSV  float64 `json:"psv"`
	EDV  float64 `json:"edv"`
}

// RuleSet holds the four clinical cutoffs. These are externally configured
// constants, never inferred from data.
type RuleSet struct {
	TAVMax float64 `mapstructure:"tav_max"` // TAV at or below triggers low-flow suspicion
	RIMin  float64 `mapstructure:"ri_min"`  // RI at or above triggers high-resistance suspicion
	PIMin  float64 `mapstructure:"pi_min"`  // PI at or above triggers elevated pulsatility
	EDVMax float64 `mapstructure:"edv_max"` // EDV at or below triggers low diastolic velocity
}

// DefaultRuleSet returns the published cutoffs for dialysis shunt function.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		TAVMax: 34.5,
		RIMin:  0.68,
		PIMin:  1.3,
		EDVMax: 40.4,
	}
}

// LoadRuleSet reads cutoffs from a YAML file. An empty path returns the
// defaults; a present file overrides only the keys it sets.
func LoadRuleSet(path string) (RuleSet, error) {
	rs := DefaultRuleSet()
	if path == "" {
		return rs, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("tav_max", rs.TAVMax)
	v.SetDefault("ri_min", rs.RIMin)
	v.SetDefault("pi_min", rs.PIMin)
	v.SetDefault("edv_max", rs.EDVMax)
	if err := v.ReadInConfig(); err != nil {
		return RuleSet{}, fmt.Errorf("read thresholds file %s: %w", path, err)
	}
	if err := v.Unmarshal(&rs); err != nil {
		return RuleSet{}, fmt.Errorf("unmarshal thresholds file %s: %w", path, err)
	}
	return rs, nil
}

// Finding texts, in fixed rule order.
const (
	FindingLowTAV     = "low time-averaged velocity, low flow suspected"
	FindingElevatedRI = "elevated resistance index, high resistance suspected"
	FindingElevatedPI = "elevated pulsatility index"
	FindingLowEDV     = "low end-diastolic velocity"
)

// Result is the classification of one measurement. Score counts triggered
// rules; the derived ratios are computed alongside but never affect it.
type Result struct {
	Score    int      `json:"score"`
	Tier     Tier     `json:"tier"`
	Findings []string `json:"findings"`
	TAVR     float64  `json:"tavr"`
	RIOverPI float64  `json:"ri_over_pi"`
}

// Classify scores one measurement against the rule set. Pure: no validation,
// no side effects, defined for any real inputs. Rules are evaluated in fixed
// order (TAV, RI, PI, EDV), each adding one point and one finding.
func (rs RuleSet) Classify(in Inputs) Result {
	res := Result{Findings: []string{}}

	if in.TAV <= rs.TAVMax {
		res.Score++
		res.Findings = append(res.Findings, FindingLowTAV)
	}
	if in.RI >= rs.RIMin {
		res.Score++
		res.Findings = append(res.Findings, FindingElevatedRI)
	}
	if in.PI >= rs.PIMin {
		res.Score++
		res.Findings = append(res.Findings, FindingElevatedPI)
	}
	if in.EDV <= rs.EDVMax {
		res.Score++
		res.Findings = append(res.Findings, FindingLowEDV)
	}

	res.Tier = TierForScore(res.Score)
	res.TAVR = Ratio(in.TAV, in.TAMV)
	res.RIOverPI = Ratio(in.RI, in.PI)
	return res
}

// TierForScore maps a score to its risk band: 0 normal, 1-2 caution,
// 3-4 high risk.
func TierForScore(score int) Tier {
	switch {
	case score == 0:
		return TierNormal
	case score <= 2:
		return TierCaution
	default:
		return TierHighRisk
	}
}

// Ratio divides num by den, returning 0 for a zero denominator. The contract
// is "return 0, never raise".
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
