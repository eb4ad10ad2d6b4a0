package simulate

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vasctrack/vasctrack/internal/domain/scoring"
)

// Coefficients parameterize one linear model:
// value = Intercept + FV*fv + RI*ri + Diameter*diameter.
type Coefficients struct {
	Intercept float64 `mapstructure:"intercept" json:"intercept"`
	FV        float64 `mapstructure:"fv" json:"fv"`
	RI        float64 `mapstructure:"ri" json:"ri"`
	Diameter  float64 `mapstructure:"diameter" json:"diameter"`
}

func (c Coefficients) at(fv, ri, diameter float64) float64 {
	return c.Intercept + c.FV*fv + c.RI*ri + c.Diameter*diameter
}

// Table holds the per-metric coefficient sets. The table is externally
// supplied configuration; no set is ever fitted at runtime.
type Table struct {
	PSV  Coefficients `mapstructure:"psv" json:"psv"`
	EDV  Coefficients `mapstructure:"edv" json:"edv"`
	TAV  Coefficients `mapstructure:"tav" json:"tav"`
	TAMV Coefficients `mapstructure:"tamv" json:"tamv"`
}

// Baseline slider positions for interactive exploration.
const (
	BaselineFV       = 380.0
	BaselineRI       = 0.68
	BaselineDiameter = 5.0
)

// DefaultTable returns the built-in coefficient set.
func DefaultTable() Table {
	return Table{
		PSV:  Coefficients{Intercept: 37.664, FV: 0.0619, RI: 52.569, Diameter: -1.2},
		EDV:  Coefficients{Intercept: 69.506, FV: 0.0305, RI: -74.499, Diameter: -0.8},
		TAV:  Coefficients{Intercept: 43.664, FV: 0.0298, RI: -35.760, Diameter: -0.6},
		TAMV: Coefficients{Intercept: 65.0, FV: 0.0452, RI: -30.789, Diameter: -1.0},
	}
}

// LoadTable reads a coefficient table from a YAML file. An empty path returns
// the built-in table.
func LoadTable(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Table{}, fmt.Errorf("read coefficients file %s: %w", path, err)
	}
	var t Table
	if err := v.Unmarshal(&t); err != nil {
		return Table{}, fmt.Errorf("unmarshal coefficients file %s: %w", path, err)
	}
	return t, nil
}

// Prediction is the forward-simulated value set for one hemodynamic input.
type Prediction struct {
	PSV  float64 `json:"psv"`
	EDV  float64 `json:"edv"`
	TAV  float64 `json:"tav"`
	TAMV float64 `json:"tamv"`
	PI   float64 `json:"pi"`
	TAVR float64 `json:"tavr"`
}

// Simulate predicts measurement values for hypothetical inputs. Pure: no
// storage side effects. PI and TAVR fall back to 0 on a zero denominator.
func (t Table) Simulate(fv, ri, diameter float64) Prediction {
	p := Prediction{
		PSV:  t.PSV.at(fv, ri, diameter),
		EDV:  t.EDV.at(fv, ri, diameter),
		TAV:  t.TAV.at(fv, ri, diameter),
		TAMV: t.TAMV.at(fv, ri, diameter),
	}
	p.PI = scoring.Ratio(p.PSV-p.EDV, p.TAMV)
	p.TAVR = scoring.Ratio(p.TAV, p.TAMV)
	return p
}
