package report

import (
	"math"
	"sort"
)

// Info keys recognised in Summary.Info. Values are plain numbers; a missing
// key (or a NaN value) means the statistic is unavailable and its table row
// or cell is omitted.
const (
	InfoRSquared    = "rsquared"
	InfoAdjRSquared = "rsquared_adj"
	InfoScale       = "scale"
	InfoFValue      = "fvalue"
	InfoFPValue     = "f_pvalue"
	InfoDFModel     = "df_model"
	InfoDFResidual  = "df_resid"
	InfoNObs        = "n_obs"
)

// Coefficient is one estimated parameter of a fitted model.
type Coefficient struct {
	Name    string
	Value   float64
	StdErr  float64
	PValue  float64
	CILower float64
	CIUpper float64
}

// Summary is the extracted data of one fitted model: its coefficient table
// plus a field→value map of fit statistics. How the model was fitted is out
// of scope; anything that can produce these two pieces can be tabulated.
type Summary struct {
	// DependentVariable labels the column group header, e.g. "lwage".
	DependentVariable string
	Coefficients      []Coefficient
	Info              map[string]float64
}

func (s Summary) coefficient(name string) (Coefficient, bool) {
	for _, c := range s.Coefficients {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}

// stat returns the named fit statistic, deriving n_obs from the degrees of
// freedom when it was not supplied directly.
func (s Summary) stat(key string) (float64, bool) {
	if v, ok := s.Info[key]; ok && !math.IsNaN(v) {
		return v, true
	}
	if key == InfoNObs {
		m, okM := s.Info[InfoDFModel]
		r, okR := s.Info[InfoDFResidual]
		if okM && okR && !math.IsNaN(m) && !math.IsNaN(r) {
			return m + r + 1, true
		}
	}
	return 0, false
}

// coefficientNames returns the ordered union of coefficient names across all
// summaries: sorted, deduplicated, stable across renders.
func coefficientNames(summaries []Summary) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, s := range summaries {
		for _, c := range s.Coefficients {
			if _, ok := seen[c.Name]; ok {
				continue
			}
			seen[c.Name] = struct{}{}
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}
