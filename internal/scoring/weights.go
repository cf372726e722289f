package scoring

import (
	"fmt"
	"math"
)

// WeightSet defines the relative importance of each criterion.
// Weights are not required to sum to 1.0; the composite scales with their sum.
type WeightSet struct {
	Frequency           float64 `json:"frequency" yaml:"frequency"`
	Repetitiveness      float64 `json:"repetitiveness" yaml:"repetitiveness"`
	DataDependency      float64 `json:"dataDependency" yaml:"data_dependency"`
	DecisionVariability float64 `json:"decisionVariability" yaml:"decision_variability"`
	Complexity          float64 `json:"complexity" yaml:"complexity"`
}

// DefaultWeights returns the standard weight distribution.
func DefaultWeights() WeightSet {
	return WeightSet{
		Frequency:           0.25,
		Repetitiveness:      0.25,
		DataDependency:      0.20,
		DecisionVariability: 0.20,
		Complexity:          0.10,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Frequency + w.Repetitiveness + w.DataDependency + w.DecisionVariability + w.Complexity
}

// Validate rejects negative, NaN and infinite weights. Any other set is accepted.
func (w WeightSet) Validate() error {
	for i, v := range w.asList() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight for %s must be a finite number", criterionNames[i])
		}
		if v < 0 {
			return fmt.Errorf("negative weight for %s: %f", criterionNames[i], v)
		}
	}
	return nil
}

// Normalized returns a copy scaled so the weights sum to 1.0.
// A zero sum yields DefaultWeights.
func (w WeightSet) Normalized() WeightSet {
	sum := w.Sum()
	if math.IsInf(sum, 1) {
		// Scale down first so huge finite weights keep their proportions.
		w = w.scaled(1 / maxOf(w.asList()))
		sum = w.Sum()
	}
	if !(sum > 0) {
		return DefaultWeights()
	}
	return WeightSet{
		Frequency:           w.Frequency / sum,
		Repetitiveness:      w.Repetitiveness / sum,
		DataDependency:      w.DataDependency / sum,
		DecisionVariability: w.DecisionVariability / sum,
		Complexity:          w.Complexity / sum,
	}
}

func (w WeightSet) scaled(f float64) WeightSet {
	return WeightSet{
		Frequency:           w.Frequency * f,
		Repetitiveness:      w.Repetitiveness * f,
		DataDependency:      w.DataDependency * f,
		DecisionVariability: w.DecisionVariability * f,
		Complexity:          w.Complexity * f,
	}
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (w WeightSet) asList() []float64 {
	return []float64{w.Frequency, w.Repetitiveness, w.DataDependency, w.DecisionVariability, w.Complexity}
}

var criterionNames = []string{"frequency", "repetitiveness", "data_dependency", "decision_variability", "complexity"}
