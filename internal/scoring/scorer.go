package scoring

import (
	"log/slog"
	"math"
)

const (
	fullyAutomatableThreshold     = 80
	partiallyAutomatableThreshold = 40
)

var rationales = map[Category]string{
	CategoryFullyAutomatable:     "High frequency and consistent patterns make this ideal for full automation.",
	CategoryPartiallyAutomatable: "Automation can handle the repetitive parts, but human review is likely needed.",
	CategoryNotSuitable:          "Requires significant human judgment or deals with unstructured physical tasks.",
}

// Options configures a Scorer.
type Options struct {
	Weights WeightSet
	// NormalizeWeights divides the weights by their sum before scoring.
	// Off by default so recorded scores stay reproducible.
	NormalizeWeights bool
}

// Scorer computes readiness scores with a fixed weight configuration.
// It holds no mutable state and is safe for concurrent use.
type Scorer struct {
	weights WeightSet
	logger  *slog.Logger
}

// NewScorer creates a Scorer. Invalid weights fall back to DefaultWeights.
func NewScorer(opts Options, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	weights := opts.Weights
	if err := weights.Validate(); err != nil {
		logger.Warn("invalid scoring weights, using defaults", "error", err)
		weights = DefaultWeights()
	}
	if opts.NormalizeWeights {
		weights = weights.Normalized()
	}
	return &Scorer{weights: weights, logger: logger}
}

// Weights returns the effective weights.
func (s *Scorer) Weights() WeightSet {
	return s.weights
}

// Score derives the full TaskScore for a task.
func (s *Scorer) Score(t Task) TaskScore {
	return scoreWith(t, s.weights)
}

// Explain returns the per-criterion breakdown behind a task's composite.
func (s *Scorer) Explain(t Task) []Factor {
	c := Criteria(t)
	scores := []int{c.Frequency, c.Repetitiveness, c.DataDependency, c.DecisionVariability, c.Complexity}
	reasons := []string{
		"frequency: " + t.Frequency.Label(),
		"routine vs bespoke wording",
		"digitisation of inputs and outputs",
		"rule-based vs judgment wording",
		"distinct action verbs",
	}

	factors := make([]Factor, len(scores))
	for i, w := range s.weights.asList() {
		factors[i] = Factor{
			Name:     criterionNames[i],
			Score:    scores[i],
			Weight:   w,
			Weighted: float64(scores[i]) * w,
			Reason:   reasons[i],
		}
	}
	return factors
}

// ScoreTask scores a task with the given weights, or DefaultWeights when nil.
// The weights are used exactly as given.
func ScoreTask(t Task, weights *WeightSet) TaskScore {
	w := DefaultWeights()
	if weights != nil {
		w = *weights
	}
	return scoreWith(t, w)
}

func scoreWith(t Task, w WeightSet) TaskScore {
	criteria := Criteria(t)
	final := Composite(criteria, w)
	category := Categorize(final)

	return TaskScore{
		TaskID:         t.ID,
		CriteriaScores: criteria,
		FinalScore:     final,
		Category:       category,
		Reasoning:      Rationale(category),
		SuggestedTools: SuggestTools(t, final),
	}
}

// Composite combines the criteria into a 0-100 score.
//
//	composite = round(Σ criterion*weight / 5 * 100)
//
// Weights are not renormalised; the result is clamped to [0, 100] before the
// integer conversion, and NaN maps to 0.
func Composite(c CriteriaScores, w WeightSet) int {
	raw := float64(c.Frequency)*w.Frequency +
		float64(c.Repetitiveness)*w.Repetitiveness +
		float64(c.DataDependency)*w.DataDependency +
		float64(c.DecisionVariability)*w.DecisionVariability +
		float64(c.Complexity)*w.Complexity

	score := roundHalfUp(raw / maxCriterion * 100)
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 100:
		return 100
	}
	return int(score)
}

// Categorize maps a composite score to its category.
func Categorize(score int) Category {
	switch {
	case score >= fullyAutomatableThreshold:
		return CategoryFullyAutomatable
	case score >= partiallyAutomatableThreshold:
		return CategoryPartiallyAutomatable
	default:
		return CategoryNotSuitable
	}
}

// Rationale returns the canned explanation for a category.
func Rationale(c Category) string {
	return rationales[c]
}
