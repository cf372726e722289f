package scoring

import (
	"math"
	"strings"
)

// Keyword vocabularies. Matching is case-insensitive substring containment,
// so "different" also matches the rule signal "if".
var (
	highRepetitionSignals = []string{"same", "identical", "always", "routine", "standard", "template", "copy", "repeat"}
	lowRepetitionSignals  = []string{"different", "varies", "custom", "creative", "unique", "case by case", "strategic", "negotiate"}

	structuredData  = []string{"excel", "spreadsheet", "database", "api", "crm", "web forms"}
	semiDigitalData = []string{"email", "pdf"}
	analogData      = []string{"paper", "physical", "phone", "verbal"}

	ruleSignals     = []string{"if", "when", "automatic", "always", "rule", "fixed"}
	judgmentSignals = []string{"decide", "evaluate", "consider", "judge", "analysis", "thinking", "review"}

	actionVerbs = []string{"check", "send", "update", "create", "review", "approve", "process", "enter", "calculate", "generate"}
)

const (
	minCriterion     = 1
	maxCriterion     = 5
	neutralCriterion = 3
)

// Factor captures one criterion's contribution to the composite.
type Factor struct {
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
	Reason   string  `json:"reason"`
}

// --- Individual criterion scorers ---

// FrequencyScore maps the five frequencies to 5..1. Unknown values score 3.
func FrequencyScore(f Frequency) int {
	switch f {
	case FrequencyManyTimesDaily:
		return 5
	case FrequencyDailyHigh:
		return 4
	case FrequencyWeeklyMultiple:
		return 3
	case FrequencyWeekly:
		return 2
	case FrequencyMonthlyOrLess:
		return 1
	default:
		return neutralCriterion
	}
}

// RepetitivenessScore nudges a baseline of 3 up for routine language and down for bespoke language.
func RepetitivenessScore(description string) int {
	desc := strings.ToLower(description)
	score := neutralCriterion
	if containsAny(desc, highRepetitionSignals) {
		score++
	}
	if containsAny(desc, lowRepetitionSignals) {
		score--
	}
	return clampCriterion(score)
}

// DataDependencyScore averages per-item digitisation points over all inputs and outputs.
func DataDependencyScore(inputs, outputs []string) int {
	count := len(inputs) + len(outputs)
	if count == 0 {
		return neutralCriterion
	}

	var points float64
	for _, items := range [][]string{inputs, outputs} {
		for _, item := range items {
			points += dataPoints(strings.ToLower(item))
		}
	}
	return clampCriterion(int(roundHalfUp(points / float64(count))))
}

func dataPoints(item string) float64 {
	switch {
	case containsAny(item, structuredData):
		return 5
	case containsAny(item, semiDigitalData):
		return 3.5
	case containsAny(item, analogData):
		return 1
	default:
		return 3
	}
}

// DecisionVariabilityScore rewards rule-based language and penalises judgment language.
func DecisionVariabilityScore(description string) int {
	desc := strings.ToLower(description)
	score := neutralCriterion
	if containsAny(desc, ruleSignals) {
		score++
	}
	if containsAny(desc, judgmentSignals) {
		score--
	}
	return clampCriterion(score)
}

// ComplexityScore counts distinct action verbs; fewer steps means a higher score.
func ComplexityScore(description string) int {
	desc := strings.ToLower(description)
	verbs := 0
	for _, v := range actionVerbs {
		if strings.Contains(desc, v) {
			verbs++
		}
	}

	switch {
	case verbs <= 1:
		return 5
	case verbs <= 3:
		return 4
	case verbs <= 5:
		return 3
	default:
		return 2
	}
}

// Criteria computes all five sub-scores for a task.
func Criteria(t Task) CriteriaScores {
	return CriteriaScores{
		Frequency:           FrequencyScore(t.Frequency),
		Repetitiveness:      RepetitivenessScore(t.Description),
		DataDependency:      DataDependencyScore(t.Inputs, t.Outputs),
		DecisionVariability: DecisionVariabilityScore(t.Description),
		Complexity:          ComplexityScore(t.Description),
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func clampCriterion(v int) int {
	if v < minCriterion {
		return minCriterion
	}
	if v > maxCriterion {
		return maxCriterion
	}
	return v
}

// roundHalfUp rounds .5 toward +Inf, matching the arithmetic historical scores were recorded with.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
