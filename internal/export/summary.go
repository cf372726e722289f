package export

import (
	"math"
	"sort"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

// TaskROI is the monthly saving estimated for one scored task.
type TaskROI struct {
	TaskID            string           `json:"taskId"`
	Name              string           `json:"name"`
	FinalScore        int              `json:"finalScore"`
	Category          scoring.Category `json:"category"`
	MonthlyHoursSaved float64          `json:"monthlyHoursSaved"`
	MonthlyValue      float64          `json:"monthlyValue"`
}

// Summary rolls a session up into category counts and ROI totals.
type Summary struct {
	TaskCount         int                      `json:"taskCount"`
	ScoredCount       int                      `json:"scoredCount"`
	Categories        map[scoring.Category]int `json:"categories"`
	AverageScore      float64                  `json:"averageScore"`
	MonthlyHoursSaved float64                  `json:"monthlyHoursSaved"`
	MonthlyValue      float64                  `json:"monthlyValue"`
	HourlyRate        *float64                 `json:"hourlyRate,omitempty"`
	Tasks             []TaskROI                `json:"tasks"`
}

// Summarize computes the roll-up. Tasks are listed by hours saved, largest first.
func Summarize(s *store.Session, hourlyRate *float64) Summary {
	sum := Summary{
		TaskCount: len(s.Tasks),
		Categories: map[scoring.Category]int{
			scoring.CategoryFullyAutomatable:     0,
			scoring.CategoryPartiallyAutomatable: 0,
			scoring.CategoryNotSuitable:          0,
		},
		HourlyRate: hourlyRate,
		Tasks:      []TaskROI{},
	}

	total := 0
	for _, t := range s.Tasks {
		score, ok := s.Scores[t.ID]
		if !ok {
			continue
		}
		sum.ScoredCount++
		sum.Categories[score.Category]++
		total += score.FinalScore

		roi := TaskROI{
			TaskID:            t.ID,
			Name:              t.Name,
			FinalScore:        score.FinalScore,
			Category:          score.Category,
			MonthlyHoursSaved: round2(scoring.EstimateMonthlyTimeSaved(t, score.FinalScore)),
			MonthlyValue:      round2(scoring.EstimateMonthlyValue(t, score.FinalScore, hourlyRate)),
		}
		sum.MonthlyHoursSaved += roi.MonthlyHoursSaved
		sum.MonthlyValue += roi.MonthlyValue
		sum.Tasks = append(sum.Tasks, roi)
	}

	if sum.ScoredCount > 0 {
		sum.AverageScore = round2(float64(total) / float64(sum.ScoredCount))
	}
	sum.MonthlyHoursSaved = round2(sum.MonthlyHoursSaved)
	sum.MonthlyValue = round2(sum.MonthlyValue)

	sort.SliceStable(sum.Tasks, func(i, j int) bool {
		return sum.Tasks[i].MonthlyHoursSaved > sum.Tasks[j].MonthlyHoursSaved
	})
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
