package scoring

// Working days per month used to turn daily frequencies into monthly counts.
const workingDaysPerMonth = 22

// MonthlyOccurrences approximates how many times per month a task runs.
func MonthlyOccurrences(f Frequency) float64 {
	switch f {
	case FrequencyManyTimesDaily:
		return 50 * workingDaysPerMonth
	case FrequencyDailyHigh:
		return 30 * workingDaysPerMonth
	case FrequencyWeeklyMultiple:
		return 12
	case FrequencyWeekly:
		return 4
	case FrequencyMonthlyOrLess:
		return 1
	default:
		return 4
	}
}

// EstimateMonthlyTimeSaved returns hours saved per month, scaling the task's
// total monthly time by the composite score as a fraction.
func EstimateMonthlyTimeSaved(t Task, finalScore int) float64 {
	savedMins := MonthlyOccurrences(t.Frequency) * float64(t.TimePerTask) * (float64(finalScore) / 100)
	return savedMins / 60
}

// EstimateMonthlyValue converts saved hours to currency. A nil or non-positive rate yields 0.
func EstimateMonthlyValue(t Task, finalScore int, hourlyRate *float64) float64 {
	if hourlyRate == nil || *hourlyRate <= 0 {
		return 0
	}
	return EstimateMonthlyTimeSaved(t, finalScore) * *hourlyRate
}
