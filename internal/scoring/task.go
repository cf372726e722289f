package scoring

// Frequency is how often a task is performed, from most to least frequent.
type Frequency string

const (
	FrequencyManyTimesDaily Frequency = "many_times_daily"
	FrequencyDailyHigh      Frequency = "daily_high"
	FrequencyWeeklyMultiple Frequency = "weekly_multiple"
	FrequencyWeekly         Frequency = "weekly"
	FrequencyMonthlyOrLess  Frequency = "monthly_or_less"
)

// Frequencies lists every known frequency in decreasing order.
var Frequencies = []Frequency{
	FrequencyManyTimesDaily,
	FrequencyDailyHigh,
	FrequencyWeeklyMultiple,
	FrequencyWeekly,
	FrequencyMonthlyOrLess,
}

var frequencyLabels = map[Frequency]string{
	FrequencyManyTimesDaily: "Many times per day (50+)",
	FrequencyDailyHigh:      "Daily (10-50 times)",
	FrequencyWeeklyMultiple: "Several times per week",
	FrequencyWeekly:         "Once a week",
	FrequencyMonthlyOrLess:  "Monthly or less",
}

// Label returns the human-readable form, or the raw value if unknown.
func (f Frequency) Label() string {
	if l, ok := frequencyLabels[f]; ok {
		return l
	}
	return string(f)
}

// Valid reports whether f is one of the five known frequencies.
func (f Frequency) Valid() bool {
	_, ok := frequencyLabels[f]
	return ok
}

// Category is the automation bucket a composite score falls into.
type Category string

const (
	CategoryFullyAutomatable     Category = "fully"
	CategoryPartiallyAutomatable Category = "partially"
	CategoryNotSuitable          Category = "not_suitable"
)

// Departments offered by the intake form. Department stays free text.
var Departments = []string{
	"Sales",
	"Operations",
	"Customer Service",
	"HR",
	"Finance",
	"Marketing",
	"IT",
	"Other",
}

// DataInputOptions is the fixed vocabulary for Task.Inputs.
var DataInputOptions = []string{
	"Excel/Spreadsheets",
	"CRM (Salesforce, HubSpot)",
	"Email",
	"PDF Documents",
	"Web Forms",
	"Physical Paper",
	"Phone Calls/Verbal",
	"Database/API",
}

// DataOutputOptions is the fixed vocabulary for Task.Outputs.
var DataOutputOptions = []string{
	"Excel/Spreadsheets",
	"Email Response",
	"SMS/Notification",
	"PDF Report",
	"Database Update",
	"Verbal Response",
}

// Task is a single business task submitted through the intake form.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Department  string    `json:"department" yaml:"department"`
	Description string    `json:"description" yaml:"description"`
	Frequency   Frequency `json:"frequency" yaml:"frequency"`
	TimePerTask int       `json:"timePerTask" yaml:"time_per_task"` // minutes
	Inputs      []string  `json:"inputs" yaml:"inputs"`
	Outputs     []string  `json:"outputs" yaml:"outputs"`
}

// CriteriaScores holds the five 1-5 sub-scores.
type CriteriaScores struct {
	Frequency           int `json:"frequency"`
	Repetitiveness      int `json:"repetitiveness"`
	DataDependency      int `json:"dataDependency"`
	DecisionVariability int `json:"decisionVariability"`
	Complexity          int `json:"complexity"`
}

// ToolSuggestion recommends a class of automation tool for a task.
type ToolSuggestion struct {
	Category    string `json:"category"`
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// TaskScore is the derived readiness result for one task.
// Reasoning, AutomationAdvice and SuggestedTools may later be overwritten by an enhancer.
type TaskScore struct {
	TaskID           string           `json:"taskId"`
	CriteriaScores   CriteriaScores   `json:"criteriaScores"`
	FinalScore       int              `json:"finalScore"`
	Category         Category         `json:"category"`
	Reasoning        string           `json:"reasoning"`
	AutomationAdvice string           `json:"automationAdvice"`
	SuggestedTools   []ToolSuggestion `json:"suggestedTools"`
}
