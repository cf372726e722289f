package scoring

import (
	"fmt"
	"strings"
)

var (
	inputVocabulary  = vocabulary(DataInputOptions)
	outputVocabulary = vocabulary(DataOutputOptions)
)

func vocabulary(options []string) map[string]bool {
	m := make(map[string]bool, len(options))
	for _, o := range options {
		m[o] = true
	}
	return m
}

// ValidateTask trims t in place and returns every intake problem found.
// Department stays free text; inputs and outputs must come from the fixed lists.
// Scoring itself never rejects a task.
func ValidateTask(t *Task) []string {
	t.Name = strings.TrimSpace(t.Name)
	t.Department = strings.TrimSpace(t.Department)
	t.Description = strings.TrimSpace(t.Description)
	if t.Inputs == nil {
		t.Inputs = []string{}
	}
	if t.Outputs == nil {
		t.Outputs = []string{}
	}

	var problems []string
	if t.Name == "" {
		problems = append(problems, "name is required")
	}
	if t.TimePerTask <= 0 {
		problems = append(problems, "timePerTask must be a positive number of minutes")
	}
	if !t.Frequency.Valid() {
		problems = append(problems, fmt.Sprintf("unknown frequency %q", t.Frequency))
	}
	for _, in := range t.Inputs {
		if !inputVocabulary[in] {
			problems = append(problems, fmt.Sprintf("unknown input %q", in))
		}
	}
	for _, out := range t.Outputs {
		if !outputVocabulary[out] {
			problems = append(problems, fmt.Sprintf("unknown output %q", out))
		}
	}
	return problems
}
