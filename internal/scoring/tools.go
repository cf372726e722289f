package scoring

import "strings"

type toolRule struct {
	match      func(inputs, outputs, desc string) bool
	suggestion ToolSuggestion
}

// toolRules are evaluated in order; every matching rule contributes a suggestion.
var toolRules = []toolRule{
	{
		match: func(in, _, _ string) bool { return containsAny(in, []string{"email", "crm"}) },
		suggestion: ToolSuggestion{
			Category:    "AI Assistant",
			Name:        "Chatbot / Email AI",
			Explanation: "Automate responses and data lookup.",
		},
	},
	{
		match: func(in, _, _ string) bool { return containsAny(in, []string{"excel", "spreadsheet"}) },
		suggestion: ToolSuggestion{
			Category:    "RPA / Integration",
			Name:        "Zapier / Make",
			Explanation: "Connect spreadsheets to other apps automatically.",
		},
	},
	{
		match: func(in, _, _ string) bool { return containsAny(in, []string{"pdf", "paper"}) },
		suggestion: ToolSuggestion{
			Category:    "OCR",
			Name:        "Document AI",
			Explanation: "Extract text from documents automatically.",
		},
	},
	{
		match: func(in, out, _ string) bool {
			return containsAny(in, []string{"database", "api"}) || strings.Contains(out, "database")
		},
		suggestion: ToolSuggestion{
			Category:    "Integration",
			Name:        "n8n / Pipedream",
			Explanation: "Connect databases and APIs with low-code workflows.",
		},
	},
	{
		match: func(_, out, desc string) bool {
			return containsAny(desc, []string{"approve", "review"}) || strings.Contains(out, "notification")
		},
		suggestion: ToolSuggestion{
			Category:    "Approval & Notifications",
			Name:        "Approval workflows / Slack",
			Explanation: "Route items for approval and send notifications automatically.",
		},
	},
	{
		match: func(_, out, desc string) bool {
			return strings.Contains(out, "report") || containsAny(desc, []string{"report", "summary"})
		},
		suggestion: ToolSuggestion{
			Category:    "Reporting",
			Name:        "BI tools / Scheduled reports",
			Explanation: "Generate and distribute reports on a schedule.",
		},
	},
}

var fallbackTool = ToolSuggestion{
	Category:    "General Automation",
	Name:        "Workflow Scripting",
	Explanation: "Custom scripts to handle data entry.",
}

// SuggestTools returns rule-based tool suggestions for tasks scoring at least 40.
// Below that threshold the list is empty; above it there is always at least one entry.
func SuggestTools(t Task, score int) []ToolSuggestion {
	suggestions := []ToolSuggestion{}
	if score < partiallyAutomatableThreshold {
		return suggestions
	}

	inputs := strings.ToLower(strings.Join(t.Inputs, " "))
	outputs := strings.ToLower(strings.Join(t.Outputs, " "))
	desc := strings.ToLower(t.Description)

	for _, r := range toolRules {
		if r.match(inputs, outputs, desc) {
			suggestions = append(suggestions, r.suggestion)
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, fallbackTool)
	}
	return suggestions
}
