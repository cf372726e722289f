package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrequencyScore(t *testing.T) {
	want := []int{5, 4, 3, 2, 1}
	for i, f := range Frequencies {
		assert.Equal(t, want[i], FrequencyScore(f), f)
	}
	assert.Equal(t, 3, FrequencyScore("hourly"))
	assert.Equal(t, 3, FrequencyScore(""))
}

func TestRepetitivenessScore(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want int
	}{
		{"empty", "", 3},
		{"routine", "Same steps each morning", 4},
		{"bespoke", "Unique per client", 2},
		{"both cancel", "same report but the numbers are different", 3},
		{"case insensitive", "ALWAYS COPY the row", 4},
		{"multi-word signal", "handled case by case", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepetitivenessScore(tt.desc))
		})
	}
}

func TestDecisionVariabilityScore(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want int
	}{
		{"empty", "", 3},
		{"rule based", "if the total is over 500 then escalate", 4},
		{"judgment", "review and decide", 2},
		{"both", "when needed we review", 3},
		{"substring match", "Different each time", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecisionVariabilityScore(tt.desc))
		})
	}
}

func TestComplexityScore(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want int
	}{
		{"no verbs", "", 5},
		{"one verb", "check the inbox", 5},
		{"two verbs", "check and send", 4},
		{"three verbs", "check, send, update", 4},
		{"four verbs", "check, send, update, create", 3},
		{"five verbs", "check, send, update, create, approve", 3},
		{"six verbs", "check send update create approve process", 2},
		{"repeated verb counted once", "check check check check", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComplexityScore(tt.desc))
		})
	}
}

func TestDataDependencyScore(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		outputs []string
		want    int
	}{
		{"none", nil, nil, 3},
		{"structured", []string{"Excel/Spreadsheets"}, nil, 5},
		{"semi digital rounds up", []string{"Email"}, nil, 4},
		{"analog", []string{"Phone Calls/Verbal", "Physical Paper"}, []string{"Verbal Response"}, 1},
		{"mixed", []string{"Email", "Physical Paper"}, nil, 2},
		{"unrecognised", []string{"Fax"}, nil, 3},
		{"pdf and unknown", []string{"PDF Documents"}, []string{"SMS/Notification"}, 3},
		{"half rounds up", []string{"Excel/Spreadsheets", "Fax", "Physical Paper"}, []string{"Paper"}, 3},
		{"database", []string{"Database/API"}, []string{"Database Update"}, 5},
		{"web forms", []string{"Web Forms"}, nil, 5},
		{"crm", []string{"CRM (Salesforce, HubSpot)"}, nil, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DataDependencyScore(tt.inputs, tt.outputs))
		})
	}
}

func TestFrequencyLabelAndValid(t *testing.T) {
	assert.Equal(t, "Monthly or less", FrequencyMonthlyOrLess.Label())
	assert.Equal(t, "hourly", Frequency("hourly").Label())
	assert.True(t, FrequencyWeekly.Valid())
	assert.False(t, Frequency("hourly").Valid())
}
