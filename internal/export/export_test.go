package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

func testSession() *store.Session {
	invoices := scoring.Task{
		ID:          "t1",
		Name:        "Invoice entry",
		Department:  "Finance",
		Description: `Copy "totals" from email, then file`,
		Frequency:   scoring.FrequencyDailyHigh,
		TimePerTask: 10,
		Inputs:      []string{"Email", "PDF Documents"},
		Outputs:     []string{"Excel/Spreadsheets"},
	}
	report := scoring.Task{
		ID:          "t2",
		Name:        "Weekly report",
		Department:  "Sales",
		Frequency:   scoring.FrequencyWeekly,
		TimePerTask: 30,
		Inputs:      []string{"CRM (Salesforce, HubSpot)"},
		Outputs:     []string{"PDF Report"},
	}
	pending := scoring.Task{
		ID:          "t3",
		Name:        "Unscored",
		Department:  "HR",
		Frequency:   scoring.FrequencyMonthlyOrLess,
		TimePerTask: 5,
	}

	return &store.Session{
		ID:        uuid.MustParse("7b0c3d38-93c3-4c47-9b0b-6a3f1d2a0c11"),
		Token:     uuid.MustParse("0f7e5b9e-2f8a-4a0e-8d7c-3b7b5d9f1e22"),
		CreatedAt: time.Date(2026, 2, 3, 8, 0, 0, 0, time.UTC),
		Tasks:     []scoring.Task{invoices, report, pending},
		Scores: map[string]scoring.TaskScore{
			"t1": {
				TaskID:     "t1",
				FinalScore: 50,
				Category:   scoring.CategoryPartiallyAutomatable,
				Reasoning:  "Some judgment, mostly routine.",
				SuggestedTools: []scoring.ToolSuggestion{
					{Category: "OCR", Name: "Document AI", Explanation: "Extract text."},
					{Category: "AI Assistant", Name: "Email AI", Explanation: "Draft replies."},
				},
			},
			"t2": {
				TaskID:         "t2",
				FinalScore:     80,
				Category:       scoring.CategoryFullyAutomatable,
				SuggestedTools: []scoring.ToolSuggestion{},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testSession()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"Invoice entry", "Finance", `Copy "totals" from email, then file`, "daily_high", "10",
		"50", "partially", "Some judgment, mostly routine.",
		"Email; PDF Documents", "Excel/Spreadsheets",
		"Document AI: Extract text.; Email AI: Draft replies.",
	}, rows[1])
	assert.Equal(t, "80", rows[2][5])
	assert.Equal(t, "", rows[2][10])

	unscored := rows[3]
	assert.Equal(t, "Unscored", unscored[0])
	assert.Equal(t, "", unscored[5])
	assert.Equal(t, "", unscored[6])
	assert.Equal(t, "", unscored[7])
	assert.Equal(t, "", unscored[8])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	exportedAt := time.Date(2026, 2, 4, 10, 30, 0, 0, time.UTC)
	require.NoError(t, WriteJSON(&buf, testSession(), exportedAt))

	var doc struct {
		ExportedAt string `json:"exportedAt"`
		Session    struct {
			Token     string                       `json:"token"`
			CreatedAt string                       `json:"createdAt"`
			Tasks     []scoring.Task               `json:"tasks"`
			Scores    map[string]scoring.TaskScore `json:"scores"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "2026-02-04T10:30:00Z", doc.ExportedAt)
	assert.Equal(t, "0f7e5b9e-2f8a-4a0e-8d7c-3b7b5d9f1e22", doc.Session.Token)
	assert.Len(t, doc.Session.Tasks, 3)
	assert.Len(t, doc.Session.Scores, 2)
	assert.Contains(t, buf.String(), "\n  \"session\"")
}

func TestWriteJSON_EmptySession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, &store.Session{}, time.Now()))
	assert.Contains(t, buf.String(), `"tasks": []`)
	assert.Contains(t, buf.String(), `"scores": {}`)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 10, 17, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "automation-readiness-report-2026-10-17.csv", Filename(FormatCSV, now))
	assert.Equal(t, "automation-readiness-report-2026-10-17.json", Filename(FormatJSON, now))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	rate := 40.0
	sum := Summarize(testSession(), &rate)

	assert.Equal(t, 3, sum.TaskCount)
	assert.Equal(t, 2, sum.ScoredCount)
	assert.Equal(t, 1, sum.Categories[scoring.CategoryFullyAutomatable])
	assert.Equal(t, 1, sum.Categories[scoring.CategoryPartiallyAutomatable])
	assert.Equal(t, 0, sum.Categories[scoring.CategoryNotSuitable])
	assert.Equal(t, 65.0, sum.AverageScore)

	// 660 runs * 10 min * 0.5 / 60 = 55h; 4 runs * 30 min * 0.8 / 60 = 1.6h
	assert.InDelta(t, 56.6, sum.MonthlyHoursSaved, 1e-9)
	assert.InDelta(t, 2264.0, sum.MonthlyValue, 1e-9)

	require.Len(t, sum.Tasks, 2)
	assert.Equal(t, "t1", sum.Tasks[0].TaskID)
	assert.InDelta(t, 55.0, sum.Tasks[0].MonthlyHoursSaved, 1e-9)
	assert.InDelta(t, 64.0, sum.Tasks[1].MonthlyValue, 1e-9)
}

func TestSummarize_NoRate(t *testing.T) {
	sum := Summarize(testSession(), nil)
	assert.Zero(t, sum.MonthlyValue)
	assert.Greater(t, sum.MonthlyHoursSaved, 0.0)
	assert.Nil(t, sum.HourlyRate)
}
