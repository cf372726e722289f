package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Readiness/internal/export"
	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

const yamlTasks = `
- name: Update stock sheet
  department: Operations
  description: Same routine every day
  frequency: many_times_daily
  time_per_task: 10
  inputs: [Excel/Spreadsheets]
- id: contracts
  name: Negotiate supplier contracts
  department: Finance
  description: Each negotiation is unique, need to evaluate and decide on strategic terms
  frequency: monthly_or_less
  time_per_task: 120
  inputs: [Phone Calls/Verbal]
  outputs: [Verbal Response]
`

const jsonTasks = `{"tasks": [{
  "id": "stock",
  "name": "Update stock sheet",
  "department": "Operations",
  "description": "Same routine every day",
  "frequency": "many_times_daily",
  "timePerTask": 10,
  "inputs": ["Excel/Spreadsheets"]
}]}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("READINESS_ENHANCER_API_KEY", "")
	t.Setenv("READINESS_HOURLY_RATE", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadTasks_YAMLList(t *testing.T) {
	tasks, err := LoadTasks(writeFile(t, "tasks.yaml", yamlTasks))
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "task-1", tasks[0].ID)
	assert.Equal(t, 10, tasks[0].TimePerTask)
	assert.Equal(t, []string{}, tasks[0].Outputs)
	assert.Equal(t, "contracts", tasks[1].ID)
	assert.Equal(t, scoring.FrequencyMonthlyOrLess, tasks[1].Frequency)
}

func TestLoadTasks_JSONDocument(t *testing.T) {
	tasks, err := LoadTasks(writeFile(t, "tasks.json", jsonTasks))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "stock", tasks[0].ID)
	assert.Equal(t, 10, tasks[0].TimePerTask)
}

func TestLoadTasks_YAMLDocument(t *testing.T) {
	body := "tasks:\n  - name: Weekly report\n    frequency: weekly\n    time_per_task: 30\n"
	tasks, err := LoadTasks(writeFile(t, "tasks.yml", body))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Weekly report", tasks[0].Name)
}

func TestLoadTasks_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"invalid task", "bad.yaml", "- name: x\n  frequency: hourly\n  time_per_task: 5\n", `unknown frequency "hourly"`},
		{"duplicate id", "dup.json", `[{"id":"a","name":"x","frequency":"weekly","timePerTask":1},{"id":"a","name":"y","frequency":"weekly","timePerTask":1}]`, "duplicate id"},
		{"empty", "empty.yaml", "", "contains no tasks"},
		{"malformed", "broken.json", "{", "parse task file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTasks(writeFile(t, tt.file, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := LoadTasks(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScoreCommand_JSON(t *testing.T) {
	out, err := run(t, "score", writeFile(t, "tasks.yaml", yamlTasks), "--json")
	require.NoError(t, err)

	var scored []scoredTask
	require.NoError(t, json.Unmarshal([]byte(out), &scored))
	require.Len(t, scored, 2)
	assert.Equal(t, 87, scored[0].Score.FinalScore)
	assert.Equal(t, scoring.CategoryFullyAutomatable, scored[0].Score.Category)
	assert.Equal(t, scoring.CategoryNotSuitable, scored[1].Score.Category)
}

func TestScoreCommand_Table(t *testing.T) {
	out, err := run(t, "score", writeFile(t, "tasks.yaml", yamlTasks))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "task-1")
	assert.Contains(t, lines[1], "159.5")
}

func TestScoreCommand_EnhanceRequiresProvider(t *testing.T) {
	_, err := run(t, "score", writeFile(t, "tasks.yaml", yamlTasks), "--enhance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestExplainCommand(t *testing.T) {
	path := writeFile(t, "tasks.yaml", yamlTasks)

	out, err := run(t, "explain", path, "task-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Final score: 87 (fully)")
	assert.Contains(t, out, "CRITERION")

	_, err = run(t, "explain", path, "nope")
	assert.Error(t, err)
}

func TestExplainCommand_JSON(t *testing.T) {
	out, err := run(t, "explain", writeFile(t, "tasks.yaml", yamlTasks), "task-1", "--json")
	require.NoError(t, err)

	var exp explanation
	require.NoError(t, json.Unmarshal([]byte(out), &exp))
	assert.Equal(t, 87, exp.FinalScore)
	assert.Len(t, exp.Factors, 5)
	assert.Equal(t, scoring.DefaultWeights(), exp.Weights)
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", writeFile(t, "tasks.json", jsonTasks), "--hourly-rate", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Tasks: 1 (scored 1)")
	assert.Contains(t, out, "Monthly hours saved: 159.50")
	assert.Contains(t, out, "Monthly value: 6380.00 (at 40.00/hour)")

	_, err = run(t, "summary", writeFile(t, "tasks.json", jsonTasks), "--hourly-rate", "-1")
	assert.Error(t, err)
}

func TestSummaryCommand_NoRate(t *testing.T) {
	out, err := run(t, "summary", writeFile(t, "tasks.json", jsonTasks))
	require.NoError(t, err)
	assert.NotContains(t, out, "Monthly value")
}

func TestExportCommand_Stdout(t *testing.T) {
	out, err := run(t, "export", writeFile(t, "tasks.yaml", yamlTasks))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Task Name,Department"))
	assert.Contains(t, out, "Update stock sheet")
}

func TestExportCommand_Directory(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "export", writeFile(t, "tasks.yaml", yamlTasks), "--format", "json", "--out", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, export.Filename(export.FormatJSON, time.Now()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportedAt"`)
}

func TestExportCommand_BadFormat(t *testing.T) {
	_, err := run(t, "export", writeFile(t, "tasks.yaml", yamlTasks), "--format", "xml")
	assert.Error(t, err)
}
