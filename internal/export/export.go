package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json"; empty means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the download name for a report generated on the given day.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("automation-readiness-report-%s.%s", now.UTC().Format("2006-01-02"), f)
}

var csvHeader = []string{
	"Task Name", "Department", "Description", "Frequency", "Time (min)",
	"Score", "Category", "Reasoning", "Inputs", "Outputs", "Suggested Tools",
}

// WriteCSV writes one row per task in session order. Unscored tasks leave the score columns empty.
func WriteCSV(w io.Writer, s *store.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range s.Tasks {
		row := []string{
			t.Name,
			t.Department,
			t.Description,
			string(t.Frequency),
			strconv.Itoa(t.TimePerTask),
			"", "", "",
			strings.Join(t.Inputs, "; "),
			strings.Join(t.Outputs, "; "),
			"",
		}
		if score, ok := s.Scores[t.ID]; ok {
			row[5] = strconv.Itoa(score.FinalScore)
			row[6] = string(score.Category)
			row[7] = score.Reasoning
			row[10] = joinTools(score.SuggestedTools)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func joinTools(tools []scoring.ToolSuggestion) string {
	parts := make([]string, len(tools))
	for i, t := range tools {
		parts[i] = t.Name + ": " + t.Explanation
	}
	return strings.Join(parts, "; ")
}

type jsonReport struct {
	ExportedAt time.Time   `json:"exportedAt"`
	Session    jsonSession `json:"session"`
}

type jsonSession struct {
	Token     uuid.UUID                    `json:"token"`
	CreatedAt time.Time                    `json:"createdAt"`
	Tasks     []scoring.Task               `json:"tasks"`
	Scores    map[string]scoring.TaskScore `json:"scores"`
}

// WriteJSON writes the full session as an indented document.
func WriteJSON(w io.Writer, s *store.Session, exportedAt time.Time) error {
	report := jsonReport{
		ExportedAt: exportedAt.UTC(),
		Session: jsonSession{
			Token:     s.Token,
			CreatedAt: s.CreatedAt.UTC(),
			Tasks:     s.Tasks,
			Scores:    s.Scores,
		},
	}
	if report.Session.Tasks == nil {
		report.Session.Tasks = []scoring.Task{}
	}
	if report.Session.Scores == nil {
		report.Session.Scores = map[string]scoring.TaskScore{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// Write renders the session in the requested format.
func Write(w io.Writer, f Format, s *store.Session, now time.Time) error {
	if f == FormatJSON {
		return WriteJSON(w, s, now)
	}
	return WriteCSV(w, s)
}
