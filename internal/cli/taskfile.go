package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Readiness/internal/config"
	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type taskFile struct {
	Tasks []scoring.Task `json:"tasks" yaml:"tasks"`
}

// LoadTasks reads a YAML or JSON task file. Tasks without an id get "task-N"
// (1-based position). Every task must pass intake validation.
func LoadTasks(path string) ([]scoring.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var tasks []scoring.Task
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		tasks, err = decodeJSONTasks(data)
	default:
		tasks, err = decodeYAMLTasks(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", path, err)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("task file %s contains no tasks", path)
	}

	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = fmt.Sprintf("task-%d", i+1)
		}
		if seen[tasks[i].ID] {
			return nil, fmt.Errorf("task %d: duplicate id %q", i+1, tasks[i].ID)
		}
		seen[tasks[i].ID] = true
		if problems := scoring.ValidateTask(&tasks[i]); len(problems) > 0 {
			return nil, fmt.Errorf("task %d (%s): %s", i+1, tasks[i].ID, strings.Join(problems, "; "))
		}
	}
	return tasks, nil
}

func decodeJSONTasks(data []byte) ([]scoring.Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tasks []scoring.Task
		err := json.Unmarshal(data, &tasks)
		return tasks, err
	}
	var f taskFile
	err := json.Unmarshal(data, &f)
	return f.Tasks, err
}

func decodeYAMLTasks(data []byte) ([]scoring.Task, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var tasks []scoring.Task
		err := node.Content[0].Decode(&tasks)
		return tasks, err
	}
	var f taskFile
	err := node.Content[0].Decode(&f)
	return f.Tasks, err
}

// assessment is an in-memory session holding the scored contents of a task file.
type assessment struct {
	session    *store.Session
	scorer     *scoring.Scorer
	hourlyRate *float64
}

func assess(cfg *config.Config, path string, now time.Time) (*assessment, error) {
	tasks, err := LoadTasks(path)
	if err != nil {
		return nil, err
	}
	scorer := scoring.NewScorer(cfg.ScoringOptions(), cliLogger())

	sess := &store.Session{
		ID:        uuid.New(),
		Token:     uuid.New(),
		Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		CreatedAt: now,
		UpdatedAt: now,
		Tasks:     tasks,
		Scores:    make(map[string]scoring.TaskScore, len(tasks)),
	}
	for _, t := range tasks {
		sess.Scores[t.ID] = scorer.Score(t)
	}
	return &assessment{session: sess, scorer: scorer, hourlyRate: cfg.Scoring.HourlyRate}, nil
}
