package hermes

import (
	"time"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

// ScoreRequestEvent asks the service to score a task into an existing session.
type ScoreRequestEvent struct {
	SessionID string       `json:"session_id"`
	Task      scoring.Task `json:"task"`
	Source    string       `json:"source,omitempty"`
}

type TaskScoredEvent struct {
	SessionID  string           `json:"session_id"`
	TaskID     string           `json:"task_id"`
	FinalScore int              `json:"final_score"`
	Category   scoring.Category `json:"category"`
	Rescored   bool             `json:"rescored,omitempty"`
}

type TaskEnhancedEvent struct {
	SessionID string `json:"session_id"`
	TaskID    string `json:"task_id"`
	Provider  string `json:"provider"`
	ToolCount int    `json:"tool_count"`
}

type TaskRemovedEvent struct {
	SessionID string `json:"session_id"`
	TaskID    string `json:"task_id"`
}

type SessionEvent struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type StatsEvent struct {
	Sessions  int       `json:"sessions"`
	Tasks     int       `json:"tasks"`
	Timestamp time.Time `json:"timestamp"`
}
