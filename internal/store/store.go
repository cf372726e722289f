package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

// ErrNotFound is returned by write operations that target a missing session or task.
var ErrNotFound = errors.New("not found")

// Session is one assessment: an ordered list of tasks and the score derived for each.
type Session struct {
	ID        uuid.UUID                    `json:"id"`
	Name      string                       `json:"name"`
	Token     uuid.UUID                    `json:"token"`
	CreatedAt time.Time                    `json:"createdAt"`
	UpdatedAt time.Time                    `json:"updatedAt"`
	Tasks     []scoring.Task               `json:"tasks"`
	Scores    map[string]scoring.TaskScore `json:"scores"`
}

type SessionMeta struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	TaskCount int       `json:"taskCount"`
}

// Insight is the enrichment written over a stored score without rescoring.
type Insight struct {
	Reasoning        string                   `json:"reasoning"`
	AutomationAdvice string                   `json:"automationAdvice"`
	SuggestedTools   []scoring.ToolSuggestion `json:"suggestedTools"`
}

// Settings are user-level scoring preferences. Nil fields mean "use the configured default".
type Settings struct {
	Weights    *scoring.WeightSet `json:"weights,omitempty"`
	HourlyRate *float64           `json:"hourlyRate,omitempty"`
}

type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	ListSessions(ctx context.Context) ([]*SessionMeta, error)
	RenameSession(ctx context.Context, id uuid.UUID, name string) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	ClearSession(ctx context.Context, id uuid.UUID) (*Session, error)
	// ResetIfStale resets the session like ClearSession, but only while it is
	// still empty and was created at or before cutoff. It never deletes tasks.
	// It returns the fresh session, nil when the session is not stale, or
	// ErrNotFound when it does not exist.
	ResetIfStale(ctx context.Context, id uuid.UUID, cutoff time.Time) (*Session, error)

	// SaveTask inserts or replaces a task and its score. Replacing keeps the task's position.
	SaveTask(ctx context.Context, sessionID uuid.UUID, task scoring.Task, score scoring.TaskScore) error
	DeleteTask(ctx context.Context, sessionID uuid.UUID, taskID string) error
	UpdateScoreInsight(ctx context.Context, sessionID uuid.UUID, taskID string, in Insight) error

	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error

	Close() error
}

// DefaultSessionName names the n-th session (1-based).
func DefaultSessionName(n int) string {
	return fmt.Sprintf("Assessment %d", n)
}

// IsStale reports whether an empty session has outlived the TTL and should be reset.
// Sessions with tasks never expire. A non-positive TTL disables expiry.
func IsStale(s *Session, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || len(s.Tasks) > 0 {
		return false
	}
	return now.Sub(s.CreatedAt) >= ttl
}

// ApplyInsight overwrites the enrichment fields of a score, leaving the computed parts intact.
func ApplyInsight(score scoring.TaskScore, in Insight) scoring.TaskScore {
	score.Reasoning = in.Reasoning
	score.AutomationAdvice = in.AutomationAdvice
	score.SuggestedTools = in.SuggestedTools
	if score.SuggestedTools == nil {
		score.SuggestedTools = []scoring.ToolSuggestion{}
	}
	return score
}

func prepareNewSession(s *Session, existing int, now time.Time) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Token == uuid.Nil {
		s.Token = uuid.New()
	}
	if s.Name == "" {
		s.Name = DefaultSessionName(existing + 1)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Tasks = []scoring.Task{}
	s.Scores = map[string]scoring.TaskScore{}
}
