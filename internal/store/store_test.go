package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	tests := []struct {
		name    string
		created time.Time
		tasks   int
		ttl     time.Duration
		want    bool
	}{
		{"fresh empty", now.Add(-time.Hour), 0, week, false},
		{"expired empty", now.Add(-8 * 24 * time.Hour), 0, week, true},
		{"exactly ttl", now.Add(-week), 0, week, true},
		{"expired with tasks", now.Add(-30 * 24 * time.Hour), 2, week, false},
		{"ttl disabled", now.Add(-365 * 24 * time.Hour), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{CreatedAt: tt.created}
			for i := 0; i < tt.tasks; i++ {
				s.Tasks = append(s.Tasks, sampleTask(uuid.NewString()))
			}
			if got := IsStale(s, now, tt.ttl); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyInsight(t *testing.T) {
	score := scoring.ScoreTask(sampleTask("a"), nil)
	out := ApplyInsight(score, Insight{Reasoning: "r", AutomationAdvice: "adv"})

	if out.FinalScore != score.FinalScore || out.Category != score.Category {
		t.Errorf("computed fields changed: %+v", out)
	}
	if out.Reasoning != "r" || out.AutomationAdvice != "adv" {
		t.Errorf("enrichment not applied: %+v", out)
	}
	if out.SuggestedTools == nil || len(out.SuggestedTools) != 0 {
		t.Errorf("expected empty non-nil tools, got %#v", out.SuggestedTools)
	}
}

func TestDefaultSessionName(t *testing.T) {
	if got := DefaultSessionName(3); got != "Assessment 3" {
		t.Errorf("DefaultSessionName(3) = %q", got)
	}
}

func TestPrepareNewSession_KeepsProvidedFields(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	s := &Session{ID: id, Name: "Mine"}
	prepareNewSession(s, 4, now)

	if s.ID != id || s.Name != "Mine" {
		t.Errorf("provided fields overwritten: %+v", s)
	}
	if s.Token == uuid.Nil {
		t.Error("expected token to be assigned")
	}
	if !s.CreatedAt.Equal(now) || s.Tasks == nil || s.Scores == nil {
		t.Errorf("unexpected init: %+v", s)
	}
}
