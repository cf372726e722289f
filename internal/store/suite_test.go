package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

func sampleTask(id string) scoring.Task {
	return scoring.Task{
		ID:          id,
		Name:        "Invoice entry " + id,
		Department:  "Finance",
		Description: "Copy invoice totals from email into the spreadsheet every day",
		Frequency:   scoring.FrequencyDailyHigh,
		TimePerTask: 10,
		Inputs:      []string{"Email", "PDF Documents"},
		Outputs:     []string{"Excel/Spreadsheets"},
	}
}

// runStoreSuite exercises the Store contract against any backend.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create assigns id token and default name", func(t *testing.T) {
		s := newStore(t)
		first := &Session{}
		require.NoError(t, s.CreateSession(ctx, first))
		second := &Session{}
		require.NoError(t, s.CreateSession(ctx, second))

		assert.NotEqual(t, uuid.Nil, first.ID)
		assert.NotEqual(t, uuid.Nil, first.Token)
		assert.Equal(t, "Assessment 1", first.Name)
		assert.Equal(t, "Assessment 2", second.Name)
		assert.False(t, first.CreatedAt.IsZero())
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetSession(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("save task preserves insertion order and replaces in place", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{Name: "Ops"}
		require.NoError(t, s.CreateSession(ctx, sess))

		for _, id := range []string{"a", "b", "c"} {
			task := sampleTask(id)
			require.NoError(t, s.SaveTask(ctx, sess.ID, task, scoring.ScoreTask(task, nil)))
		}

		edited := sampleTask("a")
		edited.Name = "Renamed"
		edited.Frequency = scoring.FrequencyMonthlyOrLess
		editedScore := scoring.ScoreTask(edited, nil)
		require.NoError(t, s.SaveTask(ctx, sess.ID, edited, editedScore))

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Tasks, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{got.Tasks[0].ID, got.Tasks[1].ID, got.Tasks[2].ID})
		assert.Equal(t, "Renamed", got.Tasks[0].Name)
		assert.Equal(t, []string{"Email", "PDF Documents"}, got.Tasks[0].Inputs)
		assert.Equal(t, editedScore, got.Scores["a"])
		assert.Len(t, got.Scores, 3)
	})

	t.Run("save task on missing session", func(t *testing.T) {
		s := newStore(t)
		task := sampleTask("x")
		err := s.SaveTask(ctx, uuid.New(), task, scoring.ScoreTask(task, nil))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete task", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{}
		require.NoError(t, s.CreateSession(ctx, sess))
		task := sampleTask("a")
		require.NoError(t, s.SaveTask(ctx, sess.ID, task, scoring.ScoreTask(task, nil)))

		require.NoError(t, s.DeleteTask(ctx, sess.ID, "a"))
		assert.ErrorIs(t, s.DeleteTask(ctx, sess.ID, "a"), ErrNotFound)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Tasks)
		assert.Empty(t, got.Scores)
	})

	t.Run("list reports task counts", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{}
		require.NoError(t, s.CreateSession(ctx, sess))
		for _, id := range []string{"a", "b"} {
			task := sampleTask(id)
			require.NoError(t, s.SaveTask(ctx, sess.ID, task, scoring.ScoreTask(task, nil)))
		}

		metas, err := s.ListSessions(ctx)
		require.NoError(t, err)
		var found *SessionMeta
		for _, m := range metas {
			if m.ID == sess.ID {
				found = m
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, 2, found.TaskCount)
	})

	t.Run("rename and delete", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{}
		require.NoError(t, s.CreateSession(ctx, sess))
		task := sampleTask("a")
		require.NoError(t, s.SaveTask(ctx, sess.ID, task, scoring.ScoreTask(task, nil)))

		require.NoError(t, s.RenameSession(ctx, sess.ID, "Q3 review"))
		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "Q3 review", got.Name)

		require.NoError(t, s.DeleteSession(ctx, sess.ID))
		got, err = s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, s.RenameSession(ctx, sess.ID, "x"), ErrNotFound)
		assert.ErrorIs(t, s.DeleteSession(ctx, sess.ID), ErrNotFound)
	})

	t.Run("clear rotates token and empties tasks", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{Name: "Keep me"}
		require.NoError(t, s.CreateSession(ctx, sess))
		task := sampleTask("a")
		require.NoError(t, s.SaveTask(ctx, sess.ID, task, scoring.ScoreTask(task, nil)))

		cleared, err := s.ClearSession(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, cleared)
		assert.Equal(t, sess.ID, cleared.ID)
		assert.Equal(t, "Keep me", cleared.Name)
		assert.NotEqual(t, sess.Token, cleared.Token)
		assert.Empty(t, cleared.Tasks)
		assert.Empty(t, cleared.Scores)

		_, err = s.ClearSession(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reset if stale rotates empty session", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{Name: "Idle"}
		require.NoError(t, s.CreateSession(ctx, sess))

		fresh, err := s.ResetIfStale(ctx, sess.ID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NotNil(t, fresh)
		assert.Equal(t, sess.ID, fresh.ID)
		assert.Equal(t, "Idle", fresh.Name)
		assert.NotEqual(t, sess.Token, fresh.Token)

		_, err = s.ResetIfStale(ctx, uuid.New(), time.Now())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reset if stale skips recent session", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{}
		require.NoError(t, s.CreateSession(ctx, sess))

		fresh, err := s.ResetIfStale(ctx, sess.ID, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Nil(t, fresh)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.Token, got.Token)
	})

	t.Run("reset if stale keeps task saved after listing", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{}
		require.NoError(t, s.CreateSession(ctx, sess))

		metas, err := s.ListSessions(ctx)
		require.NoError(t, err)
		require.Len(t, metas, 1)
		require.Zero(t, metas[0].TaskCount)

		task := sampleTask("late")
		require.NoError(t, s.SaveTask(ctx, sess.ID, task, scoring.ScoreTask(task, nil)))

		fresh, err := s.ResetIfStale(ctx, sess.ID, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Nil(t, fresh)

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.Len(t, got.Tasks, 1)
		assert.Equal(t, "late", got.Tasks[0].ID)
		assert.Equal(t, sess.Token, got.Token)
	})

	t.Run("insight overwrites enrichment only", func(t *testing.T) {
		s := newStore(t)
		sess := &Session{}
		require.NoError(t, s.CreateSession(ctx, sess))
		task := sampleTask("a")
		score := scoring.ScoreTask(task, nil)
		require.NoError(t, s.SaveTask(ctx, sess.ID, task, score))

		in := Insight{
			Reasoning:        "Structured inputs and a fixed routine.",
			AutomationAdvice: "Parse invoices with a document AI and post totals to the sheet.",
			SuggestedTools:   []scoring.ToolSuggestion{{Category: "OCR", Name: "Document AI", Explanation: "Extract totals."}},
		}
		require.NoError(t, s.UpdateScoreInsight(ctx, sess.ID, "a", in))

		got, err := s.GetSession(ctx, sess.ID)
		require.NoError(t, err)
		updated := got.Scores["a"]
		assert.Equal(t, score.FinalScore, updated.FinalScore)
		assert.Equal(t, score.CriteriaScores, updated.CriteriaScores)
		assert.Equal(t, score.Category, updated.Category)
		assert.Equal(t, in.Reasoning, updated.Reasoning)
		assert.Equal(t, in.AutomationAdvice, updated.AutomationAdvice)
		assert.Equal(t, in.SuggestedTools, updated.SuggestedTools)

		assert.ErrorIs(t, s.UpdateScoreInsight(ctx, sess.ID, "missing", in), ErrNotFound)
	})

	t.Run("settings round trip and reset", func(t *testing.T) {
		s := newStore(t)
		empty, err := s.GetSettings(ctx)
		require.NoError(t, err)
		assert.Nil(t, empty.Weights)
		assert.Nil(t, empty.HourlyRate)

		w := scoring.WeightSet{Frequency: 0.4, Repetitiveness: 0.2, DataDependency: 0.2, DecisionVariability: 0.1, Complexity: 0.1}
		rate := 55.0
		require.NoError(t, s.SaveSettings(ctx, &Settings{Weights: &w, HourlyRate: &rate}))

		got, err := s.GetSettings(ctx)
		require.NoError(t, err)
		require.NotNil(t, got.Weights)
		require.NotNil(t, got.HourlyRate)
		assert.Equal(t, w, *got.Weights)
		assert.Equal(t, 55.0, *got.HourlyRate)

		require.NoError(t, s.SaveSettings(ctx, &Settings{HourlyRate: &rate}))
		got, err = s.GetSettings(ctx)
		require.NoError(t, err)
		assert.Nil(t, got.Weights)
		assert.NotNil(t, got.HourlyRate)
	})
}
