package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Readiness/internal/hermes"
	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

// engine holds what every handler needs: the store, the scoring defaults and
// the optional event publisher.
type engine struct {
	store      store.Store
	hermes     hermes.Client
	metrics    *Metrics
	defaults   scoring.Options
	hourlyRate *float64
	sessionTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// scorer builds a Scorer from the configured defaults overlaid with stored settings.
func (e *engine) scorer(ctx context.Context) (*scoring.Scorer, *store.Settings, error) {
	settings, err := e.store.GetSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts := e.defaults
	if settings.Weights != nil {
		opts.Weights = *settings.Weights
	}
	return scoring.NewScorer(opts, e.logger), settings, nil
}

func (e *engine) rate(settings *store.Settings) *float64 {
	if settings != nil && settings.HourlyRate != nil {
		return settings.HourlyRate
	}
	return e.hourlyRate
}

func (e *engine) publish(subject string, event interface{}) {
	if e.hermes == nil {
		return
	}
	if err := e.hermes.Publish(subject, event); err != nil {
		e.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// loadSession resolves the {id} URL param, writing the error response itself
// when the session cannot be returned. Empty sessions past the TTL are reset.
func (e *engine) loadSession(w http.ResponseWriter, r *http.Request) (*store.Session, bool) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return nil, false
	}

	sess, err := e.store.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}

	if !store.IsStale(sess, e.now(), e.sessionTTL) {
		return sess, true
	}

	fresh, err := e.store.ResetIfStale(r.Context(), id, e.now().Add(-e.sessionTTL))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if fresh == nil {
		// A task landed after the read; the session is no longer stale.
		if sess, err = e.store.GetSession(r.Context(), id); err != nil || sess == nil {
			writeError(w, http.StatusInternalServerError, "session changed while loading")
			return nil, false
		}
		return sess, true
	}

	e.logger.Info("reset expired session", "session_id", id)
	e.publish(hermes.SubjectSessionCleared(id.String()), hermes.SessionEvent{
		SessionID: id.String(), Name: fresh.Name, Timestamp: e.now(),
	})
	return fresh, true
}

func findTask(sess *store.Session, taskID string) (scoring.Task, bool) {
	for _, t := range sess.Tasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return scoring.Task{}, false
}
