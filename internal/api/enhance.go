package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Readiness/internal/enhance"
	"github.com/MikeSquared-Agency/Readiness/internal/hermes"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type EnhanceHandler struct {
	*engine
	enhancer enhance.Enhancer
	timeout  time.Duration
}

func NewEnhanceHandler(e *engine, enh enhance.Enhancer, timeout time.Duration) *EnhanceHandler {
	return &EnhanceHandler{engine: e, enhancer: enh, timeout: timeout}
}

// Enhance handles POST /api/v1/sessions/{id}/tasks/{task_id}/enhance. Only the
// narrative fields of the stored score change; the numbers never do.
func (h *EnhanceHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	if h.enhancer == nil {
		writeError(w, http.StatusNotImplemented, "enhancement is not configured")
		return
	}

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "task_id")
	task, found := findTask(sess, taskID)
	score, scored := sess.Scores[taskID]
	if !found || !scored {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	provider := h.enhancer.Name()
	insight, err := h.enhancer.Enhance(ctx, enhance.RequestFor(task, score))
	if err != nil {
		h.logger.Warn("enhancement failed", "session_id", sess.ID, "task_id", taskID, "provider", provider, "error", err)
		if enhance.IsTransient(err) {
			h.metrics.observeEnhancement(provider, "transient_error")
			w.Header().Set("Retry-After", "30")
			writeError(w, http.StatusServiceUnavailable, "enhancement provider is temporarily unavailable")
			return
		}
		h.metrics.observeEnhancement(provider, "error")
		writeError(w, http.StatusBadGateway, "enhancement provider error")
		return
	}

	in := store.Insight{
		Reasoning:        insight.Reasoning,
		AutomationAdvice: insight.AutomationAdvice,
		SuggestedTools:   insight.SuggestedTools,
	}
	if err := h.store.UpdateScoreInsight(r.Context(), sess.ID, taskID, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.observeEnhancement(provider, "ok")

	h.publish(hermes.SubjectTaskEnhanced(taskID), hermes.TaskEnhancedEvent{
		SessionID: sess.ID.String(),
		TaskID:    taskID,
		Provider:  provider,
		ToolCount: len(in.SuggestedTools),
	})
	writeJSON(w, http.StatusOK, TaskResponse{Task: task, Score: store.ApplyInsight(score, in)})
}
