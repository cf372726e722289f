package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Readiness/internal/hermes"
	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type TasksHandler struct {
	*engine
}

func NewTasksHandler(e *engine) *TasksHandler {
	return &TasksHandler{engine: e}
}

type TaskResponse struct {
	Task  scoring.Task      `json:"task"`
	Score scoring.TaskScore `json:"score"`
}

// Create handles POST /api/v1/sessions/{id}/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	var task scoring.Task
	if err := decodeBody(r, &task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if _, exists := findTask(sess, task.ID); exists {
		writeError(w, http.StatusConflict, "task id already exists in session")
		return
	}
	if problems := scoring.ValidateTask(&task); len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, validationBody(problems))
		return
	}

	score, err := h.scoreAndSave(r.Context(), sess.ID, task, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, TaskResponse{Task: task, Score: score})
}

// Update handles PUT /api/v1/sessions/{id}/tasks/{task_id}. The task is rescored,
// which discards any earlier enhancement.
func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	taskID := chi.URLParam(r, "task_id")
	if _, exists := findTask(sess, taskID); !exists {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	var task scoring.Task
	if err := decodeBody(r, &task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	task.ID = taskID
	if problems := scoring.ValidateTask(&task); len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, validationBody(problems))
		return
	}

	score, err := h.scoreAndSave(r.Context(), sess.ID, task, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TaskResponse{Task: task, Score: score})
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	taskID := chi.URLParam(r, "task_id")

	if err := h.store.DeleteTask(r.Context(), id, taskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publish(hermes.SubjectTaskRemoved(taskID), hermes.TaskRemovedEvent{SessionID: id.String(), TaskID: taskID})
	w.WriteHeader(http.StatusNoContent)
}

// Rescore handles POST /api/v1/sessions/{id}/rescore, rescoring every task with
// the current weights. Enhancements are discarded.
func (h *TasksHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	scorer, _, err := h.scorer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, task := range sess.Tasks {
		score := scorer.Score(task)
		if err := h.store.SaveTask(r.Context(), sess.ID, task, score); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.metrics.observeScore(score)
		sess.Scores[task.ID] = score
	}

	h.logger.Info("session rescored", "session_id", sess.ID, "tasks", len(sess.Tasks))
	writeJSON(w, http.StatusOK, sess)
}

func (h *TasksHandler) scoreAndSave(ctx context.Context, sessionID uuid.UUID, task scoring.Task, rescored bool) (scoring.TaskScore, error) {
	scorer, _, err := h.scorer(ctx)
	if err != nil {
		return scoring.TaskScore{}, err
	}
	score := scorer.Score(task)
	if err := h.store.SaveTask(ctx, sessionID, task, score); err != nil {
		return scoring.TaskScore{}, err
	}

	h.metrics.observeScore(score)
	h.logger.Info("task scored",
		"session_id", sessionID,
		"task_id", task.ID,
		"final_score", score.FinalScore,
		"category", score.Category,
	)
	h.publish(hermes.SubjectTaskScored(task.ID), hermes.TaskScoredEvent{
		SessionID:  sessionID.String(),
		TaskID:     task.ID,
		FinalScore: score.FinalScore,
		Category:   score.Category,
		Rescored:   rescored,
	})
	return score, nil
}

// HandleScoreRequest consumes intake requests published by other services.
func (h *TasksHandler) HandleScoreRequest(subject string, data []byte) {
	var evt hermes.ScoreRequestEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		h.logger.Warn("invalid score request", "subject", subject, "error", err)
		return
	}
	if err := h.intake(context.Background(), evt); err != nil {
		h.logger.Warn("score request rejected",
			"session_id", evt.SessionID,
			"task_id", evt.Task.ID,
			"source", evt.Source,
			"error", err,
		)
	}
}

func (h *TasksHandler) intake(ctx context.Context, evt hermes.ScoreRequestEvent) error {
	sessionID, err := uuid.Parse(evt.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id: %w", err)
	}
	sess, err := h.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return store.ErrNotFound
	}

	task := evt.Task
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if problems := scoring.ValidateTask(&task); len(problems) > 0 {
		return fmt.Errorf("invalid task: %v", problems)
	}
	_, exists := findTask(sess, task.ID)
	_, err = h.scoreAndSave(ctx, sessionID, task, exists)
	return err
}
