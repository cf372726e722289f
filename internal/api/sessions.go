package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Readiness/internal/hermes"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type SessionsHandler struct {
	*engine
}

func NewSessionsHandler(e *engine) *SessionsHandler {
	return &SessionsHandler{engine: e}
}

type SessionRequest struct {
	Name string `json:"name"`
}

func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sess := &store.Session{Name: strings.TrimSpace(req.Name)}
	if err := h.store.CreateSession(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("session created", "session_id", sess.ID, "name", sess.Name)
	h.publish(hermes.SubjectSessionCreated(sess.ID.String()), hermes.SessionEvent{
		SessionID: sess.ID.String(), Name: sess.Name, Timestamp: h.now(),
	})
	writeJSON(w, http.StatusCreated, sess)
}

func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sessions == nil {
		sessions = []*store.SessionMeta{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Rename handles PATCH /api/v1/sessions/{id}.
func (h *SessionsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	var req SessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.store.RenameSession(r.Context(), id, name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String(), "name": name})
}

func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := h.store.DeleteSession(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("session deleted", "session_id", id)
	h.publish(hermes.SubjectSessionDeleted(id.String()), hermes.SessionEvent{SessionID: id.String(), Timestamp: h.now()})
	w.WriteHeader(http.StatusNoContent)
}

// Clear drops every task and rotates the session token, keeping id and name.
func (h *SessionsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	sess, err := h.store.ClearSession(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("session cleared", "session_id", id)
	h.publish(hermes.SubjectSessionCleared(id.String()), hermes.SessionEvent{
		SessionID: id.String(), Name: sess.Name, Timestamp: h.now(),
	})
	writeJSON(w, http.StatusOK, sess)
}
