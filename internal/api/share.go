package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Readiness/internal/auth"
	"github.com/MikeSquared-Agency/Readiness/internal/export"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type ShareHandler struct {
	*engine
	secret []byte
	ttl    time.Duration
}

func NewShareHandler(e *engine, secret string, ttl time.Duration) *ShareHandler {
	return &ShareHandler{engine: e, secret: []byte(secret), ttl: ttl}
}

type ShareResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type SharedSessionResponse struct {
	Session *store.Session `json:"session"`
	Summary export.Summary `json:"summary"`
}

// Create handles POST /api/v1/sessions/{id}/share.
func (h *ShareHandler) Create(w http.ResponseWriter, r *http.Request) {
	if len(h.secret) == 0 {
		writeError(w, http.StatusNotImplemented, "sharing is not configured")
		return
	}
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	token, exp, err := auth.GenerateShareToken(h.secret, sess.ID, sess.Token, h.ttl)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("share link issued", "session_id", sess.ID, "expires_at", exp)
	writeJSON(w, http.StatusCreated, ShareResponse{
		Token:     token,
		URL:       "/api/v1/shared/" + token,
		ExpiresAt: exp,
	})
}

// View handles GET /api/v1/shared/{token}: a read-only copy of the session.
func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	share, err := auth.ParseShareToken(h.secret, chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired share link")
		return
	}

	sess, err := h.store.GetSession(r.Context(), share.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if sess == nil || sess.Token != share.SessionToken {
		writeError(w, http.StatusGone, "shared session no longer exists")
		return
	}

	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SharedSessionResponse{
		Session: sess,
		Summary: export.Summarize(sess, h.rate(settings)),
	})
}
