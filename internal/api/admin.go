package api

import (
	"net/http"
)

type AdminHandler struct {
	*engine
}

func NewAdminHandler(e *engine) *AdminHandler {
	return &AdminHandler{engine: e}
}

// Stats is an operator view of the session store.
type Stats struct {
	Sessions      int `json:"sessions"`
	Tasks         int `json:"tasks"`
	EmptySessions int `json:"emptySessions"`
	StaleSessions int `json:"staleSessions"`
}

// Stats handles GET /api/v1/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.ListSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := h.now()
	var stats Stats
	for _, s := range sessions {
		stats.Sessions++
		stats.Tasks += s.TaskCount
		if s.TaskCount > 0 {
			continue
		}
		stats.EmptySessions++
		if h.sessionTTL > 0 && now.Sub(s.CreatedAt) >= h.sessionTTL {
			stats.StaleSessions++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}
