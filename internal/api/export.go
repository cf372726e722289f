package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/MikeSquared-Agency/Readiness/internal/export"
)

type ExportHandler struct {
	*engine
}

func NewExportHandler(e *engine) *ExportHandler {
	return &ExportHandler{engine: e}
}

// Export handles GET /api/v1/sessions/{id}/export?format=csv|json.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, sess, now); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(format, now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Summary handles GET /api/v1/sessions/{id}/summary.
func (h *ExportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, export.Summarize(sess, h.rate(settings)))
}
