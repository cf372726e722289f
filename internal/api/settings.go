package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
	"github.com/MikeSquared-Agency/Readiness/internal/store"
)

type SettingsHandler struct {
	*engine
}

func NewSettingsHandler(e *engine) *SettingsHandler {
	return &SettingsHandler{engine: e}
}

type SettingsResponse struct {
	Weights          scoring.WeightSet `json:"weights"`
	DefaultWeights   scoring.WeightSet `json:"defaultWeights"`
	NormalizeWeights bool              `json:"normalizeWeights"`
	HourlyRate       *float64          `json:"hourlyRate"`
	Custom           bool              `json:"custom"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	scorer, settings, err := h.scorer(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{
		Weights:          scorer.Weights(),
		DefaultWeights:   h.defaults.Weights,
		NormalizeWeights: h.defaults.NormalizeWeights,
		HourlyRate:       h.rate(settings),
		Custom:           settings.Weights != nil,
	})
}

// Put replaces the stored settings. Omitted fields revert to the configured defaults.
// Existing scores are not recomputed; POST /sessions/{id}/rescore does that.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req store.Settings
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Weights != nil {
		if err := req.Weights.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Weights.Sum() <= 0 {
			writeError(w, http.StatusBadRequest, "weights must not all be zero")
			return
		}
	}
	if req.HourlyRate != nil && *req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "hourlyRate must not be negative")
		return
	}

	if err := h.store.SaveSettings(r.Context(), &req); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("settings updated", "custom_weights", req.Weights != nil, "hourly_rate_set", req.HourlyRate != nil)
	h.Get(w, r)
}
