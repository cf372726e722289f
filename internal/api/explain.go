package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Readiness/internal/scoring"
)

type ScoringHandler struct {
	*engine
}

func NewScoringHandler(e *engine) *ScoringHandler {
	return &ScoringHandler{engine: e}
}

type ExplainResponse struct {
	TaskID            string            `json:"taskId"`
	FinalScore        int               `json:"finalScore"`
	Category          scoring.Category  `json:"category"`
	Factors           []scoring.Factor  `json:"factors"`
	Weights           scoring.WeightSet `json:"weights"`
	MonthlyHoursSaved float64           `json:"monthlyHoursSaved"`
	MonthlyValue      float64           `json:"monthlyValue"`
}

// Preview scores a task without storing it.
// POST /api/v1/scoring/preview
func (h *ScoringHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var task scoring.Task
	if err := decodeBody(r, &task); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if problems := scoring.ValidateTask(&task); len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, validationBody(problems))
		return
	}

	resp, err := h.explain(r, task)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Explain returns the factor breakdown and ROI for a stored task.
// GET /api/v1/scoring/explain/{id}/{task_id}
func (h *ScoringHandler) Explain(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}
	task, found := findTask(sess, chi.URLParam(r, "task_id"))
	if !found {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	resp, err := h.explain(r, task)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) explain(r *http.Request, task scoring.Task) (*ExplainResponse, error) {
	scorer, settings, err := h.scorer(r.Context())
	if err != nil {
		return nil, err
	}
	score := scorer.Score(task)
	return &ExplainResponse{
		TaskID:            task.ID,
		FinalScore:        score.FinalScore,
		Category:          score.Category,
		Factors:           scorer.Explain(task),
		Weights:           scorer.Weights(),
		MonthlyHoursSaved: scoring.EstimateMonthlyTimeSaved(task, score.FinalScore),
		MonthlyValue:      scoring.EstimateMonthlyValue(task, score.FinalScore, h.rate(settings)),
	}, nil
}
