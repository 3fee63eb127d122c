package http

import (
	"net/http"
	"time"

	"equipment-dispatch-backend/internal/service"
	"equipment-dispatch-backend/internal/utils"

	"github.com/gorilla/mux"
)

// SeniorityHandler exposes score overrides and recalculation triggers.
type SeniorityHandler struct {
	senioritySvc service.SeniorityService
}

// NewSeniorityHandler creates a new seniority handler.
func NewSeniorityHandler(senioritySvc service.SeniorityService) *SeniorityHandler {
	return &SeniorityHandler{senioritySvc: senioritySvc}
}

type overridePayload struct {
	FiscalYear int32   `json:"fiscalYear" validate:"omitempty,gt=2000"`
	Score      float64 `json:"score" validate:"gte=0"`
	Reason     string  `json:"reason" validate:"required"`
}

type recalculatePayload struct {
	FiscalYear int32 `json:"fiscalYear" validate:"omitempty,gt=2000"`
	// Rollover shifts every record's hours into the new fiscal year before
	// recalculating, instead of recomputing the current year in place.
	Rollover bool `json:"rollover"`
}

// HandleOverride replaces a machine's computed score with a manual one.
func (h *SeniorityHandler) HandleOverride(w http.ResponseWriter, r *http.Request) {
	equipmentID, ok := pathID(r, "equipmentId")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid equipment id"})
		return
	}
	var payload overridePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	fiscalYear := payload.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = utils.FiscalYearFor(time.Now())
	}
	rec, err := h.senioritySvc.OverrideScore(r.Context(), actorID(r), equipmentID, fiscalYear, payload.Score, payload.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleRecalculate recomputes every pool, or runs the fiscal-year rollover
// when the payload asks for it.
func (h *SeniorityHandler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	payload := recalculatePayload{}
	if r.ContentLength > 0 && !decodeAndValidate(w, r, &payload) {
		return
	}
	fiscalYear := payload.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = utils.FiscalYearFor(time.Now())
	}

	var err error
	if payload.Rollover {
		err = h.senioritySvc.RunFiscalYearRollover(r.Context(), actorID(r), fiscalYear)
	} else {
		err = h.senioritySvc.RecalculateAll(r.Context(), actorID(r), fiscalYear)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fiscalYear": fiscalYear,
		"rollover":   payload.Rollover,
	})
}

// RegisterSeniorityRoutes registers the seniority endpoints.
func RegisterSeniorityRoutes(router *mux.Router, senioritySvc service.SeniorityService) {
	handler := NewSeniorityHandler(senioritySvc)
	router.HandleFunc("/api/seniority/{equipmentId}/override", handler.HandleOverride).Methods("POST")
	router.HandleFunc("/api/seniority/recalculate", handler.HandleRecalculate).Methods("POST")
}
