package http

import (
	"net/http"
	"time"

	"equipment-dispatch-backend/internal/service"
	"equipment-dispatch-backend/internal/utils"

	"github.com/gorilla/mux"
)

// RotationHandler exposes rotation list builds and reads.
type RotationHandler struct {
	rotationSvc service.RotationService
}

// NewRotationHandler creates a new rotation handler.
func NewRotationHandler(rotationSvc service.RotationService) *RotationHandler {
	return &RotationHandler{rotationSvc: rotationSvc}
}

type buildListPayload struct {
	FiscalYear int32 `json:"fiscalYear" validate:"omitempty,gt=2000"`
}

// HandleGetRotationList returns the request's entries in call-out order
// with their block-seniority labels.
func (h *RotationHandler) HandleGetRotationList(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	views, err := h.rotationSvc.GetRotationList(r.Context(), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleBuildRotationList snapshots the rotation list for a request. The
// fiscal year defaults to the current one when the body omits it.
func (h *RotationHandler) HandleBuildRotationList(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	payload := buildListPayload{}
	if r.ContentLength > 0 && !decodeAndValidate(w, r, &payload) {
		return
	}
	fiscalYear := payload.FiscalYear
	if fiscalYear == 0 {
		fiscalYear = utils.FiscalYearFor(time.Now())
	}
	entries, err := h.rotationSvc.BuildForRequest(r.Context(), actorID(r), requestID, fiscalYear)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entries)
}

// RegisterRotationRoutes registers the rotation list endpoints.
func RegisterRotationRoutes(router *mux.Router, rotationSvc service.RotationService) {
	handler := NewRotationHandler(rotationSvc)
	router.HandleFunc("/api/rental-requests/{id}/rotation-list", handler.HandleGetRotationList).Methods("GET")
	router.HandleFunc("/api/rental-requests/{id}/rotation-list", handler.HandleBuildRotationList).Methods("POST")
}
