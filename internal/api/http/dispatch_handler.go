package http

import (
	"net/http"

	"equipment-dispatch-backend/internal/service"

	"github.com/gorilla/mux"
)

// DispatchHandler exposes the rotation call-out transitions.
type DispatchHandler struct {
	dispatchSvc service.DispatchService
}

// NewDispatchHandler creates a new dispatch handler.
func NewDispatchHandler(dispatchSvc service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatchSvc: dispatchSvc}
}

type respondPayload struct {
	Response string `json:"response" validate:"required,oneof=accept refuse"`
	Reason   string `json:"reason"`
}

type forceHirePayload struct {
	EquipmentID int32  `json:"equipmentId" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"required"`
}

// HandleOfferNext offers the request's work to the next candidate in order.
func (h *DispatchHandler) HandleOfferNext(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	entry, err := h.dispatchSvc.OfferNext(r.Context(), actorID(r), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleRespond settles the open offer on a rotation list entry.
func (h *DispatchHandler) HandleRespond(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rotation entry id"})
		return
	}
	var payload respondPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	entry, err := h.dispatchSvc.RecordResponse(r.Context(), actorID(r), entryID, service.OfferResponse(payload.Response), payload.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleForceHire hires equipment outside the normal rotation order.
func (h *DispatchHandler) HandleForceHire(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	var payload forceHirePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}
	entry, err := h.dispatchSvc.ForceHire(r.Context(), actorID(r), requestID, payload.EquipmentID, payload.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleCancel cancels a rental request and expires its open entries.
func (h *DispatchHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	req, err := h.dispatchSvc.CancelRequest(r.Context(), actorID(r), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// HandleClose completes a request whose candidate list is exhausted.
func (h *DispatchHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	req, err := h.dispatchSvc.CloseRequest(r.Context(), actorID(r), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// RegisterDispatchRoutes registers the dispatch transition endpoints.
func RegisterDispatchRoutes(router *mux.Router, dispatchSvc service.DispatchService) {
	handler := NewDispatchHandler(dispatchSvc)
	router.HandleFunc("/api/rental-requests/{id}/offer-next", handler.HandleOfferNext).Methods("POST")
	router.HandleFunc("/api/rental-requests/{id}/force-hire", handler.HandleForceHire).Methods("POST")
	router.HandleFunc("/api/rental-requests/{id}/cancel", handler.HandleCancel).Methods("POST")
	router.HandleFunc("/api/rental-requests/{id}/close", handler.HandleClose).Methods("POST")
	router.HandleFunc("/api/rotation-entries/{id}/respond", handler.HandleRespond).Methods("POST")
}
