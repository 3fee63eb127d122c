package http

import (
	"net/http"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"
	"equipment-dispatch-backend/internal/service"

	"github.com/gorilla/mux"
)

// RequestHandler exposes rental request intake and lookup. The heavier
// transitions (offers, cancellation, closure) live on DispatchHandler.
type RequestHandler struct {
	requestRepo repository.RentalRequestRepository
	auditSvc    service.AuditService
}

// NewRequestHandler creates a new rental request handler.
func NewRequestHandler(requestRepo repository.RentalRequestRepository, auditSvc service.AuditService) *RequestHandler {
	return &RequestHandler{requestRepo: requestRepo, auditSvc: auditSvc}
}

type createRequestPayload struct {
	LocalAreaID     int32 `json:"localAreaId" validate:"required,gt=0"`
	EquipmentTypeID int32 `json:"equipmentTypeId" validate:"required,gt=0"`
	EquipmentCount  int32 `json:"equipmentCount" validate:"required,gt=0"`
}

// HandleCreate opens a new rental request in progress.
func (h *RequestHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createRequestPayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	actor := actorID(r)
	req := &domain.RentalRequest{
		LocalAreaID:     payload.LocalAreaID,
		EquipmentTypeID: payload.EquipmentTypeID,
		EquipmentCount:  payload.EquipmentCount,
		Status:          domain.RentalRequestStatusInProgress,
	}
	req.Audit.CreatedBy = actor
	req.Audit.UpdatedBy = actor

	if err := h.requestRepo.Create(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.auditSvc.Record(r.Context(), actor, domain.AuditActionRequestCreated, domain.EntityTypeRentalRequest, req.ID, nil, req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// HandleGet returns one rental request.
func (h *RequestHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid rental request id"})
		return
	}
	req, err := h.requestRepo.GetByID(r.Context(), requestID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// RegisterRequestRoutes registers the rental request endpoints.
func RegisterRequestRoutes(router *mux.Router, requestRepo repository.RentalRequestRepository, auditSvc service.AuditService) {
	handler := NewRequestHandler(requestRepo, auditSvc)
	router.HandleFunc("/api/rental-requests", handler.HandleCreate).Methods("POST")
	router.HandleFunc("/api/rental-requests/{id}", handler.HandleGet).Methods("GET")
}
