package http

import (
	"net/http"
	"strconv"

	"equipment-dispatch-backend/internal/service"

	"github.com/gorilla/mux"
)

// AuditHandler exposes the dispatch audit trail.
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// HandleList returns recent audit records, newest first. With entityType
// and entityId query parameters it returns one entity's history instead.
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if entityType := q.Get("entityType"); entityType != "" {
		entityID, err := strconv.ParseInt(q.Get("entityId"), 10, 32)
		if err != nil || entityID <= 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid entityId"})
			return
		}
		records, err := h.auditSvc.ListForEntity(r.Context(), entityType, int32(entityID))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	limit := queryInt32(q.Get("limit"), 100)
	offset := queryInt32(q.Get("offset"), 0)
	records, err := h.auditSvc.ListRecent(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func queryInt32(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return fallback
	}
	return int32(v)
}

// RegisterAuditRoutes registers the audit trail endpoint.
func RegisterAuditRoutes(router *mux.Router, auditSvc service.AuditService) {
	handler := NewAuditHandler(auditSvc)
	router.HandleFunc("/api/audit", handler.HandleList).Methods("GET")
}
