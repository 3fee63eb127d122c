package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/logger"
	"equipment-dispatch-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

// actorHeader carries the id of the user performing the operation. The
// surrounding platform authenticates requests before they reach this
// backend; absent the header, transitions are attributed to the system.
const actorHeader = "X-User-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps service errors to HTTP statuses: unknown ids are 404,
// state and exhaustion conflicts are 409, validation failures are 422.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrNoOpenOffer),
		errors.Is(err, domain.ErrOfferInFlight),
		errors.Is(err, domain.ErrRequestNotInProgress),
		errors.Is(err, domain.ErrRequestComplete),
		errors.Is(err, domain.ErrListAlreadyBuilt),
		errors.Is(err, domain.ErrListNotExhausted),
		errors.Is(err, domain.ErrEmptyPool),
		errors.Is(err, domain.ErrNoCandidatesRemaining):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidHistory),
		errors.Is(err, domain.ErrMissingOverrideReason),
		errors.Is(err, domain.ErrMissingRefusalReason),
		errors.Is(err, domain.ErrMissingForceHireReason),
		errors.Is(err, domain.ErrInvalidResponse):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeAndValidate parses the JSON body into dst and runs its validation
// tags. Malformed bodies and failed tags both surface as 422.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func pathID(r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int32(id), true
}

func actorID(r *http.Request) int32 {
	raw := r.Header.Get(actorHeader)
	if raw == "" {
		return service.SystemActorID
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id < 0 {
		return service.SystemActorID
	}
	return int32(id)
}
