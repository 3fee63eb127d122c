package domain

import "errors"

// Validation errors. Rejected before any state change; the caller can retry
// with corrected input.
var (
	ErrInvalidHistory          = errors.New("seniority history contains negative hours or years of service")
	ErrMissingOverrideReason   = errors.New("override reason is required when overriding a seniority score")
	ErrMissingRefusalReason    = errors.New("refusal reason is required when refusing an offer")
	ErrMissingForceHireReason  = errors.New("a reason is required when force hiring")
	ErrInvalidResponse         = errors.New("offer response must be accept or refuse")
)

// State conflicts. Surfaced to the caller; retrying without refreshing state
// will fail again.
var (
	ErrAlreadySettled       = errors.New("rotation entry is already settled")
	ErrNoOpenOffer          = errors.New("rotation entry has no open offer to respond to")
	ErrOfferInFlight        = errors.New("an offer is already in flight for this rental request")
	ErrRequestNotInProgress = errors.New("rental request is not in progress")
	ErrRequestComplete      = errors.New("rental request is already complete")
	ErrListAlreadyBuilt     = errors.New("rotation list already built for this rental request")
	ErrListNotExhausted     = errors.New("rotation list still has unsettled candidates")
)

// Pool exhaustion. A normal terminal outcome, not a fault: the caller decides
// what to do with an unfillable request.
var (
	ErrEmptyPool             = errors.New("no equipment matches the rotation pool filter")
	ErrNoCandidatesRemaining = errors.New("no candidates remaining on the rotation list")
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")
