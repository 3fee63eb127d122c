package service

import (
	"context"
	"time"

	"equipment-dispatch-backend/internal/domain"
)

// OfferResponse is an equipment owner's answer to a dispatch offer.
type OfferResponse string

const (
	ResponseAccept OfferResponse = "accept"
	ResponseRefuse OfferResponse = "refuse"
)

// SystemActorID identifies transitions made by the engine itself, such as
// offer-window expiry.
const SystemActorID int32 = 0

// RotationEntryView is a rotation list entry decorated with its
// block-seniority display label, e.g. "Open-500".
type RotationEntryView struct {
	domain.RotationListEntry
	SeniorityLabel string `json:"seniority_label"`
}

type AuditService interface {
	// Record appends one audit record. Callers invoke it before persisting
	// the mutation it describes; a failed append aborts the transition.
	Record(ctx context.Context, actorID int32, action, entityType string, entityID int32, before, after interface{}) error
	ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditRecord, error)
	ListForEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditRecord, error)
}

type SeniorityService interface {
	// OverrideScore replaces the computed score with a manually assigned one.
	// The reason is mandatory and the pool is re-ranked afterwards.
	OverrideScore(ctx context.Context, actorID, equipmentID, fiscalYear int32, score float64, reason string) (*domain.SeniorityRecord, error)
	// RecalculatePool recomputes scores and in-block ranks for one pool.
	// Overridden records keep their stored score; the computed value is
	// written to the audit trail for comparison.
	RecalculatePool(ctx context.Context, actorID int32, pool domain.Pool, fiscalYear int32) error
	// RecalculateAll recomputes every pool for the given fiscal year.
	RecalculateAll(ctx context.Context, actorID, fiscalYear int32) error
	// RunFiscalYearRollover creates the new fiscal year's records from the
	// prior year's (hours shifted back one slot) and ranks them.
	RunFiscalYearRollover(ctx context.Context, actorID, newFiscalYear int32) error
}

type RotationService interface {
	// BuildList produces the ordered call-out sequence for one pool.
	BuildList(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32) ([]domain.CallOutCandidate, error)
	// BuildForRequest snapshots the rotation list for a rental request,
	// walking blocks in the configured call-out order. The snapshot is
	// frozen for the life of the request.
	BuildForRequest(ctx context.Context, actorID, rentalRequestID, fiscalYear int32) ([]domain.RotationListEntry, error)
	GetRotationList(ctx context.Context, rentalRequestID int32) ([]RotationEntryView, error)
}

type DispatchService interface {
	// OfferNext offers the request's work to the highest-ranked candidate
	// not yet asked. At most one offer is open per request at a time.
	OfferNext(ctx context.Context, actorID, rentalRequestID int32) (*domain.RotationListEntry, error)
	// RecordResponse settles an open offer. Repeating a settled response is
	// a no-op; a conflicting response fails.
	RecordResponse(ctx context.Context, actorID, entryID int32, response OfferResponse, reason string) (*domain.RotationListEntry, error)
	// ForceHire hires equipment outside the normal order. Requires a reason;
	// idempotent per (request, equipment).
	ForceHire(ctx context.Context, actorID, rentalRequestID, equipmentID int32, reason string) (*domain.RotationListEntry, error)
	// CancelRequest expires all open and unasked entries. Accepted entries
	// are a durable commitment and stay untouched.
	CancelRequest(ctx context.Context, actorID, rentalRequestID int32) (*domain.RentalRequest, error)
	// CloseRequest completes a request manually once its candidate list is
	// exhausted, even if the hire target was not met.
	CloseRequest(ctx context.Context, actorID, rentalRequestID int32) (*domain.RentalRequest, error)
	// ExpireOverdueOffers expires offers older than the window and advances
	// each affected request to its next candidate. Returns the number of
	// offers expired.
	ExpireOverdueOffers(ctx context.Context, window time.Duration) (int, error)
}

type EmailService interface {
	SendOfferNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32, windowHours int) error
	SendForceHireNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32) error
	SendOfferExpiredNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32) error
}
