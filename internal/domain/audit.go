package domain

import "time"

// AuditMeta carries the record-level audit columns shared by every entity.
// Each entity owns its copy by value; there is no shared base table.
type AuditMeta struct {
	CreatedBy int32     `json:"created_by"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedBy int32     `json:"updated_by"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Audit actions recorded in the dispatch audit trail.
const (
	AuditActionSeniorityRecalculated = "SENIORITY_RECALCULATED"
	AuditActionSeniorityOverridden   = "SENIORITY_OVERRIDDEN"
	AuditActionRotationListBuilt     = "ROTATION_LIST_BUILT"
	AuditActionOfferMade             = "OFFER_MADE"
	AuditActionOfferAccepted         = "OFFER_ACCEPTED"
	AuditActionOfferRefused          = "OFFER_REFUSED"
	AuditActionOfferExpired          = "OFFER_EXPIRED"
	AuditActionForceHired            = "FORCE_HIRED"
	AuditActionRequestCreated        = "REQUEST_CREATED"
	AuditActionRequestCompleted      = "REQUEST_COMPLETED"
	AuditActionRequestCancelled      = "REQUEST_CANCELLED"
	AuditActionRequestClosed         = "REQUEST_CLOSED"
)

// AuditRecord is one append-only entry in the dispatch audit trail.
// Records are written before the mutation they describe is committed.
type AuditRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	ActorID     int32     `json:"actor_id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    int32     `json:"entity_id"`
	BeforeState string    `json:"before_state"`
	AfterState  string    `json:"after_state"`
}

// Entity type names used in audit records.
const (
	EntityTypeSeniorityRecord   = "SENIORITY_RECORD"
	EntityTypeRotationListEntry = "ROTATION_LIST_ENTRY"
	EntityTypeRentalRequest     = "RENTAL_REQUEST"
)
