package domain

import "time"

type RotationEntryStatus string

const (
	RotationEntryStatusNotAsked   RotationEntryStatus = "NOT_ASKED"
	RotationEntryStatusAsked      RotationEntryStatus = "ASKED"
	RotationEntryStatusAccepted   RotationEntryStatus = "ACCEPTED"
	RotationEntryStatusRefused    RotationEntryStatus = "REFUSED"
	RotationEntryStatusExpired    RotationEntryStatus = "EXPIRED"
	RotationEntryStatusForceHired RotationEntryStatus = "FORCE_HIRED"
)

// ForceHireSortOrder marks entries hired outside the normal call-out order.
// Such entries are excluded from normal-order advancement.
const ForceHireSortOrder int32 = -1

// RotationListEntry is one (rental request, equipment) pairing on a frozen
// call-out list. SortOrder is assigned at list-build time and never changes
// while the owning request is in progress.
type RotationListEntry struct {
	ID              int32               `json:"id"`
	RentalRequestID int32               `json:"rental_request_id"`
	EquipmentID     int32               `json:"equipment_id"`
	EquipmentCode   string              `json:"equipment_code"`
	Block           string              `json:"block"`
	SeniorityScore  float64             `json:"seniority_score"`
	SortOrder       int32               `json:"sort_order"`
	Status          RotationEntryStatus `json:"status"`
	AskedAt         *time.Time          `json:"asked_at,omitempty"`
	RespondedAt     *time.Time          `json:"responded_at,omitempty"`
	RefusalReason   string              `json:"refusal_reason,omitempty"`
	IsForceHire     bool                `json:"is_force_hire"`
	Audit           AuditMeta           `json:"audit"`
}

// IsSettled reports whether the entry has reached a terminal status.
func (e *RotationListEntry) IsSettled() bool {
	switch e.Status {
	case RotationEntryStatusAccepted, RotationEntryStatusRefused,
		RotationEntryStatusExpired, RotationEntryStatusForceHired:
		return true
	}
	return false
}

// IsHired reports whether the entry counts toward the request's hired count.
func (e *RotationListEntry) IsHired() bool {
	return e.Status == RotationEntryStatusAccepted || e.Status == RotationEntryStatusForceHired
}
