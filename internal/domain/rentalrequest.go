package domain

type RentalRequestStatus string

const (
	RentalRequestStatusInProgress RentalRequestStatus = "IN_PROGRESS"
	RentalRequestStatusCompleted  RentalRequestStatus = "COMPLETED"
	RentalRequestStatusCancelled  RentalRequestStatus = "CANCELLED"
)

// RentalRequest is the aggregate root owning a rotation list. EquipmentCount
// is the number of hires the request needs; HiredCount counts Accepted and
// ForceHired entries.
type RentalRequest struct {
	ID              int32               `json:"id"`
	LocalAreaID     int32               `json:"local_area_id"`
	EquipmentTypeID int32               `json:"equipment_type_id"`
	EquipmentCount  int32               `json:"equipment_count"`
	HiredCount      int32               `json:"hired_count"`
	Status          RentalRequestStatus `json:"status"`
	Audit           AuditMeta           `json:"audit"`
}
