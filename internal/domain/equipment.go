package domain

type EquipmentStatus string

const (
	EquipmentStatusPending  EquipmentStatus = "PENDING"
	EquipmentStatusApproved EquipmentStatus = "APPROVED"
	EquipmentStatusRejected EquipmentStatus = "REJECTED"
)

// Equipment is a registered piece of equipment as maintained by the
// surrounding CRUD layer. The dispatch engine treats it as read-only input.
type Equipment struct {
	ID              int32           `json:"id"`
	OwnerID         int32           `json:"owner_id"`
	OwnerEmail      string          `json:"owner_email"`
	LocalAreaID     int32           `json:"local_area_id"`
	EquipmentTypeID int32           `json:"equipment_type_id"`
	EquipmentCode   string          `json:"equipment_code"`
	Block           string          `json:"block"`
	Status          EquipmentStatus `json:"status"`
	IsArchived      bool            `json:"is_archived"`
	RegisteredDate  string          `json:"registered_date"` // yyyy-mm-dd
	Audit           AuditMeta       `json:"audit"`
}

// CallOutCandidate is the per-equipment view a rotation list is built from:
// the equipment identity joined with its current seniority standing.
type CallOutCandidate struct {
	EquipmentID     int32   `json:"equipment_id"`
	OwnerID         int32   `json:"owner_id"`
	OwnerEmail      string  `json:"owner_email"`
	EquipmentCode   string  `json:"equipment_code"`
	Block           string  `json:"block"`
	SeniorityScore  float64 `json:"seniority_score"`
	NumberInBlock   int32   `json:"number_in_block"`
	RegisteredDate  string  `json:"registered_date"` // yyyy-mm-dd
}
