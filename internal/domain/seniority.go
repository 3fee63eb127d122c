package domain

// Block labels. Blocks are assigned by the registration process and consumed
// here as given data; the engine never derives a block from hours.
const (
	BlockOpen = "Open"
	Block1    = "1"
	Block2    = "2"
)

// SeniorityRecord is one equipment's seniority standing for one fiscal year.
// ServiceHours is ordered most-recent first: index 0 is the current fiscal
// year, index 3 is three years back. Missing years are stored as zero.
type SeniorityRecord struct {
	ID              int32      `json:"id"`
	EquipmentID     int32      `json:"equipment_id"`
	LocalAreaID     int32      `json:"local_area_id"`
	EquipmentTypeID int32      `json:"equipment_type_id"`
	FiscalYear      int32      `json:"fiscal_year"` // calendar year the fiscal year starts in (April 1)
	ServiceHours    [4]float64 `json:"service_hours"`
	YearsOfService  int32      `json:"years_of_service"`
	Block           string     `json:"block"`
	SeniorityScore  float64    `json:"seniority_score"`
	NumberInBlock   int32      `json:"number_in_block"`
	IsOverridden    bool       `json:"is_overridden"`
	OverrideReason  string     `json:"override_reason"`
	RegisteredDate  string     `json:"registered_date"` // yyyy-mm-dd, denormalized for tie-breaking
	Audit           AuditMeta  `json:"audit"`
}

// Pool identifies one rotation pool: equipment sharing a local area,
// equipment type and block. Rotation ordering never compares across pools.
type Pool struct {
	LocalAreaID     int32  `json:"local_area_id"`
	EquipmentTypeID int32  `json:"equipment_type_id"`
	Block           string `json:"block"`
}
