package postgres

import (
	"database/sql"

	"equipment-dispatch-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.EquipmentRepository
	repository.SeniorityRepository
	repository.RentalRequestRepository
	repository.RotationListRepository
	repository.AuditRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		EquipmentRepository:     NewEquipmentRepository(db),
		SeniorityRepository:     NewSeniorityRepository(db),
		RentalRequestRepository: NewRentalRequestRepository(db),
		RotationListRepository:  NewRotationListRepository(db),
		AuditRepository:         NewAuditRepository(db),
	}
}
