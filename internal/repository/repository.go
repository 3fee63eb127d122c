package repository

import (
	"context"
	"time"

	"equipment-dispatch-backend/internal/domain"
)

type EquipmentRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Equipment, error)
	// ListCallOutCandidates returns approved, non-archived equipment in the
	// pool joined with its seniority standing for the given fiscal year.
	ListCallOutCandidates(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32, excludeArchived bool) ([]domain.CallOutCandidate, error)
}

type SeniorityRepository interface {
	GetByEquipment(ctx context.Context, equipmentID, fiscalYear int32) (*domain.SeniorityRecord, error)
	ListByPool(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32) ([]domain.SeniorityRecord, error)
	ListPools(ctx context.Context, fiscalYear int32) ([]domain.Pool, error)
	Create(ctx context.Context, rec *domain.SeniorityRecord) error
	Update(ctx context.Context, rec *domain.SeniorityRecord) error
}

type RentalRequestRepository interface {
	Create(ctx context.Context, req *domain.RentalRequest) error
	GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error)
	Update(ctx context.Context, req *domain.RentalRequest) error
}

type RotationListRepository interface {
	// CreateEntries inserts a batch of entries atomically. The backing table
	// carries UNIQUE (rental_request_id, equipment_id); inserting a second
	// entry for the same pair fails the whole batch.
	CreateEntries(ctx context.Context, entries []*domain.RotationListEntry) error
	GetByID(ctx context.Context, id int32) (*domain.RotationListEntry, error)
	GetByRequestAndEquipment(ctx context.Context, rentalRequestID, equipmentID int32) (*domain.RotationListEntry, error)
	ListByRequest(ctx context.Context, rentalRequestID int32) ([]domain.RotationListEntry, error)
	Update(ctx context.Context, entry *domain.RotationListEntry) error
	// ListOverdueAsked returns entries still ASKED whose offer was made
	// before the cutoff, across all in-progress requests.
	ListOverdueAsked(ctx context.Context, cutoff time.Time) ([]domain.RotationListEntry, error)
}

type AuditRepository interface {
	Append(ctx context.Context, rec *domain.AuditRecord) error
	List(ctx context.Context, limit, offset int32) ([]domain.AuditRecord, error)
	ListByEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditRecord, error)
}
