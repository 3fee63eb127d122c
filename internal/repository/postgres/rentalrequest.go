package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"
)

type rentalRequestRepository struct {
	db *sql.DB
}

func NewRentalRequestRepository(db *sql.DB) repository.RentalRequestRepository {
	return &rentalRequestRepository{db: db}
}

func (r *rentalRequestRepository) Create(ctx context.Context, req *domain.RentalRequest) error {
	query := `INSERT INTO rental_requests (local_area_id, equipment_type_id, equipment_count, hired_count, status, created_by, created_on, updated_by, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		req.LocalAreaID, req.EquipmentTypeID, req.EquipmentCount, req.HiredCount, req.Status,
		req.Audit.CreatedBy, now, req.Audit.UpdatedBy, now,
	).Scan(&req.ID)
}

func (r *rentalRequestRepository) GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	req := &domain.RentalRequest{}
	query := `SELECT id, local_area_id, equipment_type_id, equipment_count, hired_count, status, created_by, created_on, updated_by, updated_on
	          FROM rental_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.LocalAreaID, &req.EquipmentTypeID, &req.EquipmentCount, &req.HiredCount, &req.Status,
		&req.Audit.CreatedBy, &req.Audit.CreatedOn, &req.Audit.UpdatedBy, &req.Audit.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *rentalRequestRepository) Update(ctx context.Context, req *domain.RentalRequest) error {
	query := `UPDATE rental_requests SET hired_count=$1, status=$2, updated_by=$3, updated_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, req.HiredCount, req.Status, req.Audit.UpdatedBy, time.Now(), req.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
