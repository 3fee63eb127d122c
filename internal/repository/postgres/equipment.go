package postgres

import (
	"context"
	"database/sql"
	"errors"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"
)

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	eq := &domain.Equipment{}
	query := `SELECT id, owner_id, owner_email, local_area_id, equipment_type_id, equipment_code, block, status, is_archived, registered_date, created_by, created_on, updated_by, updated_on
	          FROM equipment WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&eq.ID, &eq.OwnerID, &eq.OwnerEmail, &eq.LocalAreaID, &eq.EquipmentTypeID, &eq.EquipmentCode,
		&eq.Block, &eq.Status, &eq.IsArchived, &eq.RegisteredDate,
		&eq.Audit.CreatedBy, &eq.Audit.CreatedOn, &eq.Audit.UpdatedBy, &eq.Audit.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return eq, nil
}

func (r *equipmentRepository) ListCallOutCandidates(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32, excludeArchived bool) ([]domain.CallOutCandidate, error) {
	query := `SELECT e.id, e.owner_id, e.owner_email, e.equipment_code, e.block, s.seniority_score, s.number_in_block, e.registered_date
	          FROM equipment e
	          JOIN seniority_records s ON s.equipment_id = e.id AND s.fiscal_year = $4
	          WHERE e.local_area_id = $1 AND e.equipment_type_id = $2 AND e.block = $3
	            AND e.status = $5`
	args := []interface{}{localAreaID, equipmentTypeID, block, fiscalYear, domain.EquipmentStatusApproved}
	if excludeArchived {
		query += " AND e.is_archived = FALSE"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.CallOutCandidate
	for rows.Next() {
		var c domain.CallOutCandidate
		if err := rows.Scan(&c.EquipmentID, &c.OwnerID, &c.OwnerEmail, &c.EquipmentCode, &c.Block, &c.SeniorityScore, &c.NumberInBlock, &c.RegisteredDate); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
