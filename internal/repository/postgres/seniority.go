package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"
)

type seniorityRepository struct {
	db *sql.DB
}

func NewSeniorityRepository(db *sql.DB) repository.SeniorityRepository {
	return &seniorityRepository{db: db}
}

const seniorityColumns = `s.id, s.equipment_id, s.local_area_id, s.equipment_type_id, s.fiscal_year,
	s.service_hours_0, s.service_hours_1, s.service_hours_2, s.service_hours_3,
	s.years_of_service, s.block, s.seniority_score, s.number_in_block,
	s.is_overridden, s.override_reason, e.registered_date,
	s.created_by, s.created_on, s.updated_by, s.updated_on`

func scanSeniority(scan func(dest ...interface{}) error) (*domain.SeniorityRecord, error) {
	rec := &domain.SeniorityRecord{}
	err := scan(
		&rec.ID, &rec.EquipmentID, &rec.LocalAreaID, &rec.EquipmentTypeID, &rec.FiscalYear,
		&rec.ServiceHours[0], &rec.ServiceHours[1], &rec.ServiceHours[2], &rec.ServiceHours[3],
		&rec.YearsOfService, &rec.Block, &rec.SeniorityScore, &rec.NumberInBlock,
		&rec.IsOverridden, &rec.OverrideReason, &rec.RegisteredDate,
		&rec.Audit.CreatedBy, &rec.Audit.CreatedOn, &rec.Audit.UpdatedBy, &rec.Audit.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *seniorityRepository) GetByEquipment(ctx context.Context, equipmentID, fiscalYear int32) (*domain.SeniorityRecord, error) {
	query := `SELECT ` + seniorityColumns + `
	          FROM seniority_records s JOIN equipment e ON e.id = s.equipment_id
	          WHERE s.equipment_id = $1 AND s.fiscal_year = $2`
	rec, err := scanSeniority(r.db.QueryRowContext(ctx, query, equipmentID, fiscalYear).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *seniorityRepository) ListByPool(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32) ([]domain.SeniorityRecord, error) {
	query := `SELECT ` + seniorityColumns + `
	          FROM seniority_records s JOIN equipment e ON e.id = s.equipment_id
	          WHERE s.local_area_id = $1 AND s.equipment_type_id = $2 AND s.block = $3 AND s.fiscal_year = $4
	          ORDER BY s.seniority_score DESC, e.registered_date ASC, s.equipment_id ASC`
	rows, err := r.db.QueryContext(ctx, query, localAreaID, equipmentTypeID, block, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.SeniorityRecord
	for rows.Next() {
		rec, err := scanSeniority(rows.Scan)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

func (r *seniorityRepository) ListPools(ctx context.Context, fiscalYear int32) ([]domain.Pool, error) {
	query := `SELECT DISTINCT local_area_id, equipment_type_id, block
	          FROM seniority_records WHERE fiscal_year = $1
	          ORDER BY local_area_id, equipment_type_id, block`
	rows, err := r.db.QueryContext(ctx, query, fiscalYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []domain.Pool
	for rows.Next() {
		var p domain.Pool
		if err := rows.Scan(&p.LocalAreaID, &p.EquipmentTypeID, &p.Block); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func (r *seniorityRepository) Create(ctx context.Context, rec *domain.SeniorityRecord) error {
	query := `INSERT INTO seniority_records (equipment_id, local_area_id, equipment_type_id, fiscal_year,
	            service_hours_0, service_hours_1, service_hours_2, service_hours_3,
	            years_of_service, block, seniority_score, number_in_block, is_overridden, override_reason,
	            created_by, created_on, updated_by, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		rec.EquipmentID, rec.LocalAreaID, rec.EquipmentTypeID, rec.FiscalYear,
		rec.ServiceHours[0], rec.ServiceHours[1], rec.ServiceHours[2], rec.ServiceHours[3],
		rec.YearsOfService, rec.Block, rec.SeniorityScore, rec.NumberInBlock,
		rec.IsOverridden, rec.OverrideReason,
		rec.Audit.CreatedBy, now, rec.Audit.UpdatedBy, now,
	).Scan(&rec.ID)
}

func (r *seniorityRepository) Update(ctx context.Context, rec *domain.SeniorityRecord) error {
	query := `UPDATE seniority_records
	          SET service_hours_0=$1, service_hours_1=$2, service_hours_2=$3, service_hours_3=$4,
	              years_of_service=$5, block=$6, seniority_score=$7, number_in_block=$8,
	              is_overridden=$9, override_reason=$10, updated_by=$11, updated_on=$12
	          WHERE id=$13`
	res, err := r.db.ExecContext(ctx, query,
		rec.ServiceHours[0], rec.ServiceHours[1], rec.ServiceHours[2], rec.ServiceHours[3],
		rec.YearsOfService, rec.Block, rec.SeniorityScore, rec.NumberInBlock,
		rec.IsOverridden, rec.OverrideReason, rec.Audit.UpdatedBy, time.Now(), rec.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
