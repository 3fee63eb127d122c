package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"
)

type rotationListRepository struct {
	db *sql.DB
}

func NewRotationListRepository(db *sql.DB) repository.RotationListRepository {
	return &rotationListRepository{db: db}
}

const rotationColumns = `id, rental_request_id, equipment_id, equipment_code, block, seniority_score,
	sort_order, status, asked_at, responded_at, refusal_reason, is_force_hire,
	created_by, created_on, updated_by, updated_on`

func scanRotationEntry(scan func(dest ...interface{}) error) (*domain.RotationListEntry, error) {
	e := &domain.RotationListEntry{}
	err := scan(
		&e.ID, &e.RentalRequestID, &e.EquipmentID, &e.EquipmentCode, &e.Block, &e.SeniorityScore,
		&e.SortOrder, &e.Status, &e.AskedAt, &e.RespondedAt, &e.RefusalReason, &e.IsForceHire,
		&e.Audit.CreatedBy, &e.Audit.CreatedOn, &e.Audit.UpdatedBy, &e.Audit.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *rotationListRepository) CreateEntries(ctx context.Context, entries []*domain.RotationListEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO rotation_list_entries (rental_request_id, equipment_id, equipment_code, block, seniority_score,
	            sort_order, status, refusal_reason, is_force_hire, created_by, created_on, updated_by, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	for _, e := range entries {
		err := tx.QueryRowContext(ctx, query,
			e.RentalRequestID, e.EquipmentID, e.EquipmentCode, e.Block, e.SeniorityScore,
			e.SortOrder, e.Status, e.RefusalReason, e.IsForceHire,
			e.Audit.CreatedBy, now, e.Audit.UpdatedBy, now,
		).Scan(&e.ID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *rotationListRepository) GetByID(ctx context.Context, id int32) (*domain.RotationListEntry, error) {
	query := `SELECT ` + rotationColumns + ` FROM rotation_list_entries WHERE id = $1`
	e, err := scanRotationEntry(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *rotationListRepository) GetByRequestAndEquipment(ctx context.Context, rentalRequestID, equipmentID int32) (*domain.RotationListEntry, error) {
	query := `SELECT ` + rotationColumns + ` FROM rotation_list_entries WHERE rental_request_id = $1 AND equipment_id = $2`
	e, err := scanRotationEntry(r.db.QueryRowContext(ctx, query, rentalRequestID, equipmentID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *rotationListRepository) ListByRequest(ctx context.Context, rentalRequestID int32) ([]domain.RotationListEntry, error) {
	// Force-hired entries (sort_order = -1) list after the normal order.
	query := `SELECT ` + rotationColumns + ` FROM rotation_list_entries
	          WHERE rental_request_id = $1
	          ORDER BY CASE WHEN sort_order < 0 THEN 1 ELSE 0 END, sort_order ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, rentalRequestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RotationListEntry
	for rows.Next() {
		e, err := scanRotationEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *rotationListRepository) Update(ctx context.Context, entry *domain.RotationListEntry) error {
	query := `UPDATE rotation_list_entries
	          SET sort_order=$1, status=$2, asked_at=$3, responded_at=$4, refusal_reason=$5, is_force_hire=$6,
	              updated_by=$7, updated_on=$8
	          WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query,
		entry.SortOrder, entry.Status, entry.AskedAt, entry.RespondedAt, entry.RefusalReason, entry.IsForceHire,
		entry.Audit.UpdatedBy, time.Now(), entry.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rotationListRepository) ListOverdueAsked(ctx context.Context, cutoff time.Time) ([]domain.RotationListEntry, error) {
	query := `SELECT ` + rotationColumns + ` FROM rotation_list_entries
	          WHERE status = $1 AND asked_at < $2
	          ORDER BY asked_at ASC`
	rows, err := r.db.QueryContext(ctx, query, domain.RotationEntryStatusAsked, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.RotationListEntry
	for rows.Next() {
		e, err := scanRotationEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
