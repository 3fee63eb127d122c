package postgres

import (
	"context"
	"database/sql"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"
)

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, rec *domain.AuditRecord) error {
	query := `INSERT INTO audit_records (id, ts, actor_id, action, entity_type, entity_id, before_state, after_state)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp, rec.ActorID, rec.Action, rec.EntityType, rec.EntityID, rec.BeforeState, rec.AfterState,
	)
	return err
}

func (r *auditRepository) List(ctx context.Context, limit, offset int32) ([]domain.AuditRecord, error) {
	query := `SELECT id, ts, actor_id, action, entity_type, entity_id, before_state, after_state
	          FROM audit_records ORDER BY ts DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditRecords(rows)
}

func (r *auditRepository) ListByEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditRecord, error) {
	query := `SELECT id, ts, actor_id, action, entity_type, entity_id, before_state, after_state
	          FROM audit_records WHERE entity_type = $1 AND entity_id = $2 ORDER BY ts ASC`
	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAuditRecords(rows)
}

func scanAuditRecords(rows *sql.Rows) ([]domain.AuditRecord, error) {
	var recs []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.ActorID, &rec.Action, &rec.EntityType, &rec.EntityID, &rec.BeforeState, &rec.AfterState); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
