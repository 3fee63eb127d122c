package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository"

	"github.com/google/uuid"
)

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) Record(ctx context.Context, actorID int32, action, entityType string, entityID int32, before, after interface{}) error {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		return fmt.Errorf("failed to marshal audit before-state: %w", err)
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		return fmt.Errorf("failed to marshal audit after-state: %w", err)
	}

	rec := &domain.AuditRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ActorID:     actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		BeforeState: string(beforeJSON),
		AfterState:  string(afterJSON),
	}

	if err := s.auditRepo.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func (s *auditService) ListRecent(ctx context.Context, limit, offset int32) ([]domain.AuditRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.auditRepo.List(ctx, limit, offset)
}

func (s *auditService) ListForEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditRecord, error) {
	return s.auditRepo.ListByEntity(ctx, entityType, entityID)
}
