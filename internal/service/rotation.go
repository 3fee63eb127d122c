package service

import (
	"context"
	"fmt"
	"sync"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/logger"
	"equipment-dispatch-backend/internal/repository"
	"equipment-dispatch-backend/internal/utils"
)

type rotationService struct {
	equipmentRepo repository.EquipmentRepository
	requestRepo   repository.RentalRequestRepository
	rotationRepo  repository.RotationListRepository
	auditSvc      AuditService
	blockOrder    []string

	// One lock per rental request: a list may be built only once, so the
	// exists-check and the snapshot insert must not interleave.
	locks sync.Map // int32 -> *sync.Mutex
}

func NewRotationService(
	equipmentRepo repository.EquipmentRepository,
	requestRepo repository.RentalRequestRepository,
	rotationRepo repository.RotationListRepository,
	auditSvc AuditService,
	blockOrder []string,
) RotationService {
	return &rotationService{
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		rotationRepo:  rotationRepo,
		auditSvc:      auditSvc,
		blockOrder:    blockOrder,
	}
}

func (s *rotationService) BuildList(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32) ([]domain.CallOutCandidate, error) {
	candidates, err := s.equipmentRepo.ListCallOutCandidates(ctx, localAreaID, equipmentTypeID, block, fiscalYear, true)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrEmptyPool
	}
	utils.SortCandidates(candidates)
	return candidates, nil
}

func (s *rotationService) lockRequest(rentalRequestID int32) func() {
	v, _ := s.locks.LoadOrStore(rentalRequestID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *rotationService) BuildForRequest(ctx context.Context, actorID, rentalRequestID, fiscalYear int32) ([]domain.RotationListEntry, error) {
	unlock := s.lockRequest(rentalRequestID)
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.RentalRequestStatusInProgress {
		return nil, domain.ErrRequestNotInProgress
	}

	existing, err := s.rotationRepo.ListByRequest(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrListAlreadyBuilt
	}

	// The request's call-out sequence covers each block in the configured
	// order; ranking never compares equipment across blocks.
	var candidates []domain.CallOutCandidate
	for _, block := range s.blockOrder {
		blockCandidates, err := s.equipmentRepo.ListCallOutCandidates(ctx, req.LocalAreaID, req.EquipmentTypeID, block, fiscalYear, true)
		if err != nil {
			return nil, err
		}
		utils.SortCandidates(blockCandidates)
		candidates = append(candidates, blockCandidates...)
	}
	if len(candidates) == 0 {
		return nil, domain.ErrEmptyPool
	}

	entries := make([]*domain.RotationListEntry, 0, len(candidates))
	for i, c := range candidates {
		entry := &domain.RotationListEntry{
			RentalRequestID: rentalRequestID,
			EquipmentID:     c.EquipmentID,
			EquipmentCode:   c.EquipmentCode,
			Block:           c.Block,
			SeniorityScore:  c.SeniorityScore,
			SortOrder:       int32(i + 1),
			Status:          domain.RotationEntryStatusNotAsked,
		}
		entry.Audit.CreatedBy = actorID
		entry.Audit.UpdatedBy = actorID
		entries = append(entries, entry)
	}

	summary := struct {
		Candidates int   `json:"candidates"`
		FiscalYear int32 `json:"fiscal_year"`
	}{len(entries), fiscalYear}
	if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionRotationListBuilt, domain.EntityTypeRentalRequest, rentalRequestID, nil, summary); err != nil {
		return nil, err
	}
	if err := s.rotationRepo.CreateEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to snapshot rotation list: %w", err)
	}

	logger.WithService("rotation").Info("Rotation list built",
		"rental_request_id", rentalRequestID,
		"candidates", len(entries),
		"fiscal_year", fiscalYear)

	result := make([]domain.RotationListEntry, len(entries))
	for i, e := range entries {
		result[i] = *e
	}
	return result, nil
}

func (s *rotationService) GetRotationList(ctx context.Context, rentalRequestID int32) ([]RotationEntryView, error) {
	if _, err := s.requestRepo.GetByID(ctx, rentalRequestID); err != nil {
		return nil, err
	}
	entries, err := s.rotationRepo.ListByRequest(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}

	views := make([]RotationEntryView, len(entries))
	for i, e := range entries {
		views[i] = RotationEntryView{
			RotationListEntry: e,
			SeniorityLabel:    utils.BlockSeniorityLabel(e.Block, e.SeniorityScore),
		}
	}
	return views, nil
}
