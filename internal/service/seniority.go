package service

import (
	"context"
	"fmt"
	"sort"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/logger"
	"equipment-dispatch-backend/internal/repository"
	"equipment-dispatch-backend/internal/utils"
)

type seniorityService struct {
	seniorityRepo repository.SeniorityRepository
	auditSvc      AuditService
	weights       [4]float64
}

func NewSeniorityService(seniorityRepo repository.SeniorityRepository, auditSvc AuditService, weights [4]float64) SeniorityService {
	return &seniorityService{
		seniorityRepo: seniorityRepo,
		auditSvc:      auditSvc,
		weights:       weights,
	}
}

func (s *seniorityService) OverrideScore(ctx context.Context, actorID, equipmentID, fiscalYear int32, score float64, reason string) (*domain.SeniorityRecord, error) {
	if reason == "" {
		return nil, domain.ErrMissingOverrideReason
	}

	rec, err := s.seniorityRepo.GetByEquipment(ctx, equipmentID, fiscalYear)
	if err != nil {
		return nil, err
	}

	before := *rec
	rec.SeniorityScore = utils.RoundScore(score)
	rec.IsOverridden = true
	rec.OverrideReason = reason
	rec.Audit.UpdatedBy = actorID

	if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionSeniorityOverridden, domain.EntityTypeSeniorityRecord, rec.EquipmentID, before, rec); err != nil {
		return nil, err
	}
	if err := s.seniorityRepo.Update(ctx, rec); err != nil {
		return nil, err
	}

	// The override shifts ranks within the pool.
	pool := domain.Pool{LocalAreaID: rec.LocalAreaID, EquipmentTypeID: rec.EquipmentTypeID, Block: rec.Block}
	if err := s.RecalculatePool(ctx, actorID, pool, fiscalYear); err != nil {
		return nil, err
	}

	return s.seniorityRepo.GetByEquipment(ctx, equipmentID, fiscalYear)
}

func (s *seniorityService) RecalculatePool(ctx context.Context, actorID int32, pool domain.Pool, fiscalYear int32) error {
	recs, err := s.seniorityRepo.ListByPool(ctx, pool.LocalAreaID, pool.EquipmentTypeID, pool.Block, fiscalYear)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	for i := range recs {
		rec := &recs[i]
		computed, err := utils.ComputeSeniorityScore(rec.ServiceHours, rec.YearsOfService, s.weights)
		if err != nil {
			return fmt.Errorf("equipment %d: %w", rec.EquipmentID, err)
		}
		if rec.IsOverridden {
			// The stored score stands; the computed value is recorded so the
			// override can be compared against what the formula would give.
			comparison := struct {
				StoredScore   float64 `json:"stored_score"`
				ComputedScore float64 `json:"computed_score"`
				OverrideKept  bool    `json:"override_kept"`
			}{rec.SeniorityScore, computed, true}
			if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionSeniorityRecalculated, domain.EntityTypeSeniorityRecord, rec.EquipmentID, rec.SeniorityScore, comparison); err != nil {
				return err
			}
			continue
		}
		rec.SeniorityScore = computed
	}

	// Rank within the block: score descending, earlier registration, then
	// lower equipment id.
	sortRecords(recs)

	for i := range recs {
		rec := &recs[i]
		rank := int32(i + 1)
		before, err := s.seniorityRepo.GetByEquipment(ctx, rec.EquipmentID, fiscalYear)
		if err != nil {
			return err
		}
		if before.SeniorityScore == rec.SeniorityScore && before.NumberInBlock == rank {
			continue
		}
		rec.NumberInBlock = rank
		rec.Audit.UpdatedBy = actorID
		if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionSeniorityRecalculated, domain.EntityTypeSeniorityRecord, rec.EquipmentID, before, rec); err != nil {
			return err
		}
		if err := s.seniorityRepo.Update(ctx, rec); err != nil {
			return err
		}
	}

	return nil
}

func (s *seniorityService) RecalculateAll(ctx context.Context, actorID, fiscalYear int32) error {
	pools, err := s.seniorityRepo.ListPools(ctx, fiscalYear)
	if err != nil {
		return err
	}
	for _, pool := range pools {
		if err := s.RecalculatePool(ctx, actorID, pool, fiscalYear); err != nil {
			return fmt.Errorf("pool (%d, %d, %s): %w", pool.LocalAreaID, pool.EquipmentTypeID, pool.Block, err)
		}
	}
	return nil
}

func (s *seniorityService) RunFiscalYearRollover(ctx context.Context, actorID, newFiscalYear int32) error {
	prevYear := newFiscalYear - 1
	pools, err := s.seniorityRepo.ListPools(ctx, prevYear)
	if err != nil {
		return err
	}

	log := logger.WithService("seniority")
	for _, pool := range pools {
		recs, err := s.seniorityRepo.ListByPool(ctx, pool.LocalAreaID, pool.EquipmentTypeID, pool.Block, prevYear)
		if err != nil {
			return err
		}
		for i := range recs {
			old := &recs[i]
			next := &domain.SeniorityRecord{
				EquipmentID:     old.EquipmentID,
				LocalAreaID:     old.LocalAreaID,
				EquipmentTypeID: old.EquipmentTypeID,
				FiscalYear:      newFiscalYear,
				// Hours shift back one year; the new year starts at zero.
				ServiceHours:   [4]float64{0, old.ServiceHours[0], old.ServiceHours[1], old.ServiceHours[2]},
				YearsOfService: old.YearsOfService + 1,
				Block:          old.Block,
				RegisteredDate: old.RegisteredDate,
				// Overrides are per-year decisions and do not carry forward.
			}
			next.Audit.CreatedBy = actorID
			next.Audit.UpdatedBy = actorID
			if err := s.seniorityRepo.Create(ctx, next); err != nil {
				return fmt.Errorf("rollover for equipment %d: %w", old.EquipmentID, err)
			}
		}
		if err := s.RecalculatePool(ctx, actorID, pool, newFiscalYear); err != nil {
			return err
		}
		log.Info("Rolled over pool",
			"local_area_id", pool.LocalAreaID,
			"equipment_type_id", pool.EquipmentTypeID,
			"block", pool.Block,
			"records", len(recs),
			"fiscal_year", newFiscalYear)
	}
	return nil
}

func sortRecords(recs []domain.SeniorityRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return utils.CompareSeniorityRecords(&recs[i], &recs[j]) < 0
	})
}
