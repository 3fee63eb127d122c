package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/logger"
	"equipment-dispatch-backend/internal/repository"
	"equipment-dispatch-backend/internal/utils"
)

type dispatchService struct {
	rotationRepo  repository.RotationListRepository
	requestRepo   repository.RentalRequestRepository
	equipmentRepo repository.EquipmentRepository
	seniorityRepo repository.SeniorityRepository
	auditSvc      AuditService
	emailSvc      EmailService
	offerWindow   time.Duration

	// One lock per rental request serializes its transitions: normal-order
	// dispatch requires exactly one open offer at a time. Requests do not
	// contend with each other.
	locks sync.Map // int32 -> *sync.Mutex
}

func NewDispatchService(
	rotationRepo repository.RotationListRepository,
	requestRepo repository.RentalRequestRepository,
	equipmentRepo repository.EquipmentRepository,
	seniorityRepo repository.SeniorityRepository,
	auditSvc AuditService,
	emailSvc EmailService,
	offerWindow time.Duration,
) DispatchService {
	return &dispatchService{
		rotationRepo:  rotationRepo,
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		seniorityRepo: seniorityRepo,
		auditSvc:      auditSvc,
		emailSvc:      emailSvc,
		offerWindow:   offerWindow,
	}
}

func (s *dispatchService) lockRequest(rentalRequestID int32) func() {
	v, _ := s.locks.LoadOrStore(rentalRequestID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *dispatchService) OfferNext(ctx context.Context, actorID, rentalRequestID int32) (*domain.RotationListEntry, error) {
	unlock := s.lockRequest(rentalRequestID)
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case domain.RentalRequestStatusCompleted:
		return nil, domain.ErrRequestComplete
	case domain.RentalRequestStatusCancelled:
		return nil, domain.ErrRequestNotInProgress
	}
	if req.HiredCount >= req.EquipmentCount {
		return nil, domain.ErrRequestComplete
	}

	entries, err := s.rotationRepo.ListByRequest(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}

	var candidate *domain.RotationListEntry
	for i := range entries {
		e := &entries[i]
		if e.Status == domain.RotationEntryStatusAsked {
			return nil, domain.ErrOfferInFlight
		}
		if candidate == nil && e.Status == domain.RotationEntryStatusNotAsked && e.SortOrder > 0 {
			candidate = e
		}
	}
	if candidate == nil {
		return nil, domain.ErrNoCandidatesRemaining
	}

	before := *candidate
	now := time.Now()
	candidate.Status = domain.RotationEntryStatusAsked
	candidate.AskedAt = &now
	candidate.Audit.UpdatedBy = actorID

	if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionOfferMade, domain.EntityTypeRotationListEntry, candidate.ID, before, candidate); err != nil {
		return nil, err
	}
	if err := s.rotationRepo.Update(ctx, candidate); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, candidate, func(email string) error {
		return s.emailSvc.SendOfferNotification(ctx, email, candidate.EquipmentCode, rentalRequestID, int(s.offerWindow.Hours()))
	})

	return candidate, nil
}

func (s *dispatchService) RecordResponse(ctx context.Context, actorID, entryID int32, response OfferResponse, reason string) (*domain.RotationListEntry, error) {
	if response != ResponseAccept && response != ResponseRefuse {
		return nil, domain.ErrInvalidResponse
	}

	// Look up once to learn the owning request, then re-read under its lock.
	peek, err := s.rotationRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	unlock := s.lockRequest(peek.RentalRequestID)
	defer unlock()

	entry, err := s.rotationRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	switch entry.Status {
	case domain.RotationEntryStatusAccepted:
		if response == ResponseAccept {
			return entry, nil
		}
		return nil, domain.ErrAlreadySettled
	case domain.RotationEntryStatusRefused:
		if response == ResponseRefuse {
			return entry, nil
		}
		return nil, domain.ErrAlreadySettled
	case domain.RotationEntryStatusExpired, domain.RotationEntryStatusForceHired:
		return nil, domain.ErrAlreadySettled
	case domain.RotationEntryStatusNotAsked:
		return nil, domain.ErrNoOpenOffer
	}

	if response == ResponseRefuse && reason == "" {
		return nil, domain.ErrMissingRefusalReason
	}

	before := *entry
	now := time.Now()
	entry.RespondedAt = &now
	entry.Audit.UpdatedBy = actorID

	action := domain.AuditActionOfferAccepted
	if response == ResponseAccept {
		entry.Status = domain.RotationEntryStatusAccepted
	} else {
		entry.Status = domain.RotationEntryStatusRefused
		entry.RefusalReason = reason
		action = domain.AuditActionOfferRefused
	}

	if err := s.auditSvc.Record(ctx, actorID, action, domain.EntityTypeRotationListEntry, entry.ID, before, entry); err != nil {
		return nil, err
	}
	if err := s.rotationRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	if response == ResponseAccept {
		if err := s.recordHire(ctx, actorID, entry.RentalRequestID); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

func (s *dispatchService) ForceHire(ctx context.Context, actorID, rentalRequestID, equipmentID int32, reason string) (*domain.RotationListEntry, error) {
	if reason == "" {
		return nil, domain.ErrMissingForceHireReason
	}

	unlock := s.lockRequest(rentalRequestID)
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case domain.RentalRequestStatusCompleted:
		return nil, domain.ErrRequestComplete
	case domain.RentalRequestStatusCancelled:
		return nil, domain.ErrRequestNotInProgress
	}

	entry, err := s.rotationRepo.GetByRequestAndEquipment(ctx, rentalRequestID, equipmentID)
	switch {
	case err == nil:
		switch entry.Status {
		case domain.RotationEntryStatusForceHired:
			// Idempotent: one entry, hired count incremented once.
			return entry, nil
		case domain.RotationEntryStatusAsked:
			return nil, domain.ErrOfferInFlight
		case domain.RotationEntryStatusNotAsked:
			// Promote the waiting entry out of the normal order. Its slot is
			// skipped, not deleted, so the list keeps its history.
			before := *entry
			entry.Status = domain.RotationEntryStatusForceHired
			entry.IsForceHire = true
			entry.SortOrder = domain.ForceHireSortOrder
			entry.Audit.UpdatedBy = actorID
			payload := forceHirePayload(entry, reason)
			if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionForceHired, domain.EntityTypeRotationListEntry, entry.ID, before, payload); err != nil {
				return nil, err
			}
			if err := s.rotationRepo.Update(ctx, entry); err != nil {
				return nil, err
			}
		default:
			return nil, domain.ErrAlreadySettled
		}
	case errors.Is(err, domain.ErrNotFound):
		equipment, err := s.equipmentRepo.GetByID(ctx, equipmentID)
		if err != nil {
			return nil, err
		}
		entry = &domain.RotationListEntry{
			RentalRequestID: rentalRequestID,
			EquipmentID:     equipmentID,
			EquipmentCode:   equipment.EquipmentCode,
			Block:           equipment.Block,
			SortOrder:       domain.ForceHireSortOrder,
			Status:          domain.RotationEntryStatusForceHired,
			IsForceHire:     true,
		}
		if rec, err := s.seniorityRepo.GetByEquipment(ctx, equipmentID, utils.FiscalYearFor(time.Now())); err == nil {
			entry.SeniorityScore = rec.SeniorityScore
		}
		entry.Audit.CreatedBy = actorID
		entry.Audit.UpdatedBy = actorID
		// The entry has no id yet, so the record hangs off the rental
		// request; the payload carries the equipment and reason.
		payload := forceHirePayload(entry, reason)
		if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionForceHired, domain.EntityTypeRentalRequest, rentalRequestID, nil, payload); err != nil {
			return nil, err
		}
		if err := s.rotationRepo.CreateEntries(ctx, []*domain.RotationListEntry{entry}); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.recordHire(ctx, actorID, rentalRequestID); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, entry, func(email string) error {
		return s.emailSvc.SendForceHireNotification(ctx, email, entry.EquipmentCode, rentalRequestID)
	})

	return entry, nil
}

func (s *dispatchService) CancelRequest(ctx context.Context, actorID, rentalRequestID int32) (*domain.RentalRequest, error) {
	unlock := s.lockRequest(rentalRequestID)
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.RentalRequestStatusCancelled {
		return req, nil
	}
	if req.Status == domain.RentalRequestStatusCompleted {
		return nil, domain.ErrRequestComplete
	}

	before := *req
	req.Status = domain.RentalRequestStatusCancelled
	req.Audit.UpdatedBy = actorID
	if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionRequestCancelled, domain.EntityTypeRentalRequest, req.ID, before, req); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	// Open and unasked entries expire; accepted hires are a durable
	// commitment and stay as they are.
	entries, err := s.rotationRepo.ListByRequest(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range entries {
		e := &entries[i]
		if e.Status != domain.RotationEntryStatusNotAsked && e.Status != domain.RotationEntryStatusAsked {
			continue
		}
		entryBefore := *e
		e.Status = domain.RotationEntryStatusExpired
		e.RespondedAt = &now
		e.Audit.UpdatedBy = actorID
		if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionOfferExpired, domain.EntityTypeRotationListEntry, e.ID, entryBefore, e); err != nil {
			return nil, err
		}
		if err := s.rotationRepo.Update(ctx, e); err != nil {
			return nil, err
		}
	}

	return req, nil
}

func (s *dispatchService) CloseRequest(ctx context.Context, actorID, rentalRequestID int32) (*domain.RentalRequest, error) {
	unlock := s.lockRequest(rentalRequestID)
	defer unlock()

	req, err := s.requestRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.RentalRequestStatusCompleted {
		return req, nil
	}
	if req.Status == domain.RentalRequestStatusCancelled {
		return nil, domain.ErrRequestNotInProgress
	}

	entries, err := s.rotationRepo.ListByRequest(ctx, rentalRequestID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		switch entries[i].Status {
		case domain.RotationEntryStatusNotAsked, domain.RotationEntryStatusAsked:
			return nil, domain.ErrListNotExhausted
		}
	}

	before := *req
	req.Status = domain.RentalRequestStatusCompleted
	req.Audit.UpdatedBy = actorID
	if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionRequestClosed, domain.EntityTypeRentalRequest, req.ID, before, req); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *dispatchService) ExpireOverdueOffers(ctx context.Context, window time.Duration) (int, error) {
	cutoff := time.Now().Add(-window)
	overdue, err := s.rotationRepo.ListOverdueAsked(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	log := logger.WithService("dispatch")
	expired := 0
	for i := range overdue {
		e := overdue[i]
		if err := s.expireEntry(ctx, e.ID, cutoff); err != nil {
			log.Error("Failed to expire overdue offer", "entry_id", e.ID, "error", err)
			continue
		}
		expired++

		// Expiry advances the rotation like a refusal does.
		if _, err := s.OfferNext(ctx, SystemActorID, e.RentalRequestID); err != nil {
			switch {
			case errors.Is(err, domain.ErrNoCandidatesRemaining):
				log.Warn("Rotation list exhausted after expiry", "rental_request_id", e.RentalRequestID)
			case errors.Is(err, domain.ErrRequestComplete), errors.Is(err, domain.ErrRequestNotInProgress):
				// Nothing left to advance.
			default:
				log.Error("Failed to advance after expiry", "rental_request_id", e.RentalRequestID, "error", err)
			}
		}
	}
	return expired, nil
}

func (s *dispatchService) expireEntry(ctx context.Context, entryID int32, cutoff time.Time) error {
	peek, err := s.rotationRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	unlock := s.lockRequest(peek.RentalRequestID)
	defer unlock()

	entry, err := s.rotationRepo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	// Re-check under the lock; the owner may have responded meanwhile.
	if entry.Status != domain.RotationEntryStatusAsked || entry.AskedAt == nil || !entry.AskedAt.Before(cutoff) {
		return nil
	}

	before := *entry
	now := time.Now()
	entry.Status = domain.RotationEntryStatusExpired
	entry.RespondedAt = &now
	entry.Audit.UpdatedBy = SystemActorID
	if err := s.auditSvc.Record(ctx, SystemActorID, domain.AuditActionOfferExpired, domain.EntityTypeRotationListEntry, entry.ID, before, entry); err != nil {
		return err
	}
	if err := s.rotationRepo.Update(ctx, entry); err != nil {
		return err
	}

	s.notifyOwner(ctx, entry, func(email string) error {
		return s.emailSvc.SendOfferExpiredNotification(ctx, email, entry.EquipmentCode, entry.RentalRequestID)
	})
	return nil
}

// recordHire increments the hired count and completes the request when the
// target is met. Caller holds the request lock.
func (s *dispatchService) recordHire(ctx context.Context, actorID, rentalRequestID int32) error {
	req, err := s.requestRepo.GetByID(ctx, rentalRequestID)
	if err != nil {
		return err
	}
	before := *req
	req.HiredCount++
	req.Audit.UpdatedBy = actorID
	if req.HiredCount >= req.EquipmentCount {
		req.Status = domain.RentalRequestStatusCompleted
		if err := s.auditSvc.Record(ctx, actorID, domain.AuditActionRequestCompleted, domain.EntityTypeRentalRequest, req.ID, before, req); err != nil {
			return err
		}
	}
	return s.requestRepo.Update(ctx, req)
}

// notifyOwner emails the equipment owner about a dispatch event. Email is a
// courtesy: the audit record is the commitment, so failures are only logged.
func (s *dispatchService) notifyOwner(ctx context.Context, entry *domain.RotationListEntry, send func(email string) error) {
	equipment, err := s.equipmentRepo.GetByID(ctx, entry.EquipmentID)
	if err != nil || equipment.OwnerEmail == "" {
		logger.Warn("No owner email for dispatch notification", "equipment_id", entry.EquipmentID, "error", err)
		return
	}
	if err := send(equipment.OwnerEmail); err != nil {
		logger.Warn("Failed to send dispatch notification", "equipment_id", entry.EquipmentID, "error", err)
	}
}

func forceHirePayload(entry *domain.RotationListEntry, reason string) interface{} {
	return struct {
		*domain.RotationListEntry
		Reason string `json:"reason"`
	}{entry, reason}
}
