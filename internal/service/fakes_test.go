package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"equipment-dispatch-backend/internal/domain"
)

// In-memory repository fakes. The dispatch state machine is exercised through
// multi-step sequences, so the fakes keep real state between calls.

type fakeEquipmentRepo struct {
	mu         sync.Mutex
	equipment  map[int32]*domain.Equipment
	candidates map[string][]domain.CallOutCandidate // keyed by block
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{
		equipment:  make(map[int32]*domain.Equipment),
		candidates: make(map[string][]domain.CallOutCandidate),
	}
}

func (f *fakeEquipmentRepo) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eq, ok := f.equipment[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *eq
	return &cp, nil
}

func (f *fakeEquipmentRepo) ListCallOutCandidates(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32, excludeArchived bool) ([]domain.CallOutCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.CallOutCandidate, len(f.candidates[block]))
	copy(out, f.candidates[block])
	return out, nil
}

type fakeSeniorityRepo struct {
	mu   sync.Mutex
	next int32
	recs map[int32]*domain.SeniorityRecord
}

func newFakeSeniorityRepo() *fakeSeniorityRepo {
	return &fakeSeniorityRepo{recs: make(map[int32]*domain.SeniorityRecord)}
}

func (f *fakeSeniorityRepo) GetByEquipment(ctx context.Context, equipmentID, fiscalYear int32) (*domain.SeniorityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.recs {
		if rec.EquipmentID == equipmentID && rec.FiscalYear == fiscalYear {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSeniorityRepo) ListByPool(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32) ([]domain.SeniorityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SeniorityRecord
	for _, rec := range f.recs {
		if rec.LocalAreaID == localAreaID && rec.EquipmentTypeID == equipmentTypeID && rec.Block == block && rec.FiscalYear == fiscalYear {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EquipmentID < out[j].EquipmentID })
	return out, nil
}

func (f *fakeSeniorityRepo) ListPools(ctx context.Context, fiscalYear int32) ([]domain.Pool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[domain.Pool]bool)
	var pools []domain.Pool
	for _, rec := range f.recs {
		if rec.FiscalYear != fiscalYear {
			continue
		}
		p := domain.Pool{LocalAreaID: rec.LocalAreaID, EquipmentTypeID: rec.EquipmentTypeID, Block: rec.Block}
		if !seen[p] {
			seen[p] = true
			pools = append(pools, p)
		}
	}
	sort.Slice(pools, func(i, j int) bool { return pools[i].Block < pools[j].Block })
	return pools, nil
}

func (f *fakeSeniorityRepo) Create(ctx context.Context, rec *domain.SeniorityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	rec.ID = f.next
	cp := *rec
	f.recs[rec.ID] = &cp
	return nil
}

func (f *fakeSeniorityRepo) Update(ctx context.Context, rec *domain.SeniorityRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.recs[rec.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *rec
	f.recs[rec.ID] = &cp
	return nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	next     int32
	requests map[int32]*domain.RentalRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[int32]*domain.RentalRequest)}
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *domain.RentalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	req.ID = f.next
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id int32) (*domain.RentalRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, req *domain.RentalRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[req.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

type fakeRotationRepo struct {
	mu      sync.Mutex
	next    int32
	entries map[int32]*domain.RotationListEntry
}

func newFakeRotationRepo() *fakeRotationRepo {
	return &fakeRotationRepo{entries: make(map[int32]*domain.RotationListEntry)}
}

func (f *fakeRotationRepo) CreateEntries(ctx context.Context, entries []*domain.RotationListEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range entries {
		for _, existing := range f.entries {
			if existing.RentalRequestID == e.RentalRequestID && existing.EquipmentID == e.EquipmentID {
				return errors.New("duplicate (rental_request_id, equipment_id)")
			}
		}
		f.next++
		e.ID = f.next
		cp := *e
		f.entries[e.ID] = &cp
	}
	return nil
}

func (f *fakeRotationRepo) GetByID(ctx context.Context, id int32) (*domain.RotationListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRotationRepo) GetByRequestAndEquipment(ctx context.Context, rentalRequestID, equipmentID int32) (*domain.RotationListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.RentalRequestID == rentalRequestID && e.EquipmentID == equipmentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRotationRepo) ListByRequest(ctx context.Context, rentalRequestID int32) ([]domain.RotationListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RotationListEntry
	for _, e := range f.entries {
		if e.RentalRequestID == rentalRequestID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aForce, bForce := a.SortOrder < 0, b.SortOrder < 0
		if aForce != bForce {
			return !aForce
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (f *fakeRotationRepo) Update(ctx context.Context, entry *domain.RotationListEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[entry.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *entry
	f.entries[entry.ID] = &cp
	return nil
}

func (f *fakeRotationRepo) ListOverdueAsked(ctx context.Context, cutoff time.Time) ([]domain.RotationListEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RotationListEntry
	for _, e := range f.entries {
		if e.Status == domain.RotationEntryStatusAsked && e.AskedAt != nil && e.AskedAt.Before(cutoff) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeAuditRepo struct {
	mu       sync.Mutex
	records  []domain.AuditRecord
	failNext bool
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (f *fakeAuditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return errors.New("audit store unavailable")
	}
	f.records = append(f.records, *rec)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, limit, offset int32) ([]domain.AuditRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.AuditRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAuditRepo) ListByEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AuditRecord
	for _, rec := range f.records {
		if rec.EntityType == entityType && rec.EntityID == entityID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.records))
	for i, rec := range f.records {
		out[i] = rec.Action
	}
	return out
}

type fakeEmailService struct {
	mu         sync.Mutex
	offers     int
	forceHires int
	expiries   int
}

func (f *fakeEmailService) SendOfferNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32, windowHours int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offers++
	return nil
}

func (f *fakeEmailService) SendForceHireNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forceHires++
	return nil
}

func (f *fakeEmailService) SendOfferExpiredNotification(ctx context.Context, email, equipmentCode string, rentalRequestID int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expiries++
	return nil
}
