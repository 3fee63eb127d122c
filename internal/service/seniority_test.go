package service_test

import (
	"context"
	"testing"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/service"
	"equipment-dispatch-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seniorityFixture struct {
	repo      *fakeSeniorityRepo
	auditRepo *fakeAuditRepo
	svc       service.SeniorityService
}

func newSeniorityFixture() *seniorityFixture {
	fx := &seniorityFixture{
		repo:      newFakeSeniorityRepo(),
		auditRepo: newFakeAuditRepo(),
	}
	fx.svc = service.NewSeniorityService(fx.repo, service.NewAuditService(fx.auditRepo), utils.DefaultSeniorityWeights)
	return fx
}

func (fx *seniorityFixture) addRecord(t *testing.T, equipmentID int32, fiscalYear int32, hours [4]float64, years int32, registered string) *domain.SeniorityRecord {
	t.Helper()
	rec := &domain.SeniorityRecord{
		EquipmentID:     equipmentID,
		LocalAreaID:     1,
		EquipmentTypeID: 2,
		FiscalYear:      fiscalYear,
		ServiceHours:    hours,
		YearsOfService:  years,
		Block:           domain.Block1,
		RegisteredDate:  registered,
	}
	require.NoError(t, fx.repo.Create(context.Background(), rec))
	return rec
}

var testPool = domain.Pool{LocalAreaID: 1, EquipmentTypeID: 2, Block: domain.Block1}

func TestRecalculatePool_ScoresAndRanks(t *testing.T) {
	fx := newSeniorityFixture()
	ctx := context.Background()

	// 100*1.5/1 = 150 versus 400*1.5/4 = 150: tied scores fall back to the
	// earlier registration date.
	fx.addRecord(t, 1, 2026, [4]float64{100, 0, 0, 0}, 1, "2015-06-01")
	fx.addRecord(t, 2, 2026, [4]float64{400, 0, 0, 0}, 4, "2010-04-12")
	fx.addRecord(t, 3, 2026, [4]float64{2000, 1000, 500, 250}, 4, "2008-01-01")

	require.NoError(t, fx.svc.RecalculatePool(ctx, 99, testPool, 2026))

	rec3, err := fx.repo.GetByEquipment(ctx, 3, 2026)
	require.NoError(t, err)
	// (2000*1.5 + 1000*1.0 + 500*0.5 + 250*0.25) / 4 = 1078.125
	assert.Equal(t, 1078.125, rec3.SeniorityScore)
	assert.Equal(t, int32(1), rec3.NumberInBlock)

	rec2, err := fx.repo.GetByEquipment(ctx, 2, 2026)
	require.NoError(t, err)
	assert.Equal(t, 150.0, rec2.SeniorityScore)
	assert.Equal(t, int32(2), rec2.NumberInBlock)

	rec1, err := fx.repo.GetByEquipment(ctx, 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, 150.0, rec1.SeniorityScore)
	assert.Equal(t, int32(3), rec1.NumberInBlock)
}

func TestRecalculatePool_InvalidHistory(t *testing.T) {
	fx := newSeniorityFixture()
	fx.addRecord(t, 1, 2026, [4]float64{100, -5, 0, 0}, 2, "2015-06-01")
	err := fx.svc.RecalculatePool(context.Background(), 99, testPool, 2026)
	assert.ErrorIs(t, err, domain.ErrInvalidHistory)
}

func TestOverrideScore(t *testing.T) {
	fx := newSeniorityFixture()
	ctx := context.Background()
	fx.addRecord(t, 1, 2026, [4]float64{100, 0, 0, 0}, 1, "2015-06-01")
	fx.addRecord(t, 2, 2026, [4]float64{50, 0, 0, 0}, 1, "2016-06-01")
	require.NoError(t, fx.svc.RecalculatePool(ctx, 99, testPool, 2026))

	_, err := fx.svc.OverrideScore(ctx, 99, 2, 2026, 400.0, "")
	assert.ErrorIs(t, err, domain.ErrMissingOverrideReason)

	overridden, err := fx.svc.OverrideScore(ctx, 99, 2, 2026, 400.0, "board appeal 2026-14")
	require.NoError(t, err)
	assert.True(t, overridden.IsOverridden)
	assert.Equal(t, "board appeal 2026-14", overridden.OverrideReason)
	assert.Equal(t, 400.0, overridden.SeniorityScore)
	// The override moved the machine to the head of the block.
	assert.Equal(t, int32(1), overridden.NumberInBlock)

	other, err := fx.repo.GetByEquipment(ctx, 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, int32(2), other.NumberInBlock)

	assert.Contains(t, fx.auditRepo.actions(), domain.AuditActionSeniorityOverridden)
}

func TestRecalculatePool_OverrideSurvivesRecalculation(t *testing.T) {
	fx := newSeniorityFixture()
	ctx := context.Background()
	fx.addRecord(t, 1, 2026, [4]float64{100, 0, 0, 0}, 1, "2015-06-01")
	require.NoError(t, fx.svc.RecalculatePool(ctx, 99, testPool, 2026))
	_, err := fx.svc.OverrideScore(ctx, 99, 1, 2026, 999.5, "tribunal ruling")
	require.NoError(t, err)

	fx.auditRepo.records = nil
	require.NoError(t, fx.svc.RecalculatePool(ctx, 99, testPool, 2026))

	rec, err := fx.repo.GetByEquipment(ctx, 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, 999.5, rec.SeniorityScore)
	assert.True(t, rec.IsOverridden)
	// The comparison against the formula is still recorded.
	assert.Contains(t, fx.auditRepo.actions(), domain.AuditActionSeniorityRecalculated)
}

func TestRunFiscalYearRollover(t *testing.T) {
	fx := newSeniorityFixture()
	ctx := context.Background()
	old := fx.addRecord(t, 1, 2026, [4]float64{100, 80, 60, 40}, 3, "2015-06-01")
	old.IsOverridden = true
	old.OverrideReason = "appeal"
	old.SeniorityScore = 777.0
	require.NoError(t, fx.repo.Update(ctx, old))

	require.NoError(t, fx.svc.RunFiscalYearRollover(ctx, service.SystemActorID, 2027))

	next, err := fx.repo.GetByEquipment(ctx, 1, 2027)
	require.NoError(t, err)
	assert.Equal(t, [4]float64{0, 100, 80, 60}, next.ServiceHours)
	assert.Equal(t, int32(4), next.YearsOfService)
	assert.Equal(t, "2015-06-01", next.RegisteredDate)
	// Overrides do not carry into the new year; the formula takes over.
	assert.False(t, next.IsOverridden)
	assert.Empty(t, next.OverrideReason)
	// (0*1.5 + 100*1.0 + 80*0.5 + 60*0.25) / 4 = 38.75
	assert.Equal(t, 38.75, next.SeniorityScore)

	// The prior year's record is untouched.
	prev, err := fx.repo.GetByEquipment(ctx, 1, 2026)
	require.NoError(t, err)
	assert.Equal(t, 777.0, prev.SeniorityScore)
	assert.True(t, prev.IsOverridden)
}
