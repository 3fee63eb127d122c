package http

import (
	"context"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockDispatchService struct {
	mock.Mock
}

func (m *mockDispatchService) OfferNext(ctx context.Context, actorID, rentalRequestID int32) (*domain.RotationListEntry, error) {
	args := m.Called(ctx, actorID, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RotationListEntry), args.Error(1)
}

func (m *mockDispatchService) RecordResponse(ctx context.Context, actorID, entryID int32, response service.OfferResponse, reason string) (*domain.RotationListEntry, error) {
	args := m.Called(ctx, actorID, entryID, response, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RotationListEntry), args.Error(1)
}

func (m *mockDispatchService) ForceHire(ctx context.Context, actorID, rentalRequestID, equipmentID int32, reason string) (*domain.RotationListEntry, error) {
	args := m.Called(ctx, actorID, rentalRequestID, equipmentID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RotationListEntry), args.Error(1)
}

func (m *mockDispatchService) CancelRequest(ctx context.Context, actorID, rentalRequestID int32) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actorID, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}

func (m *mockDispatchService) CloseRequest(ctx context.Context, actorID, rentalRequestID int32) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actorID, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}

func (m *mockDispatchService) ExpireOverdueOffers(ctx context.Context, window time.Duration) (int, error) {
	args := m.Called(ctx, window)
	return args.Int(0), args.Error(1)
}

type mockRotationService struct {
	mock.Mock
}

func (m *mockRotationService) BuildList(ctx context.Context, localAreaID, equipmentTypeID int32, block string, fiscalYear int32) ([]domain.CallOutCandidate, error) {
	args := m.Called(ctx, localAreaID, equipmentTypeID, block, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CallOutCandidate), args.Error(1)
}

func (m *mockRotationService) BuildForRequest(ctx context.Context, actorID, rentalRequestID, fiscalYear int32) ([]domain.RotationListEntry, error) {
	args := m.Called(ctx, actorID, rentalRequestID, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RotationListEntry), args.Error(1)
}

func (m *mockRotationService) GetRotationList(ctx context.Context, rentalRequestID int32) ([]service.RotationEntryView, error) {
	args := m.Called(ctx, rentalRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RotationEntryView), args.Error(1)
}

type mockSeniorityService struct {
	mock.Mock
}

func (m *mockSeniorityService) OverrideScore(ctx context.Context, actorID, equipmentID, fiscalYear int32, score float64, reason string) (*domain.SeniorityRecord, error) {
	args := m.Called(ctx, actorID, equipmentID, fiscalYear, score, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SeniorityRecord), args.Error(1)
}

func (m *mockSeniorityService) RecalculatePool(ctx context.Context, actorID int32, pool domain.Pool, fiscalYear int32) error {
	args := m.Called(ctx, actorID, pool, fiscalYear)
	return args.Error(0)
}

func (m *mockSeniorityService) RecalculateAll(ctx context.Context, actorID, fiscalYear int32) error {
	args := m.Called(ctx, actorID, fiscalYear)
	return args.Error(0)
}

func (m *mockSeniorityService) RunFiscalYearRollover(ctx context.Context, actorID, newFiscalYear int32) error {
	args := m.Called(ctx, actorID, newFiscalYear)
	return args.Error(0)
}
