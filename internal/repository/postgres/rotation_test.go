package postgres_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"equipment-dispatch-backend/internal/domain"
	"equipment-dispatch-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var rotationCols = []string{
	"id", "rental_request_id", "equipment_id", "equipment_code", "block", "seniority_score",
	"sort_order", "status", "asked_at", "responded_at", "refusal_reason", "is_force_hire",
	"created_by", "created_on", "updated_by", "updated_on",
}

func rotationRow(id, requestID, equipmentID, sortOrder int32, status string) []driver.Value {
	now := time.Now()
	return []driver.Value{id, requestID, equipmentID, "EC100", "1", 150.0, sortOrder, status, nil, nil, "", false, int32(1), now, int32(1), now}
}

func TestRotationListRepository_CreateEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRotationListRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		entries := []*domain.RotationListEntry{
			{RentalRequestID: 5, EquipmentID: 1, EquipmentCode: "744", Block: "1", SeniorityScore: 310, SortOrder: 1, Status: domain.RotationEntryStatusNotAsked},
			{RentalRequestID: 5, EquipmentID: 2, EquipmentCode: "500", Block: "Open", SeniorityScore: 90, SortOrder: 2, Status: domain.RotationEntryStatusNotAsked},
		}

		mock.ExpectBegin()
		for i, e := range entries {
			mock.ExpectQuery("INSERT INTO rotation_list_entries").
				WithArgs(e.RentalRequestID, e.EquipmentID, e.EquipmentCode, e.Block, e.SeniorityScore,
					e.SortOrder, e.Status, e.RefusalReason, e.IsForceHire,
					e.Audit.CreatedBy, sqlmock.AnyArg(), e.Audit.UpdatedBy, sqlmock.AnyArg()).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(i + 1))
		}
		mock.ExpectCommit()

		err := repo.CreateEntries(ctx, entries)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), entries[0].ID)
		assert.Equal(t, int32(2), entries[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnFailure", func(t *testing.T) {
		entries := []*domain.RotationListEntry{
			{RentalRequestID: 5, EquipmentID: 1, Status: domain.RotationEntryStatusNotAsked},
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO rotation_list_entries").
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.CreateEntries(ctx, entries)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRotationListRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRotationListRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(rotationCols).AddRow(rotationRow(10, 5, 1, 1, "NOT_ASKED")...)
		mock.ExpectQuery("SELECT (.+) FROM rotation_list_entries WHERE id = \\$1").
			WithArgs(int32(10)).
			WillReturnRows(rows)

		entry, err := repo.GetByID(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, int32(10), entry.ID)
		assert.Equal(t, domain.RotationEntryStatusNotAsked, entry.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rotation_list_entries WHERE id = \\$1").
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows(rotationCols))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRotationListRepository_ListByRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRotationListRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(rotationCols).
		AddRow(rotationRow(10, 5, 1, 1, "ACCEPTED")...).
		AddRow(rotationRow(11, 5, 2, 2, "NOT_ASKED")...).
		AddRow(rotationRow(12, 5, 7, -1, "FORCE_HIRED")...)
	mock.ExpectQuery("SELECT (.+) FROM rotation_list_entries").
		WithArgs(int32(5)).
		WillReturnRows(rows)

	entries, err := repo.ListByRequest(ctx, 5)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, int32(-1), entries[2].SortOrder)
}

func TestRotationListRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRotationListRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		entry := &domain.RotationListEntry{
			ID: 10, SortOrder: 1, Status: domain.RotationEntryStatusAsked,
			AskedAt: &now,
		}
		mock.ExpectExec("UPDATE rotation_list_entries").
			WithArgs(entry.SortOrder, entry.Status, entry.AskedAt, entry.RespondedAt, entry.RefusalReason, entry.IsForceHire,
				entry.Audit.UpdatedBy, sqlmock.AnyArg(), entry.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, entry))
	})

	t.Run("NotFound", func(t *testing.T) {
		entry := &domain.RotationListEntry{ID: 404, Status: domain.RotationEntryStatusAsked}
		mock.ExpectExec("UPDATE rotation_list_entries").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, entry), domain.ErrNotFound)
	})
}

func TestRotationListRepository_ListOverdueAsked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRotationListRepository(db)
	ctx := context.Background()
	cutoff := time.Now().Add(-48 * time.Hour)

	rows := sqlmock.NewRows(rotationCols).AddRow(rotationRow(10, 5, 1, 1, "ASKED")...)
	mock.ExpectQuery("SELECT (.+) FROM rotation_list_entries").
		WithArgs(domain.RotationEntryStatusAsked, cutoff).
		WillReturnRows(rows)

	entries, err := repo.ListOverdueAsked(ctx, cutoff)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, domain.RotationEntryStatusAsked, entries[0].Status)
}
