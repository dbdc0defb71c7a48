package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock, mockDB
}

func TestGormStore_Repositories(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormStore(db)

	assert.NotNil(t, store.Policies())
	assert.NotNil(t, store.Invoices())
	assert.NotNil(t, store.Payments())
	assert.NotNil(t, store.Contacts())
}

func TestGormStore_Tx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits writes made through the transactional store", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormStore(db)

		contact, err := policy.NewContact("Jane Doe", policy.RoleNamedInsured)
		require.NoError(t, err)

		err = store.Tx(ctx, func(tx policy.Store) error {
			return tx.Contacts().Save(ctx, contact)
		})
		require.NoError(t, err)

		found, err := store.Contacts().FindByID(ctx, contact.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", found.Name)
	})

	t.Run("rolls back every write when fn fails", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormStore(db)

		contact, err := policy.NewContact("Jane Doe", policy.RoleNamedInsured)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = store.Tx(ctx, func(tx policy.Store) error {
			if err := tx.Contacts().Save(ctx, contact); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = store.Contacts().FindByID(ctx, contact.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("reads inside the transaction see earlier writes", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewGormStore(db)
		policyID := uuid.New()

		invoice, err := policy.NewInvoice(policyID, time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
			valueobject.NewMoneyUSDFromFloat(100))
		require.NoError(t, err)

		err = store.Tx(ctx, func(tx policy.Store) error {
			if err := tx.Invoices().ReplaceFrom(ctx, policyID, invoice.BillDate, []*policy.Invoice{invoice}); err != nil {
				return err
			}
			invoices, err := tx.Invoices().FindActiveByPolicy(ctx, policyID)
			if err != nil {
				return err
			}
			assert.Len(t, invoices, 1)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestGormStore_PolicyTx(t *testing.T) {
	ctx := context.Background()

	t.Run("locks the policy row before running fn", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		policyID := uuid.New()

		mock.ExpectBegin()
		rows := sqlmock.NewRows([]string{"id", "policy_number", "status"}).
			AddRow(policyID, "Policy One", "Active")
		mock.ExpectQuery(`SELECT \* FROM "policies" WHERE id = \$1 .* FOR UPDATE`).
			WithArgs(policyID, 1).
			WillReturnRows(rows)
		mock.ExpectCommit()

		called := false
		err := store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps a missing policy to ErrNotFound without running fn", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		policyID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "policies" WHERE id = \$1 .* FOR UPDATE`).
			WithArgs(policyID, 1).
			WillReturnError(gorm.ErrRecordNotFound)
		mock.ExpectRollback()

		err := store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
			t.Fatal("fn must not run when the policy is missing")
			return nil
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("propagates database failures", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		policyID := uuid.New()
		dbErr := errors.New("connection reset")

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "policies" WHERE id = \$1 .* FOR UPDATE`).
			WithArgs(policyID, 1).
			WillReturnError(dbErr)
		mock.ExpectRollback()

		err := store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
			return nil
		})
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
