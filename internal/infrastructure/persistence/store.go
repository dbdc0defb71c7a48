package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements policy.Store on top of a GORM database handle.
// Repositories obtained from a store created inside Tx or PolicyTx share
// that transaction's connection.
type GormStore struct {
	db       *gorm.DB
	policies *GormPolicyRepository
	invoices *GormInvoiceRepository
	payments *GormPaymentRepository
	contacts *GormContactRepository
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		policies: NewGormPolicyRepository(db),
		invoices: NewGormInvoiceRepository(db),
		payments: NewGormPaymentRepository(db),
		contacts: NewGormContactRepository(db),
	}
}

// Policies returns the policy repository
func (s *GormStore) Policies() policy.PolicyRepository {
	return s.policies
}

// Invoices returns the invoice repository
func (s *GormStore) Invoices() policy.InvoiceRepository {
	return s.invoices
}

// Payments returns the payment repository
func (s *GormStore) Payments() policy.PaymentRepository {
	return s.payments
}

// Contacts returns the contact repository
func (s *GormStore) Contacts() policy.ContactRepository {
	return s.contacts
}

// Tx runs fn inside a single transaction. The store passed to fn is bound to
// the transaction, so every read observes one consistent snapshot and every
// write commits or rolls back together.
func (s *GormStore) Tx(ctx context.Context, fn func(policy.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// PolicyTx runs fn inside a transaction holding a row lock on the given
// policy. Concurrent schedule regeneration and cancellation decisions for the
// same policy serialize on this lock.
func (s *GormStore) PolicyTx(ctx context.Context, policyID uuid.UUID, fn func(policy.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.PolicyModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", policyID).
			First(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		return fn(NewGormStore(tx))
	})
}

// Ensure GormStore implements policy.Store
var _ policy.Store = (*GormStore)(nil)
