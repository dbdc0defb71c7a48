package policy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PolicyRepository defines the interface for policy persistence
type PolicyRepository interface {
	// FindByID finds a policy by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Policy, error)

	// FindByNumber finds a policy by its policy number
	FindByNumber(ctx context.Context, policyNumber string) (*Policy, error)

	// Save creates or updates a policy
	Save(ctx context.Context, p *Policy) error
}

// InvoiceRepository defines the interface for invoice persistence.
// All Find methods return only non-deleted invoices, ordered by bill date.
type InvoiceRepository interface {
	// FindActiveByPolicy finds the current (non-deleted) invoice set for a policy
	FindActiveByPolicy(ctx context.Context, policyID uuid.UUID) ([]Invoice, error)

	// FindActiveBilledThrough finds non-deleted invoices with bill date <= asOf
	FindActiveBilledThrough(ctx context.Context, policyID uuid.UUID, asOf time.Time) ([]Invoice, error)

	// FindActiveBilledFrom finds non-deleted invoices with bill date >= from
	FindActiveBilledFrom(ctx context.Context, policyID uuid.UUID, from time.Time) ([]Invoice, error)

	// FindActiveCancelEligible finds non-deleted invoices with cancel date <= asOf
	FindActiveCancelEligible(ctx context.Context, policyID uuid.UUID, asOf time.Time) ([]Invoice, error)

	// ReplaceFrom atomically soft-deletes every non-deleted invoice with
	// bill date >= from and inserts the replacement set. Either all writes
	// commit or none do.
	ReplaceFrom(ctx context.Context, policyID uuid.UUID, from time.Time, invoices []*Invoice) error
}

// PaymentRepository defines the interface for payment persistence.
// Payments are append-only; there is no update or delete.
type PaymentRepository interface {
	// FindByPolicy finds all payments for a policy
	FindByPolicy(ctx context.Context, policyID uuid.UUID) ([]Payment, error)

	// FindByPolicyThrough finds payments with transaction date <= asOf
	FindByPolicyThrough(ctx context.Context, policyID uuid.UUID, asOf time.Time) ([]Payment, error)

	// Save inserts a new payment record
	Save(ctx context.Context, p *Payment) error
}

// ContactRepository defines the interface for contact persistence
type ContactRepository interface {
	// FindByID finds a contact by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)

	// Save creates or updates a contact
	Save(ctx context.Context, c *Contact) error
}

// Store is the persistence capability set consumed by the billing engine.
// It bundles the repositories with transaction scoping so the engine never
// touches an ambient database handle.
type Store interface {
	Policies() PolicyRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Contacts() ContactRepository

	// Tx runs fn inside a single transaction. Repositories obtained from the
	// Store passed to fn observe one consistent snapshot, and writes commit
	// or roll back together.
	Tx(ctx context.Context, fn func(Store) error) error

	// PolicyTx runs fn inside a transaction that holds an exclusive lock on
	// the given policy row, serializing schedule regeneration and
	// cancellation decisions for that policy.
	PolicyTx(ctx context.Context, policyID uuid.UUID, fn func(Store) error) error
}
