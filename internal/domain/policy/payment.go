package policy

import (
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
)

// Payment is an append-only ledger entry recording money received against a
// policy. Payments are never applied to specific invoices; the account
// balance nets them against the invoiced amounts.
type Payment struct {
	shared.BaseEntity
	PolicyID        uuid.UUID         `json:"policy_id"`
	ContactID       uuid.UUID         `json:"contact_id"`
	AmountPaid      valueobject.Money `json:"amount_paid"`
	TransactionDate time.Time         `json:"transaction_date"`
}

// NewPayment creates a new payment record
func NewPayment(policyID, contactID uuid.UUID, amount valueobject.Money, transactionDate time.Time) (*Payment, error) {
	if policyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POLICY", "Policy ID cannot be empty")
	}
	if contactID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Payer contact ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	return &Payment{
		BaseEntity:      shared.NewBaseEntity(),
		PolicyID:        policyID,
		ContactID:       contactID,
		AmountPaid:      amount,
		TransactionDate: transactionDate,
	}, nil
}
