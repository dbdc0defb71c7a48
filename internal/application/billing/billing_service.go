package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CancellationReasonPastDue is the reason recorded when the engine derives a
// cancellation from unpaid invoices past their cancel date.
const CancellationReasonPastDue = "Past Due Payments"

// BillingService is the billing engine for policy accounting. It is
// stateless beyond its collaborators; every operation is a short
// read/compute/write sequence against the Store.
type BillingService struct {
	store  policy.Store
	logger *zap.Logger
}

// NewBillingService creates a new BillingService
func NewBillingService(store policy.Store, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingService{
		store:  store,
		logger: logger,
	}
}

// CancelDecision is the outcome of a cancellation evaluation
type CancelDecision struct {
	Canceled    bool      `json:"canceled"`
	Reason      string    `json:"reason,omitempty"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date,omitempty"`
}

// AccountBalance returns the amount owed on a policy as of the given date:
// the sum of non-deleted invoices billed on or before that date, minus the
// sum of payments transacted on or before it. A negative result means the
// policy is overpaid. A zero asOf defaults to today.
func (s *BillingService) AccountBalance(ctx context.Context, policyID uuid.UUID, asOf time.Time) (valueobject.Money, error) {
	asOf = orToday(asOf)

	var balance valueobject.Money
	err := s.store.Tx(ctx, func(tx policy.Store) error {
		if _, err := tx.Policies().FindByID(ctx, policyID); err != nil {
			return err
		}
		b, err := accountBalance(ctx, tx, policyID, asOf)
		if err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return valueobject.Money{}, err
	}
	return balance, nil
}

// accountBalance computes the balance inside an existing transaction so that
// invoices and payments are read from the same snapshot.
func accountBalance(ctx context.Context, tx policy.Store, policyID uuid.UUID, asOf time.Time) (valueobject.Money, error) {
	invoices, err := tx.Invoices().FindActiveBilledThrough(ctx, policyID, asOf)
	if err != nil {
		return valueobject.Money{}, err
	}

	balance := valueobject.Zero(valueobject.DefaultCurrency)
	for _, invoice := range invoices {
		balance, err = balance.Add(invoice.AmountDue)
		if err != nil {
			return valueobject.Money{}, err
		}
	}

	payments, err := tx.Payments().FindByPolicyThrough(ctx, policyID, asOf)
	if err != nil {
		return valueobject.Money{}, err
	}
	for _, payment := range payments {
		balance, err = balance.Subtract(payment.AmountPaid)
		if err != nil {
			return valueobject.Money{}, err
		}
	}

	return balance, nil
}

// IsCancellationPending reports whether the policy is pending cancellation
// for non-payment: true once any amount was due and unpaid as of the day
// before the evaluation date. This is an early-warning signal that gates
// payment authorization; it does not change any state.
func (s *BillingService) IsCancellationPending(ctx context.Context, policyID uuid.UUID, asOf time.Time) (bool, error) {
	asOf = orToday(asOf)

	var pending bool
	err := s.store.Tx(ctx, func(tx policy.Store) error {
		if _, err := tx.Policies().FindByID(ctx, policyID); err != nil {
			return err
		}
		p, err := cancellationPending(ctx, tx, policyID, asOf)
		if err != nil {
			return err
		}
		pending = p
		return nil
	})
	return pending, err
}

func cancellationPending(ctx context.Context, tx policy.Store, policyID uuid.UUID, asOf time.Time) (bool, error) {
	balance, err := accountBalance(ctx, tx, policyID, asOf.AddDate(0, 0, -1))
	if err != nil {
		return false, err
	}
	return balance.IsPositive(), nil
}

// RecordPayment appends a payment to the policy's ledger. When payerID is
// nil the policy's named insured is the payer. If the policy is pending
// cancellation for non-payment as of the payment date, only an agent may
// pay; any other payer is rejected with an UNAUTHORIZED domain error and
// nothing is persisted.
func (s *BillingService) RecordPayment(
	ctx context.Context,
	policyID uuid.UUID,
	payerID *uuid.UUID,
	amount valueobject.Money,
	date time.Time,
) (*policy.Payment, error) {
	date = orToday(date)

	var payment *policy.Payment
	err := s.store.Tx(ctx, func(tx policy.Store) error {
		p, err := tx.Policies().FindByID(ctx, policyID)
		if err != nil {
			return err
		}

		contactID := p.NamedInsuredID
		if payerID != nil && *payerID != uuid.Nil {
			contactID = *payerID
		}

		payer, err := tx.Contacts().FindByID(ctx, contactID)
		if err != nil {
			return err
		}

		pending, err := cancellationPending(ctx, tx, policyID, date)
		if err != nil {
			return err
		}
		if pending && !payer.IsAgent() {
			return shared.NewDomainError("UNAUTHORIZED",
				"Only an agent may make a payment on a policy pending cancellation for non-payment")
		}

		payment, err = policy.NewPayment(policyID, contactID, amount, date)
		if err != nil {
			return err
		}
		return tx.Payments().Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("policy_id", policyID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.String("amount", payment.AmountPaid.String()),
		zap.Time("transaction_date", payment.TransactionDate))

	return payment, nil
}

// EvaluateCancel decides whether a policy should be canceled as of the given
// date. With no explicit reason, it scans non-deleted invoices whose cancel
// date has passed, in bill-date order, and cancels for "Past Due Payments"
// on the first one whose balance was still positive at its cancel date. If
// none qualifies the policy stays Active and the decision says so. With an
// explicit reason the policy is canceled unconditionally. Cancellation is
// terminal and only ever happens through this operation.
func (s *BillingService) EvaluateCancel(
	ctx context.Context,
	policyID uuid.UUID,
	asOf time.Time,
	reason, description string,
) (*CancelDecision, error) {
	asOf = orToday(asOf)

	var (
		decision *CancelDecision
		canceled *policy.Policy
	)
	err := s.store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
		p, err := tx.Policies().FindByID(ctx, policyID)
		if err != nil {
			return err
		}
		if p.IsCanceled() {
			return shared.NewDomainError("INVALID_STATE", "Policy is already canceled")
		}

		if reason == "" {
			invoices, err := tx.Invoices().FindActiveCancelEligible(ctx, policyID, asOf)
			if err != nil {
				return err
			}
			for _, invoice := range invoices {
				balance, err := accountBalance(ctx, tx, policyID, invoice.CancelDate)
				if err != nil {
					return err
				}
				if balance.IsPositive() {
					reason = CancellationReasonPastDue
					description = fmt.Sprintf("Invoice %s due %s with %s unpaid past its cancel date",
						invoice.ID, invoice.DueDate.Format("2006-01-02"), invoice.AmountDue)
					break
				}
			}
			if reason == "" {
				decision = &CancelDecision{Canceled: false}
				return nil
			}
		}

		if err := p.Cancel(reason, description, asOf); err != nil {
			return err
		}
		if err := tx.Policies().Save(ctx, p); err != nil {
			return err
		}

		canceled = p
		decision = &CancelDecision{
			Canceled:    true,
			Reason:      reason,
			Description: description,
			Date:        asOf,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if canceled != nil {
		s.publishEvents(canceled)
		s.logger.Info("policy canceled",
			zap.String("policy_id", policyID.String()),
			zap.String("reason", decision.Reason),
			zap.Time("cancellation_date", decision.Date))
	} else {
		s.logger.Debug("policy should not cancel",
			zap.String("policy_id", policyID.String()),
			zap.Time("as_of", asOf))
	}

	return decision, nil
}

// ChangeBillingSchedule switches the policy to a new installment plan and
// regenerates its invoices from the given date forward. The premium already
// billed before the cursor stays untouched; only the remaining amount is
// reallocated. The schedule update and the invoice swap commit atomically.
func (s *BillingService) ChangeBillingSchedule(
	ctx context.Context,
	policyID uuid.UUID,
	schedule policy.BillingSchedule,
	from time.Time,
) error {
	from = orToday(from)

	var changed *policy.Policy
	err := s.store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
		p, err := tx.Policies().FindByID(ctx, policyID)
		if err != nil {
			return err
		}
		if err := p.ChangeBillingSchedule(schedule); err != nil {
			return err
		}
		if err := s.regenerateInvoices(ctx, tx, p, from); err != nil {
			return err
		}
		if err := tx.Policies().Save(ctx, p); err != nil {
			return err
		}
		changed = p
		return nil
	})
	if err != nil {
		return err
	}

	s.publishEvents(changed)
	s.logger.Info("billing schedule changed",
		zap.String("policy_id", policyID.String()),
		zap.String("schedule", schedule.String()),
		zap.Time("from", from))

	return nil
}

// GenerateInvoices materializes the policy's invoice schedule. With a zero
// from date the full annual premium is allocated starting at the effective
// date; otherwise the amounts of non-deleted invoices billed on or after
// from are summed and reallocated from that date. Superseded invoices are
// soft-deleted in the same transaction as the inserts.
func (s *BillingService) GenerateInvoices(ctx context.Context, policyID uuid.UUID, from time.Time) error {
	return s.store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
		p, err := tx.Policies().FindByID(ctx, policyID)
		if err != nil {
			return err
		}
		return s.regenerateInvoices(ctx, tx, p, from)
	})
}

// EnsureInvoices generates the initial schedule for a policy that has no
// current invoices, and does nothing otherwise.
func (s *BillingService) EnsureInvoices(ctx context.Context, policyID uuid.UUID) error {
	return s.store.PolicyTx(ctx, policyID, func(tx policy.Store) error {
		p, err := tx.Policies().FindByID(ctx, policyID)
		if err != nil {
			return err
		}
		existing, err := tx.Invoices().FindActiveByPolicy(ctx, policyID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		return s.regenerateInvoices(ctx, tx, p, time.Time{})
	})
}

// regenerateInvoices builds and swaps in the invoice set within the caller's
// transaction. The invalid-schedule check happens before any write, so a bad
// schedule leaves no partial state.
func (s *BillingService) regenerateInvoices(ctx context.Context, tx policy.Store, p *policy.Policy, from time.Time) error {
	var total valueobject.Money
	if from.IsZero() {
		from = p.EffectiveDate
		total = p.AnnualPremium
	} else {
		remaining, err := tx.Invoices().FindActiveBilledFrom(ctx, p.ID, from)
		if err != nil {
			return err
		}
		total = valueobject.Zero(p.AnnualPremium.Currency())
		for _, invoice := range remaining {
			total, err = total.Add(invoice.AmountDue)
			if err != nil {
				return err
			}
		}
	}

	invoices, err := policy.BuildInvoiceSchedule(p.ID, p.BillingSchedule, from, total)
	if err != nil {
		return err
	}

	if err := tx.Invoices().ReplaceFrom(ctx, p.ID, from, invoices); err != nil {
		return err
	}

	s.logger.Debug("invoice schedule generated",
		zap.String("policy_id", p.ID.String()),
		zap.String("schedule", p.BillingSchedule.String()),
		zap.Time("from", from),
		zap.Int("installments", len(invoices)),
		zap.String("total", total.String()))

	return nil
}

// publishEvents logs the aggregate's pending domain events and clears them.
func (s *BillingService) publishEvents(p *policy.Policy) {
	if p == nil {
		return
	}
	for _, event := range p.GetDomainEvents() {
		s.logger.Info("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()))
	}
	p.ClearDomainEvents()
}

func orToday(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
