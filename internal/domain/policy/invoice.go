package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
)

const (
	// dueMonthsAfterBill is how long after the bill date payment is expected.
	dueMonthsAfterBill = 1
	// cancelDaysAfterDue is the grace period after the due date before the
	// invoice becomes eligible to trigger policy cancellation.
	cancelDaysAfterDue = 14
)

// Invoice represents a single installment bill on a policy. Invoices are
// never mutated once issued; regeneration soft-deletes the superseded set.
type Invoice struct {
	shared.BaseEntity
	PolicyID   uuid.UUID         `json:"policy_id"`
	BillDate   time.Time         `json:"bill_date"`
	DueDate    time.Time         `json:"due_date"`
	CancelDate time.Time         `json:"cancel_date"`
	AmountDue  valueobject.Money `json:"amount_due"`
	Deleted    bool              `json:"deleted"`
}

// NewInvoice creates an invoice billed on the given date. The due date is
// one month after the bill date and the cancel date fourteen days after that.
func NewInvoice(policyID uuid.UUID, billDate time.Time, amountDue valueobject.Money) (*Invoice, error) {
	if policyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POLICY", "Policy ID cannot be empty")
	}
	if billDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_BILL_DATE", "Bill date is required")
	}

	dueDate := AddMonths(billDate, dueMonthsAfterBill)

	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		PolicyID:   policyID,
		BillDate:   billDate,
		DueDate:    dueDate,
		CancelDate: dueDate.AddDate(0, 0, cancelDaysAfterDue),
		AmountDue:  amountDue,
	}, nil
}

// MarkDeleted soft-deletes the invoice, removing it from the current
// schedule while keeping the row for audit history.
func (i *Invoice) MarkDeleted() {
	i.Deleted = true
	i.UpdatedAt = time.Now()
}

// BuildInvoiceSchedule splits a premium total into the installments dictated
// by the billing schedule, starting at the given date. The installment
// amounts always sum exactly to the total: residual cents left over by the
// division are assigned deterministically to the earliest installments.
func BuildInvoiceSchedule(
	policyID uuid.UUID,
	schedule BillingSchedule,
	from time.Time,
	total valueobject.Money,
) ([]*Invoice, error) {
	if !schedule.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE",
			fmt.Sprintf("Billing schedule %q is not recognized", schedule))
	}
	if from.IsZero() {
		return nil, shared.NewDomainError("INVALID_BILL_DATE", "Schedule start date is required")
	}

	n := schedule.Installments()
	amounts, err := total.Allocate(n)
	if err != nil {
		return nil, err
	}

	interval := schedule.IntervalMonths()
	invoices := make([]*Invoice, 0, n)
	for i := range n {
		invoice, err := NewInvoice(policyID, AddMonths(from, i*interval), amounts[i])
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}

	return invoices, nil
}

// AddMonths advances a date by whole calendar months, clamping to the last
// day of the target month when the source day does not exist there
// (e.g. Jan 31 + 1 month = Feb 28). This keeps monthly bill dates stable
// instead of drifting the way naive date normalization would.
func AddMonths(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
