package policy

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
)

// Status represents the lifecycle status of a policy
type Status string

const (
	StatusActive   Status = "Active"
	StatusCanceled Status = "Canceled" // Terminal; no reinstatement
)

// IsValid checks if the status is a valid policy Status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusCanceled
}

// String returns the string representation of the Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the policy is in a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCanceled
}

// Policy is the aggregate root for the policy billing context. It owns its
// invoice schedule; payments are independent append-only ledger entries.
type Policy struct {
	shared.BaseAggregateRoot
	PolicyNumber    string                `json:"policy_number"`
	EffectiveDate   time.Time             `json:"effective_date"`
	AnnualPremium   valueobject.Money     `json:"annual_premium"`
	BillingSchedule BillingSchedule       `json:"billing_schedule"`
	NamedInsuredID  uuid.UUID             `json:"named_insured_id"`
	AgentID         uuid.UUID             `json:"agent_id"`
	Status          Status                `json:"status"`

	// Cancellation fields, set only when the policy transitions to Canceled.
	CancellationReason      string     `json:"cancellation_reason,omitempty"`
	CancellationDescription string     `json:"cancellation_description,omitempty"`
	CancellationDate        *time.Time `json:"cancellation_date,omitempty"`
}

// NewPolicy creates a new active policy
func NewPolicy(
	policyNumber string,
	effectiveDate time.Time,
	annualPremium valueobject.Money,
	schedule BillingSchedule,
	namedInsuredID uuid.UUID,
	agentID uuid.UUID,
) (*Policy, error) {
	if policyNumber == "" {
		return nil, shared.NewDomainError("INVALID_POLICY_NUMBER", "Policy number cannot be empty")
	}
	if len(policyNumber) > 128 {
		return nil, shared.NewDomainError("INVALID_POLICY_NUMBER", "Policy number cannot exceed 128 characters")
	}
	if effectiveDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EFFECTIVE_DATE", "Effective date is required")
	}
	if annualPremium.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PREMIUM", "Annual premium cannot be negative")
	}
	if !schedule.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE",
			fmt.Sprintf("Billing schedule %q is not recognized", schedule))
	}
	if namedInsuredID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_NAMED_INSURED", "Named insured contact is required")
	}
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENT", "Agent contact is required")
	}

	p := &Policy{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PolicyNumber:      policyNumber,
		EffectiveDate:     effectiveDate,
		AnnualPremium:     annualPremium,
		BillingSchedule:   schedule,
		NamedInsuredID:    namedInsuredID,
		AgentID:           agentID,
		Status:            StatusActive,
	}

	p.AddDomainEvent(NewPolicyCreatedEvent(p))

	return p, nil
}

// ChangeBillingSchedule switches the policy to a new billing schedule.
// The caller is responsible for regenerating the invoice set afterwards.
func (p *Policy) ChangeBillingSchedule(schedule BillingSchedule) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change billing schedule of a %s policy", p.Status))
	}
	if !schedule.IsValid() {
		return shared.NewDomainError("INVALID_SCHEDULE",
			fmt.Sprintf("Billing schedule %q is not recognized", schedule))
	}

	old := p.BillingSchedule
	p.BillingSchedule = schedule
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if old != schedule {
		p.AddDomainEvent(NewBillingScheduleChangedEvent(p, old))
	}

	return nil
}

// Cancel transitions the policy to the terminal Canceled state, recording
// why and when. The decision itself is made by the billing engine; this
// only enforces the state machine.
func (p *Policy) Cancel(reason, description string, date time.Time) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel policy in %s status", p.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	p.Status = StatusCanceled
	p.CancellationReason = reason
	p.CancellationDescription = description
	p.CancellationDate = &date
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPolicyCanceledEvent(p))

	return nil
}

// IsActive returns true if the policy has not been canceled
func (p *Policy) IsActive() bool {
	return p.Status == StatusActive
}

// IsCanceled returns true if the policy is canceled
func (p *Policy) IsCanceled() bool {
	return p.Status == StatusCanceled
}
