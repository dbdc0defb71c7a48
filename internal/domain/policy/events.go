package policy

import (
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/shared"
)

// PolicyCreatedEvent is raised when a new policy is written
type PolicyCreatedEvent struct {
	shared.BaseDomainEvent
	PolicyID        uuid.UUID       `json:"policy_id"`
	PolicyNumber    string          `json:"policy_number"`
	EffectiveDate   time.Time       `json:"effective_date"`
	AnnualPremium   string          `json:"annual_premium"`
	BillingSchedule BillingSchedule `json:"billing_schedule"`
}

// EventType returns the event type name
func (e *PolicyCreatedEvent) EventType() string {
	return "PolicyCreated"
}

// NewPolicyCreatedEvent creates a new PolicyCreatedEvent
func NewPolicyCreatedEvent(p *Policy) *PolicyCreatedEvent {
	return &PolicyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PolicyCreated", "Policy", p.ID),
		PolicyID:        p.ID,
		PolicyNumber:    p.PolicyNumber,
		EffectiveDate:   p.EffectiveDate,
		AnnualPremium:   p.AnnualPremium.String(),
		BillingSchedule: p.BillingSchedule,
	}
}

// BillingScheduleChangedEvent is raised when a policy switches installment plans
type BillingScheduleChangedEvent struct {
	shared.BaseDomainEvent
	PolicyID     uuid.UUID       `json:"policy_id"`
	PolicyNumber string          `json:"policy_number"`
	OldSchedule  BillingSchedule `json:"old_schedule"`
	NewSchedule  BillingSchedule `json:"new_schedule"`
}

// EventType returns the event type name
func (e *BillingScheduleChangedEvent) EventType() string {
	return "BillingScheduleChanged"
}

// NewBillingScheduleChangedEvent creates a new BillingScheduleChangedEvent
func NewBillingScheduleChangedEvent(p *Policy, old BillingSchedule) *BillingScheduleChangedEvent {
	return &BillingScheduleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillingScheduleChanged", "Policy", p.ID),
		PolicyID:        p.ID,
		PolicyNumber:    p.PolicyNumber,
		OldSchedule:     old,
		NewSchedule:     p.BillingSchedule,
	}
}

// PolicyCanceledEvent is raised when a policy transitions to Canceled
type PolicyCanceledEvent struct {
	shared.BaseDomainEvent
	PolicyID                uuid.UUID  `json:"policy_id"`
	PolicyNumber            string     `json:"policy_number"`
	CancellationReason      string     `json:"cancellation_reason"`
	CancellationDescription string     `json:"cancellation_description,omitempty"`
	CancellationDate        *time.Time `json:"cancellation_date,omitempty"`
}

// EventType returns the event type name
func (e *PolicyCanceledEvent) EventType() string {
	return "PolicyCanceled"
}

// NewPolicyCanceledEvent creates a new PolicyCanceledEvent
func NewPolicyCanceledEvent(p *Policy) *PolicyCanceledEvent {
	return &PolicyCanceledEvent{
		BaseDomainEvent:         shared.NewBaseDomainEvent("PolicyCanceled", "Policy", p.ID),
		PolicyID:                p.ID,
		PolicyNumber:            p.PolicyNumber,
		CancellationReason:      p.CancellationReason,
		CancellationDescription: p.CancellationDescription,
		CancellationDate:        p.CancellationDate,
	}
}
