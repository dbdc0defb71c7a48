package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PolicyModel is the persistence model for the Policy aggregate root
type PolicyModel struct {
	AggregateModel
	PolicyNumber            string          `gorm:"type:varchar(128);not null;uniqueIndex"`
	EffectiveDate           time.Time       `gorm:"not null"`
	AnnualPremium           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BillingSchedule         string          `gorm:"type:varchar(16);not null"`
	NamedInsuredID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	AgentID                 uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status                  string          `gorm:"type:varchar(16);not null;index"`
	CancellationReason      string          `gorm:"type:varchar(128)"`
	CancellationDescription string          `gorm:"type:text"`
	CancellationDate        *time.Time
}

// TableName returns the table name for GORM
func (PolicyModel) TableName() string {
	return "policies"
}

// ToDomain converts the persistence model to a domain Policy
func (m *PolicyModel) ToDomain() *policy.Policy {
	return &policy.Policy{
		BaseAggregateRoot:       m.ToDomainAggregateRoot(),
		PolicyNumber:            m.PolicyNumber,
		EffectiveDate:           m.EffectiveDate,
		AnnualPremium:           valueobject.NewMoneyUSD(m.AnnualPremium),
		BillingSchedule:         policy.BillingSchedule(m.BillingSchedule),
		NamedInsuredID:          m.NamedInsuredID,
		AgentID:                 m.AgentID,
		Status:                  policy.Status(m.Status),
		CancellationReason:      m.CancellationReason,
		CancellationDescription: m.CancellationDescription,
		CancellationDate:        m.CancellationDate,
	}
}

// PolicyModelFromDomain creates a persistence model from a domain Policy
func PolicyModelFromDomain(p *policy.Policy) *PolicyModel {
	m := &PolicyModel{
		PolicyNumber:            p.PolicyNumber,
		EffectiveDate:           p.EffectiveDate,
		AnnualPremium:           p.AnnualPremium.Amount(),
		BillingSchedule:         p.BillingSchedule.String(),
		NamedInsuredID:          p.NamedInsuredID,
		AgentID:                 p.AgentID,
		Status:                  p.Status.String(),
		CancellationReason:      p.CancellationReason,
		CancellationDescription: p.CancellationDescription,
		CancellationDate:        p.CancellationDate,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// InvoiceModel is the persistence model for invoices. Rows are soft-deleted
// on schedule regeneration, never removed.
type InvoiceModel struct {
	BaseModel
	PolicyID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	BillDate   time.Time       `gorm:"not null;index"`
	DueDate    time.Time       `gorm:"not null"`
	CancelDate time.Time       `gorm:"not null;index"`
	AmountDue  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Deleted    bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *policy.Invoice {
	return &policy.Invoice{
		BaseEntity: m.BaseModel.ToDomain(),
		PolicyID:   m.PolicyID,
		BillDate:   m.BillDate,
		DueDate:    m.DueDate,
		CancelDate: m.CancelDate,
		AmountDue:  valueobject.NewMoneyUSD(m.AmountDue),
		Deleted:    m.Deleted,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(i *policy.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		PolicyID:   i.PolicyID,
		BillDate:   i.BillDate,
		DueDate:    i.DueDate,
		CancelDate: i.CancelDate,
		AmountDue:  i.AmountDue.Amount(),
		Deleted:    i.Deleted,
	}
	m.FromDomainBaseEntity(i.BaseEntity)
	return m
}

// PaymentModel is the persistence model for payments (append-only)
type PaymentModel struct {
	BaseModel
	PolicyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContactID       uuid.UUID       `gorm:"type:uuid;not null"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TransactionDate time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *policy.Payment {
	return &policy.Payment{
		BaseEntity:      m.BaseModel.ToDomain(),
		PolicyID:        m.PolicyID,
		ContactID:       m.ContactID,
		AmountPaid:      valueobject.NewMoneyUSD(m.AmountPaid),
		TransactionDate: m.TransactionDate,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *policy.Payment) *PaymentModel {
	m := &PaymentModel{
		PolicyID:        p.PolicyID,
		ContactID:       p.ContactID,
		AmountPaid:      p.AmountPaid.Amount(),
		TransactionDate: p.TransactionDate,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ContactModel is the persistence model for contacts
type ContactModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null"`
	Role string `gorm:"type:varchar(32);not null;index"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *policy.Contact {
	return &policy.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Role:       policy.ContactRole(m.Role),
	}
}

// ContactModelFromDomain creates a persistence model from a domain Contact
func ContactModelFromDomain(c *policy.Contact) *ContactModel {
	m := &ContactModel{
		Name: c.Name,
		Role: c.Role.String(),
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
