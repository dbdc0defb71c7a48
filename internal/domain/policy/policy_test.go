package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy(
		"Policy Three",
		date(2015, time.January, 1),
		valueobject.NewMoneyUSDFromFloat(1200),
		ScheduleMonthly,
		uuid.New(),
		uuid.New(),
	)
	require.NoError(t, err)
	return p
}

func TestNewPolicy(t *testing.T) {
	t.Run("creates an active policy and raises a created event", func(t *testing.T) {
		p := newTestPolicy(t)

		assert.Equal(t, StatusActive, p.Status)
		assert.True(t, p.IsActive())
		assert.False(t, p.IsCanceled())
		assert.Nil(t, p.CancellationDate)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "PolicyCreated", events[0].EventType())
	})

	t.Run("validation failures", func(t *testing.T) {
		premium := valueobject.NewMoneyUSDFromFloat(1200)
		effective := date(2015, time.January, 1)
		insured, agent := uuid.New(), uuid.New()

		tests := []struct {
			name string
			fn   func() (*Policy, error)
		}{
			{"empty policy number", func() (*Policy, error) {
				return NewPolicy("", effective, premium, ScheduleMonthly, insured, agent)
			}},
			{"zero effective date", func() (*Policy, error) {
				return NewPolicy("P1", time.Time{}, premium, ScheduleMonthly, insured, agent)
			}},
			{"negative premium", func() (*Policy, error) {
				return NewPolicy("P1", effective, valueobject.NewMoneyUSDFromFloat(-1), ScheduleMonthly, insured, agent)
			}},
			{"unknown schedule", func() (*Policy, error) {
				return NewPolicy("P1", effective, premium, BillingSchedule("Weekly"), insured, agent)
			}},
			{"missing named insured", func() (*Policy, error) {
				return NewPolicy("P1", effective, premium, ScheduleMonthly, uuid.Nil, agent)
			}},
			{"missing agent", func() (*Policy, error) {
				return NewPolicy("P1", effective, premium, ScheduleMonthly, insured, uuid.Nil)
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.fn()
				assert.Error(t, err)
				var domainErr *shared.DomainError
				assert.ErrorAs(t, err, &domainErr)
			})
		}
	})
}

func TestPolicy_ChangeBillingSchedule(t *testing.T) {
	t.Run("switches schedule and raises a change event", func(t *testing.T) {
		p := newTestPolicy(t)
		p.ClearDomainEvents()

		require.NoError(t, p.ChangeBillingSchedule(ScheduleQuarterly))
		assert.Equal(t, ScheduleQuarterly, p.BillingSchedule)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "BillingScheduleChanged", events[0].EventType())
	})

	t.Run("same schedule is a no-op for events", func(t *testing.T) {
		p := newTestPolicy(t)
		p.ClearDomainEvents()

		require.NoError(t, p.ChangeBillingSchedule(ScheduleMonthly))
		assert.Empty(t, p.GetDomainEvents())
	})

	t.Run("rejects unknown schedule", func(t *testing.T) {
		p := newTestPolicy(t)
		err := p.ChangeBillingSchedule(BillingSchedule("Semi-Annual"))
		assert.Error(t, err)
		assert.Equal(t, ScheduleMonthly, p.BillingSchedule)
	})

	t.Run("rejects change on a canceled policy", func(t *testing.T) {
		p := newTestPolicy(t)
		require.NoError(t, p.Cancel("Underwriting", "", date(2015, time.June, 1)))

		err := p.ChangeBillingSchedule(ScheduleAnnual)
		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestPolicy_Cancel(t *testing.T) {
	t.Run("records reason, description and date", func(t *testing.T) {
		p := newTestPolicy(t)
		when := date(2015, time.March, 15)

		require.NoError(t, p.Cancel("Past Due Payments", "unpaid invoice", when))

		assert.True(t, p.IsCanceled())
		assert.Equal(t, "Past Due Payments", p.CancellationReason)
		assert.Equal(t, "unpaid invoice", p.CancellationDescription)
		require.NotNil(t, p.CancellationDate)
		assert.Equal(t, when, *p.CancellationDate)
	})

	t.Run("requires a reason", func(t *testing.T) {
		p := newTestPolicy(t)
		err := p.Cancel("", "", date(2015, time.March, 15))
		assert.Error(t, err)
		assert.True(t, p.IsActive())
	})

	t.Run("cancellation is terminal", func(t *testing.T) {
		p := newTestPolicy(t)
		require.NoError(t, p.Cancel("Fraud", "", date(2015, time.March, 15)))

		err := p.Cancel("Past Due Payments", "", date(2015, time.April, 1))
		assert.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Equal(t, "Fraud", p.CancellationReason)
	})

	t.Run("zero date defaults to now", func(t *testing.T) {
		p := newTestPolicy(t)
		require.NoError(t, p.Cancel("Underwriting", "", time.Time{}))
		require.NotNil(t, p.CancellationDate)
		assert.WithinDuration(t, time.Now(), *p.CancellationDate, time.Minute)
	})

	t.Run("raises a canceled event", func(t *testing.T) {
		p := newTestPolicy(t)
		p.ClearDomainEvents()

		require.NoError(t, p.Cancel("Past Due Payments", "", date(2015, time.March, 15)))
		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "PolicyCanceled", events[0].EventType())
	})
}

func TestNewPayment(t *testing.T) {
	t.Run("creates a payment", func(t *testing.T) {
		policyID, contactID := uuid.New(), uuid.New()
		payment, err := NewPayment(policyID, contactID, valueobject.NewMoneyUSDFromFloat(400), date(2015, time.February, 1))
		require.NoError(t, err)
		assert.Equal(t, policyID, payment.PolicyID)
		assert.Equal(t, contactID, payment.ContactID)
		assert.Equal(t, date(2015, time.February, 1), payment.TransactionDate)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), uuid.New(), valueobject.ZeroUSD(), date(2015, time.February, 1))
		assert.Error(t, err)
		_, err = NewPayment(uuid.New(), uuid.New(), valueobject.NewMoneyUSDFromFloat(-5), date(2015, time.February, 1))
		assert.Error(t, err)
	})

	t.Run("zero date defaults to now", func(t *testing.T) {
		payment, err := NewPayment(uuid.New(), uuid.New(), valueobject.NewMoneyUSDFromFloat(400), time.Time{})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), payment.TransactionDate, time.Minute)
	})
}

func TestContact_IsAgent(t *testing.T) {
	agent, err := NewContact("Bob Smith", RoleAgent)
	require.NoError(t, err)
	assert.True(t, agent.IsAgent())

	insured, err := NewContact("Jane Doe", RoleNamedInsured)
	require.NoError(t, err)
	assert.False(t, insured.IsAgent())
}
