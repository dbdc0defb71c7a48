package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewInvoice(t *testing.T) {
	t.Run("derives due and cancel dates from the bill date", func(t *testing.T) {
		policyID := uuid.New()
		invoice, err := NewInvoice(policyID, date(2015, time.January, 1), valueobject.NewMoneyUSDFromFloat(300))
		require.NoError(t, err)

		assert.Equal(t, policyID, invoice.PolicyID)
		assert.Equal(t, date(2015, time.February, 1), invoice.DueDate)
		assert.Equal(t, date(2015, time.February, 15), invoice.CancelDate)
		assert.False(t, invoice.Deleted)
	})

	t.Run("requires a policy ID", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, date(2015, time.January, 1), valueobject.NewMoneyUSDFromFloat(300))
		assert.Error(t, err)
	})

	t.Run("requires a bill date", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), time.Time{}, valueobject.NewMoneyUSDFromFloat(300))
		assert.Error(t, err)
	})
}

func TestInvoice_MarkDeleted(t *testing.T) {
	invoice, err := NewInvoice(uuid.New(), date(2015, time.January, 1), valueobject.NewMoneyUSDFromFloat(300))
	require.NoError(t, err)

	invoice.MarkDeleted()
	assert.True(t, invoice.Deleted)
}

func TestBuildInvoiceSchedule(t *testing.T) {
	policyID := uuid.New()
	start := date(2015, time.January, 1)

	t.Run("monthly splits 1200 into twelve 100 installments", func(t *testing.T) {
		invoices, err := BuildInvoiceSchedule(policyID, ScheduleMonthly, start, valueobject.NewMoneyUSDFromFloat(1200))
		require.NoError(t, err)
		require.Len(t, invoices, 12)

		for i, invoice := range invoices {
			assert.True(t, invoice.AmountDue.Amount().Equal(decimal.NewFromInt(100)), "installment %d", i)
			assert.Equal(t, AddMonths(start, i), invoice.BillDate)
		}
	})

	t.Run("quarterly bill dates land every three months", func(t *testing.T) {
		invoices, err := BuildInvoiceSchedule(policyID, ScheduleQuarterly, start, valueobject.NewMoneyUSDFromFloat(1600))
		require.NoError(t, err)
		require.Len(t, invoices, 4)

		assert.Equal(t, date(2015, time.January, 1), invoices[0].BillDate)
		assert.Equal(t, date(2015, time.April, 1), invoices[1].BillDate)
		assert.Equal(t, date(2015, time.July, 1), invoices[2].BillDate)
		assert.Equal(t, date(2015, time.October, 1), invoices[3].BillDate)
		for _, invoice := range invoices {
			assert.True(t, invoice.AmountDue.Amount().Equal(decimal.NewFromInt(400)))
		}
	})

	t.Run("annual produces a single invoice for the full premium", func(t *testing.T) {
		invoices, err := BuildInvoiceSchedule(policyID, ScheduleAnnual, start, valueobject.NewMoneyUSDFromFloat(365))
		require.NoError(t, err)
		require.Len(t, invoices, 1)
		assert.Equal(t, start, invoices[0].BillDate)
		assert.True(t, invoices[0].AmountDue.Amount().Equal(decimal.NewFromInt(365)))
	})

	t.Run("installments sum exactly to the premium when division is uneven", func(t *testing.T) {
		total := valueobject.NewMoneyUSDFromFloat(1000)
		invoices, err := BuildInvoiceSchedule(policyID, ScheduleMonthly, start, total)
		require.NoError(t, err)

		sum := valueobject.ZeroUSD()
		for _, invoice := range invoices {
			sum = sum.MustAdd(invoice.AmountDue)
		}
		assert.True(t, sum.Equals(total))

		// earlier installments absorb the leftover cents
		first := invoices[0].AmountDue.Amount()
		last := invoices[11].AmountDue.Amount()
		assert.True(t, first.GreaterThanOrEqual(last))
	})

	t.Run("rejects unknown schedules before any work", func(t *testing.T) {
		_, err := BuildInvoiceSchedule(policyID, BillingSchedule("Semi-Annual"), start, valueobject.NewMoneyUSDFromFloat(1200))
		assert.Error(t, err)
	})

	t.Run("rejects zero start date", func(t *testing.T) {
		_, err := BuildInvoiceSchedule(policyID, ScheduleMonthly, time.Time{}, valueobject.NewMoneyUSDFromFloat(1200))
		assert.Error(t, err)
	})
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month step", date(2015, time.January, 1), 1, date(2015, time.February, 1)},
		{"year rollover", date(2015, time.November, 15), 3, date(2016, time.February, 15)},
		{"jan 31 clamps to feb 28", date(2015, time.January, 31), 1, date(2015, time.February, 28)},
		{"jan 31 clamps to feb 29 in leap year", date(2016, time.January, 31), 1, date(2016, time.February, 29)},
		{"may 31 clamps to jun 30", date(2015, time.May, 31), 1, date(2015, time.June, 30)},
		{"clamped day does not stick", date(2015, time.January, 31), 2, date(2015, time.March, 31)},
		{"twelve months is one year", date(2015, time.February, 28), 12, date(2016, time.February, 28)},
		{"zero months is identity", date(2015, time.July, 4), 0, date(2015, time.July, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}
