package policy

// BillingSchedule governs how many installments a policy's annual premium
// is split into per year.
type BillingSchedule string

const (
	ScheduleAnnual    BillingSchedule = "Annual"    // 1 installment
	ScheduleTwoPay    BillingSchedule = "Two-Pay"   // 2 installments
	ScheduleQuarterly BillingSchedule = "Quarterly" // 4 installments
	ScheduleMonthly   BillingSchedule = "Monthly"   // 12 installments
)

// IsValid checks if the schedule is a recognized BillingSchedule
func (s BillingSchedule) IsValid() bool {
	switch s {
	case ScheduleAnnual, ScheduleTwoPay, ScheduleQuarterly, ScheduleMonthly:
		return true
	}
	return false
}

// String returns the string representation of the BillingSchedule
func (s BillingSchedule) String() string {
	return string(s)
}

// Installments returns the number of invoices generated per policy year.
// Returns 0 for unrecognized schedules.
func (s BillingSchedule) Installments() int {
	switch s {
	case ScheduleAnnual:
		return 1
	case ScheduleTwoPay:
		return 2
	case ScheduleQuarterly:
		return 4
	case ScheduleMonthly:
		return 12
	}
	return 0
}

// IntervalMonths returns the number of months between consecutive bill dates.
// Returns 0 for unrecognized schedules.
func (s BillingSchedule) IntervalMonths() int {
	n := s.Installments()
	if n == 0 {
		return 0
	}
	return 12 / n
}
