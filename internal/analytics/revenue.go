package analytics

import (
	"time"

	"centralfight/gym-app/internal/domain"

	"github.com/shopspring/decimal"
)

// PaymentDisplayStatus is the status label shown for a payment.
type PaymentDisplayStatus string

const (
	DisplayPaid    PaymentDisplayStatus = "paid"
	DisplayPending PaymentDisplayStatus = "pending"
	DisplayOverdue PaymentDisplayStatus = "overdue"
	DisplayFailed  PaymentDisplayStatus = "failed"
)

// IsOverdue reports whether p is pending with a due date before now.
func IsOverdue(p domain.Payment, now time.Time) bool {
	return p.Status == domain.PaymentPending && p.DueDate.Before(now)
}

// DisplayStatus derives the label from the stored status and the due date.
func DisplayStatus(p domain.Payment, now time.Time) PaymentDisplayStatus {
	switch p.Status {
	case domain.PaymentPaid:
		return DisplayPaid
	case domain.PaymentFailed:
		return DisplayFailed
	}
	if IsOverdue(p, now) {
		return DisplayOverdue
	}
	return DisplayPending
}

// PaymentStanding derives a student's billing standing from their payments.
// Suspension is lifted only by staff, never here.
func PaymentStanding(current domain.PaymentStatus, payments []domain.Payment, now time.Time) domain.PaymentStatus {
	if current == domain.PaymentStatusSuspended {
		return current
	}
	for _, p := range payments {
		if IsOverdue(p, now) {
			return domain.PaymentStatusOverdue
		}
	}
	return domain.PaymentStatusActive
}

func sumWhere(payments []domain.Payment, keep func(domain.Payment) bool) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if keep(p) {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// TotalRevenue sums every paid payment.
func TotalRevenue(payments []domain.Payment) decimal.Decimal {
	return sumWhere(payments, func(p domain.Payment) bool { return p.Status == domain.PaymentPaid })
}

// PendingRevenue sums every pending payment, overdue or not.
func PendingRevenue(payments []domain.Payment) decimal.Decimal {
	return sumWhere(payments, func(p domain.Payment) bool { return p.Status == domain.PaymentPending })
}

// OverdueRevenue sums the pending payments whose due date has passed.
func OverdueRevenue(payments []domain.Payment, now time.Time) decimal.Decimal {
	return sumWhere(payments, func(p domain.Payment) bool { return IsOverdue(p, now) })
}

// MonthRevenue sums paid payments settled in the month of period.Now.
// A paid payment without a paid date is placed by its due date.
func MonthRevenue(payments []domain.Payment, period Period) decimal.Decimal {
	return sumWhere(payments, func(p domain.Payment) bool {
		return p.Status == domain.PaymentPaid && period.InMonth(p.EffectiveDate())
	})
}

// AverageTicket divides total revenue by the number of students, 0 when there are none.
func AverageTicket(total decimal.Decimal, students int) decimal.Decimal {
	if students <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(students)))
}

type RevenueSummary struct {
	Total         decimal.Decimal `json:"totalRevenue"`
	Pending       decimal.Decimal `json:"pendingRevenue"`
	Overdue       decimal.Decimal `json:"overdueRevenue"`
	ThisMonth     decimal.Decimal `json:"thisMonthRevenue"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	PaidCount     int             `json:"paidCount"`
	PendingCount  int             `json:"pendingCount"`
}

// SummarizeRevenue computes the financial report for a set of payments
// shared by studentCount students.
func SummarizeRevenue(payments []domain.Payment, studentCount int, period Period) RevenueSummary {
	total := TotalRevenue(payments)
	s := RevenueSummary{
		Total:         total,
		Pending:       PendingRevenue(payments),
		Overdue:       OverdueRevenue(payments, period.Now),
		ThisMonth:     MonthRevenue(payments, period),
		AverageTicket: AverageTicket(total, studentCount),
	}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentPaid:
			s.PaidCount++
		case domain.PaymentPending:
			s.PendingCount++
		}
	}
	return s
}

// SplitPayments separates pending and paid payments, keeping input order.
// Failed payments are in neither.
func SplitPayments(payments []domain.Payment) (pending, paid []domain.Payment) {
	pending, paid = []domain.Payment{}, []domain.Payment{}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentPending:
			pending = append(pending, p)
		case domain.PaymentPaid:
			paid = append(paid, p)
		}
	}
	return pending, paid
}

// PaymentView pairs a payment with its derived display status.
type PaymentView struct {
	domain.Payment
	DisplayStatus PaymentDisplayStatus `json:"displayStatus"`
	Overdue       bool                 `json:"overdue"`
}

// DescribePayments derives the display status of each payment at now.
func DescribePayments(payments []domain.Payment, now time.Time) []PaymentView {
	out := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentView{Payment: p, DisplayStatus: DisplayStatus(p, now), Overdue: IsOverdue(p, now)})
	}
	return out
}
