package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a student settles a payment.
type PaymentMethod string

const (
	MethodPix        PaymentMethod = "pix"
	MethodCreditCard PaymentMethod = "credit_card"
	MethodBoleto     PaymentMethod = "boleto"
)

// Valid reports whether m is a supported method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodPix, MethodCreditCard, MethodBoleto:
		return true
	}
	return false
}

// PaymentState is the stored lifecycle of a payment: pending -> paid | failed.
// "Overdue" is never stored, it is derived from a pending payment's due date.
type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentPaid    PaymentState = "paid"
	PaymentFailed  PaymentState = "failed"
)

// Payment is a billing record for one plan cycle.
type Payment struct {
	ID        string          `bson:"_id" json:"id"`
	StudentID string          `bson:"studentId" json:"studentId"`
	Amount    decimal.Decimal `bson:"amount" json:"amount"`
	Method    PaymentMethod   `bson:"method" json:"method"`
	Status    PaymentState    `bson:"status" json:"status"`
	DueDate   time.Time       `bson:"dueDate" json:"dueDate"`
	PaidDate  *time.Time      `bson:"paidDate,omitempty" json:"paidDate,omitempty"` // Set iff Status == paid
	PlanID    string          `bson:"planId" json:"planId"`
}

// Validate checks the payment's field invariants relative to now.
func (p Payment) Validate(now time.Time) error {
	if p.ID == "" || p.StudentID == "" {
		return fmt.Errorf("%w: payment id and student id are required", ErrInvalidEntity)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: payment %s has a negative amount", ErrInvalidEntity, p.ID)
	}
	if !p.Method.Valid() {
		return fmt.Errorf("%w: payment %s has unknown method %q", ErrInvalidEntity, p.ID, p.Method)
	}
	switch p.Status {
	case PaymentPaid:
		if p.PaidDate == nil {
			return fmt.Errorf("%w: paid payment %s has no paid date", ErrInvalidEntity, p.ID)
		}
		if p.PaidDate.After(now) {
			return fmt.Errorf("%w: payment %s was paid in the future", ErrInvalidEntity, p.ID)
		}
	case PaymentPending, PaymentFailed:
		if p.PaidDate != nil {
			return fmt.Errorf("%w: %s payment %s carries a paid date", ErrInvalidEntity, p.Status, p.ID)
		}
	default:
		return fmt.Errorf("%w: payment %s has unknown status %q", ErrInvalidEntity, p.ID, p.Status)
	}
	return nil
}

// EffectiveDate is the paid date when present, otherwise the due date.
func (p Payment) EffectiveDate() time.Time {
	if p.PaidDate != nil {
		return *p.PaidDate
	}
	return p.DueDate
}

// WithPaid returns a copy of p settled with method at the given instant.
func (p Payment) WithPaid(method PaymentMethod, at time.Time) Payment {
	p.Status = PaymentPaid
	p.Method = method
	p.PaidDate = &at
	return p
}

// WithFailed returns a copy of p marked as failed.
func (p Payment) WithFailed() Payment {
	p.Status = PaymentFailed
	p.PaidDate = nil
	return p
}
