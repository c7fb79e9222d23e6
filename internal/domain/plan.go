package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Plan is a subscription tier. Shared by value across students and never modified.
type Plan struct {
	ID           string          `bson:"_id" json:"id"`
	Name         string          `bson:"name" json:"name"`
	Price        decimal.Decimal `bson:"price" json:"price"`
	DurationDays int             `bson:"durationDays" json:"duration"`
	Description  string          `bson:"description" json:"description"`
}

func (p Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: plan id is required", ErrInvalidEntity)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: plan %s has a negative price", ErrInvalidEntity, p.ID)
	}
	if p.DurationDays <= 0 {
		return fmt.Errorf("%w: plan %s must last at least one day", ErrInvalidEntity, p.ID)
	}
	return nil
}
