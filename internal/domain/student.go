package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidEntity is wrapped by every Validate failure.
var ErrInvalidEntity = errors.New("invalid entity")

// PaymentStatus is the billing standing stored on a Student.
type PaymentStatus string

const (
	PaymentStatusActive    PaymentStatus = "active"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusSuspended PaymentStatus = "suspended"
)

// Level is a student's belt-style ranking.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert" // only ever reached as "next level" of advanced
)

// Student is an account enrolled in a plan and managed by one trainer.
type Student struct {
	User          `bson:",inline"`
	Plan          Plan          `bson:"plan" json:"plan"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	DueDate       time.Time     `bson:"dueDate" json:"dueDate"`
	Points        int           `bson:"points" json:"points"`
	Level         Level         `bson:"level" json:"level"`
	FightStyle    string        `bson:"fightStyle" json:"fightStyle"`
	Weight        float64       `bson:"weight" json:"weight"`
	Category      string        `bson:"category" json:"category"`
	TrainerID     string        `bson:"trainerId" json:"trainerId"` // Back-reference, not ownership
}

func (s Student) Profile() User { return s.User }
func (s Student) Role() Role    { return RoleStudent }
func (Student) isAccount()      {}

// Validate checks the field invariants of a student record.
func (s Student) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: student id is required", ErrInvalidEntity)
	}
	if s.Points < 0 {
		return fmt.Errorf("%w: student %s has negative points", ErrInvalidEntity, s.ID)
	}
	if s.Weight <= 0 {
		return fmt.Errorf("%w: student %s must have a positive weight", ErrInvalidEntity, s.ID)
	}
	switch s.PaymentStatus {
	case PaymentStatusActive, PaymentStatusOverdue, PaymentStatusSuspended:
	default:
		return fmt.Errorf("%w: student %s has unknown payment status %q", ErrInvalidEntity, s.ID, s.PaymentStatus)
	}
	switch s.Level {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
	default:
		return fmt.Errorf("%w: student %s has unknown level %q", ErrInvalidEntity, s.ID, s.Level)
	}
	return s.Plan.Validate()
}

// WithPaymentStatus returns a copy of s with the given billing standing.
func (s Student) WithPaymentStatus(status PaymentStatus) Student {
	s.PaymentStatus = status
	return s
}

// WithProfile returns a copy of s with the profile fields replaced.
func (s Student) WithProfile(p Profile) Student {
	s.User = s.User.withProfile(p)
	return s
}

// WithCheckIn returns a copy of s credited with the check-in's points.
func (s Student) WithCheckIn(c CheckIn) Student {
	s.Points += c.Points
	return s
}
