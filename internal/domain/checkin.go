package domain

import (
	"fmt"
	"time"
)

type CheckInType string

const (
	CheckInTraining CheckInType = "training"
	CheckInEvent    CheckInType = "event"
	CheckInExam     CheckInType = "exam"
)

// CheckIn is a recorded attendance event that grants points.
type CheckIn struct {
	ID        string      `bson:"_id" json:"id"`
	StudentID string      `bson:"studentId" json:"studentId"`
	Date      time.Time   `bson:"date" json:"date"`
	Points    int         `bson:"points" json:"points"`
	Type      CheckInType `bson:"type" json:"type"`
}

func (c CheckIn) Validate() error {
	if c.ID == "" || c.StudentID == "" {
		return fmt.Errorf("%w: check-in id and student id are required", ErrInvalidEntity)
	}
	if c.Points < 0 {
		return fmt.Errorf("%w: check-in %s awards negative points", ErrInvalidEntity, c.ID)
	}
	switch c.Type {
	case CheckInTraining, CheckInEvent, CheckInExam:
	default:
		return fmt.Errorf("%w: check-in %s has unknown type %q", ErrInvalidEntity, c.ID, c.Type)
	}
	return nil
}

// Gym is the academy a trainer runs. One gym per trainer.
type Gym struct {
	ID        string `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Address   string `bson:"address" json:"address"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email" json:"email"`
	TrainerID string `bson:"trainerId" json:"trainerId"`
}
