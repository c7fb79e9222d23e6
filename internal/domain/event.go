package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// --- Error Definitions ---
var (
	ErrEventFull         = errors.New("event has reached its participant limit")
	ErrEventClosed       = errors.New("event is not open for registration")
	ErrAlreadyRegistered = errors.New("student is already registered for this event")
	ErrNotRegistered     = errors.New("student is not registered for this event")
	ErrMissingRegistrant = errors.New("student id is required to register")
)

type EventType string

const (
	EventTournament EventType = "tournament"
	EventSeminar    EventType = "seminar"
	EventGraduation EventType = "graduation"
	EventTraining   EventType = "training"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// Event is a tournament, seminar, graduation exam or special training
// session students can sign up for.
type Event struct {
	ID           string          `bson:"_id" json:"id"`
	Title        string          `bson:"title" json:"title"`
	Description  string          `bson:"description" json:"description"`
	Type         EventType       `bson:"type" json:"type"`
	Status       EventStatus     `bson:"status" json:"status"`
	Date         time.Time       `bson:"date" json:"date"`
	Location     string          `bson:"location" json:"location"`
	Instructor   string          `bson:"instructor,omitempty" json:"instructor,omitempty"`
	Price        decimal.Decimal `bson:"price" json:"price"`
	Image        string          `bson:"image,omitempty" json:"image,omitempty"`
	Requirements []string        `bson:"requirements,omitempty" json:"requirements,omitempty"`
	// Zero means no limit.
	MaxParticipants     int `bson:"maxParticipants,omitempty" json:"maxParticipants,omitempty"`
	CurrentParticipants int `bson:"currentParticipants" json:"currentParticipants"`
	// Registrants are the known students among CurrentParticipants.
	Registrants []string `bson:"registrants" json:"-"`
}

func (e Event) Validate() error {
	if e.ID == "" || e.Title == "" {
		return fmt.Errorf("%w: event id and title are required", ErrInvalidEntity)
	}
	switch e.Type {
	case EventTournament, EventSeminar, EventGraduation, EventTraining:
	default:
		return fmt.Errorf("%w: event %s has unknown type %q", ErrInvalidEntity, e.ID, e.Type)
	}
	switch e.Status {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
	default:
		return fmt.Errorf("%w: event %s has unknown status %q", ErrInvalidEntity, e.ID, e.Status)
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("%w: event %s has a negative price", ErrInvalidEntity, e.ID)
	}
	if e.MaxParticipants < 0 || e.CurrentParticipants < 0 {
		return fmt.Errorf("%w: event %s has a negative participant count", ErrInvalidEntity, e.ID)
	}
	if e.MaxParticipants > 0 && e.CurrentParticipants > e.MaxParticipants {
		return fmt.Errorf("%w: event %s has %d participants over a limit of %d", ErrInvalidEntity, e.ID, e.CurrentParticipants, e.MaxParticipants)
	}
	if len(e.Registrants) > e.CurrentParticipants {
		return fmt.Errorf("%w: event %s lists more registrants than participants", ErrInvalidEntity, e.ID)
	}
	return nil
}

// Full reports whether the participant limit has been reached.
func (e Event) Full() bool {
	return e.MaxParticipants > 0 && e.CurrentParticipants >= e.MaxParticipants
}

func (e Event) IsRegistered(studentID string) bool {
	return slices.Contains(e.Registrants, studentID)
}

// SpotsLeft returns the remaining capacity, or -1 for an unlimited event.
func (e Event) SpotsLeft() int {
	if e.MaxParticipants == 0 {
		return -1
	}
	return max(e.MaxParticipants-e.CurrentParticipants, 0)
}

// Clone returns a copy of e that shares no slices with it.
func (e Event) Clone() Event {
	e.Requirements = slices.Clone(e.Requirements)
	e.Registrants = slices.Clone(e.Registrants)
	return e
}

// WithRegistered returns a copy of e with studentID signed up.
// Only upcoming events with free capacity accept registrations.
func (e Event) WithRegistered(studentID string) (Event, error) {
	if studentID == "" {
		return Event{}, ErrMissingRegistrant
	}
	if e.Status != EventUpcoming {
		return Event{}, ErrEventClosed
	}
	if e.IsRegistered(studentID) {
		return Event{}, ErrAlreadyRegistered
	}
	if e.Full() {
		return Event{}, ErrEventFull
	}
	out := e.Clone()
	out.Registrants = append(out.Registrants, studentID)
	out.CurrentParticipants++
	return out, nil
}

// WithCancelled returns a copy of e without studentID's registration.
func (e Event) WithCancelled(studentID string) (Event, error) {
	if e.Status != EventUpcoming {
		return Event{}, ErrEventClosed
	}
	if !e.IsRegistered(studentID) {
		return Event{}, ErrNotRegistered
	}
	out := e.Clone()
	out.Registrants = slices.DeleteFunc(out.Registrants, func(id string) bool { return id == studentID })
	out.CurrentParticipants--
	return out, nil
}
