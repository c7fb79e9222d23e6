package repository

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"centralfight/gym-app/internal/domain" // Import our defined domain models
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInconsistent = RepositoryError("inconsistent snapshot")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Snapshot is the full set of entity collections the directory is seeded from.
type Snapshot struct {
	Plans    []domain.Plan
	Trainers []domain.Trainer
	Students []domain.Student
	Payments []domain.Payment
	CheckIns []domain.CheckIn
	Gyms     []domain.Gym
	Events   []domain.Event
}

// Directory is the read-only view over a seeded Snapshot.
// Every accessor is total: a missing entity is reported through the bool,
// and filters return an empty, non-nil slice when nothing matches.
type Directory interface {
	FindStudentByID(id string) (domain.Student, bool)
	FindTrainerByID(id string) (domain.Trainer, bool)
	FindStudentByEmail(email string) (domain.Student, bool)
	FindTrainerByEmail(email string) (domain.Trainer, bool)
	GymForTrainer(trainerID string) (domain.Gym, bool)
	FindEventByID(id string) (domain.Event, bool)

	PaymentsForStudent(studentID string) []domain.Payment
	CheckInsForStudent(studentID string) []domain.CheckIn
	StudentsForTrainer(trainerID string) []domain.Student

	Plans() []domain.Plan
	Students() []domain.Student
	Payments() []domain.Payment
	CheckIns() []domain.CheckIn
	Events() []domain.Event
}

// ValidateSnapshot checks entity invariants, id uniqueness, the
// trainer/student back-references in both directions and that every other
// reference points at a known entity.
func ValidateSnapshot(s Snapshot, now time.Time) error {
	var errs []error

	seen := map[string]map[string]bool{}
	unique := func(kind, id string) {
		if seen[kind] == nil {
			seen[kind] = map[string]bool{}
		}
		if seen[kind][id] {
			errs = append(errs, fmt.Errorf("%w: duplicate %s id %q", ErrInconsistent, kind, id))
		}
		seen[kind][id] = true
	}

	for _, p := range s.Plans {
		unique("plan", p.ID)
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, st := range s.Students {
		unique("student", st.ID)
		if err := st.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range s.Payments {
		unique("payment", p.ID)
		if err := p.Validate(now); err != nil {
			errs = append(errs, err)
		}
	}
	for _, c := range s.CheckIns {
		unique("checkin", c.ID)
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, g := range s.Gyms {
		unique("gym", g.ID)
	}
	for _, e := range s.Events {
		unique("event", e.ID)
		if err := e.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	byID := make(map[string]domain.Student, len(s.Students))
	for _, st := range s.Students {
		byID[st.ID] = st
	}
	for _, p := range s.Payments {
		if _, ok := byID[p.StudentID]; !ok {
			errs = append(errs, fmt.Errorf("%w: payment %s references unknown student %s", ErrInconsistent, p.ID, p.StudentID))
		}
	}
	for _, c := range s.CheckIns {
		if _, ok := byID[c.StudentID]; !ok {
			errs = append(errs, fmt.Errorf("%w: check-in %s references unknown student %s", ErrInconsistent, c.ID, c.StudentID))
		}
	}
	for _, e := range s.Events {
		for _, sid := range e.Registrants {
			if _, ok := byID[sid]; !ok {
				errs = append(errs, fmt.Errorf("%w: event %s lists unknown student %s", ErrInconsistent, e.ID, sid))
			}
		}
	}
	for _, t := range s.Trainers {
		unique("trainer", t.ID)
		for _, sid := range t.StudentIDs {
			st, ok := byID[sid]
			if !ok {
				errs = append(errs, fmt.Errorf("%w: trainer %s lists unknown student %s", ErrInconsistent, t.ID, sid))
				continue
			}
			if st.TrainerID != t.ID {
				errs = append(errs, fmt.Errorf("%w: trainer %s lists student %s who belongs to %q", ErrInconsistent, t.ID, sid, st.TrainerID))
			}
		}
	}
	for _, st := range s.Students {
		if st.TrainerID == "" {
			continue
		}
		idx := slices.IndexFunc(s.Trainers, func(t domain.Trainer) bool { return t.ID == st.TrainerID })
		if idx < 0 {
			errs = append(errs, fmt.Errorf("%w: student %s references unknown trainer %s", ErrInconsistent, st.ID, st.TrainerID))
			continue
		}
		if !s.Trainers[idx].Manages(st.ID) {
			errs = append(errs, fmt.Errorf("%w: student %s is missing from trainer %s roster", ErrInconsistent, st.ID, st.TrainerID))
		}
	}

	gymOf := map[string]string{}
	for _, g := range s.Gyms {
		if !slices.ContainsFunc(s.Trainers, func(t domain.Trainer) bool { return t.ID == g.TrainerID }) {
			errs = append(errs, fmt.Errorf("%w: gym %s references unknown trainer %q", ErrInconsistent, g.ID, g.TrainerID))
			continue
		}
		if other, ok := gymOf[g.TrainerID]; ok {
			errs = append(errs, fmt.Errorf("%w: trainer %s runs both gym %s and gym %s", ErrInconsistent, g.TrainerID, other, g.ID))
			continue
		}
		gymOf[g.TrainerID] = g.ID
	}

	return errors.Join(errs...)
}
