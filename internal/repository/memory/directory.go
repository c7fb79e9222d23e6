// Package memory implements repository.Directory over an immutable
// in-memory Snapshot.
package memory

import (
	"slices"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"
)

// memoryDirectory holds the seeded collections. Nothing is written after
// construction, so concurrent reads need no locking.
type memoryDirectory struct {
	snap repository.Snapshot
}

// NewDirectory copies the snapshot collections and returns a read-only directory.
func NewDirectory(s repository.Snapshot) repository.Directory {
	return &memoryDirectory{snap: repository.Snapshot{
		Plans:    slices.Clone(s.Plans),
		Trainers: slices.Clone(s.Trainers),
		Students: slices.Clone(s.Students),
		Payments: slices.Clone(s.Payments),
		CheckIns: slices.Clone(s.CheckIns),
		Gyms:     slices.Clone(s.Gyms),
		Events:   cloneEvents(s.Events),
	}}
}

func (d *memoryDirectory) FindStudentByID(id string) (domain.Student, bool) {
	return find(d.snap.Students, func(s domain.Student) bool { return s.ID == id })
}

func (d *memoryDirectory) FindTrainerByID(id string) (domain.Trainer, bool) {
	t, ok := find(d.snap.Trainers, func(t domain.Trainer) bool { return t.ID == id })
	if !ok {
		return domain.Trainer{}, false
	}
	return t.Clone(), true
}

func (d *memoryDirectory) FindStudentByEmail(email string) (domain.Student, bool) {
	if email == "" {
		return domain.Student{}, false
	}
	return find(d.snap.Students, func(s domain.Student) bool { return s.Email == email })
}

func (d *memoryDirectory) FindTrainerByEmail(email string) (domain.Trainer, bool) {
	if email == "" {
		return domain.Trainer{}, false
	}
	t, ok := find(d.snap.Trainers, func(t domain.Trainer) bool { return t.Email == email })
	if !ok {
		return domain.Trainer{}, false
	}
	return t.Clone(), true
}

func (d *memoryDirectory) GymForTrainer(trainerID string) (domain.Gym, bool) {
	return find(d.snap.Gyms, func(g domain.Gym) bool { return g.TrainerID == trainerID })
}

func (d *memoryDirectory) FindEventByID(id string) (domain.Event, bool) {
	e, ok := find(d.snap.Events, func(e domain.Event) bool { return e.ID == id })
	if !ok {
		return domain.Event{}, false
	}
	return e.Clone(), true
}

func (d *memoryDirectory) PaymentsForStudent(studentID string) []domain.Payment {
	return filter(d.snap.Payments, func(p domain.Payment) bool { return p.StudentID == studentID })
}

func (d *memoryDirectory) CheckInsForStudent(studentID string) []domain.CheckIn {
	return filter(d.snap.CheckIns, func(c domain.CheckIn) bool { return c.StudentID == studentID })
}

func (d *memoryDirectory) StudentsForTrainer(trainerID string) []domain.Student {
	return filter(d.snap.Students, func(s domain.Student) bool { return s.TrainerID == trainerID })
}

func (d *memoryDirectory) Plans() []domain.Plan       { return cloneNonNil(d.snap.Plans) }
func (d *memoryDirectory) Students() []domain.Student { return cloneNonNil(d.snap.Students) }
func (d *memoryDirectory) Payments() []domain.Payment { return cloneNonNil(d.snap.Payments) }
func (d *memoryDirectory) CheckIns() []domain.CheckIn { return cloneNonNil(d.snap.CheckIns) }
func (d *memoryDirectory) Events() []domain.Event     { return cloneEvents(d.snap.Events) }

func cloneEvents(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func filter[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0)
	for _, it := range items {
		if match(it) {
			out = append(out, it)
		}
	}
	return out
}

func cloneNonNil[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
