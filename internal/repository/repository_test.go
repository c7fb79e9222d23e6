package repository_test

import (
	"errors"
	"slices"
	"testing"
	"time"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"
	"centralfight/gym-app/internal/seed"
)

var now = time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

func TestValidateSnapshotAcceptsFixture(t *testing.T) {
	if err := repository.ValidateSnapshot(seed.Snapshot("hash"), now); err != nil {
		t.Fatalf("ValidateSnapshot(fixture) = %v", err)
	}
}

func TestValidateSnapshotRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*repository.Snapshot)
		wantErr error
	}{
		{
			name:    "student missing from roster",
			mutate:  func(s *repository.Snapshot) { s.Trainers[0].StudentIDs = s.Trainers[0].StudentIDs[1:] },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "roster lists unknown student",
			mutate:  func(s *repository.Snapshot) { s.Trainers[0].StudentIDs = append(s.Trainers[0].StudentIDs, "ghost") },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "student points at unknown trainer",
			mutate:  func(s *repository.Snapshot) { s.Students[1].TrainerID = "trainer9" },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "duplicate student id",
			mutate:  func(s *repository.Snapshot) { s.Students[1].ID = s.Students[0].ID },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "payment for unknown student",
			mutate:  func(s *repository.Snapshot) { s.Payments[0].StudentID = "ghost" },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "check-in for unknown student",
			mutate:  func(s *repository.Snapshot) { s.CheckIns[0].StudentID = "ghost" },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "gym run by unknown trainer",
			mutate:  func(s *repository.Snapshot) { s.Gyms[0].TrainerID = "trainer9" },
			wantErr: repository.ErrInconsistent,
		},
		{
			name: "second gym for the same trainer",
			mutate: func(s *repository.Snapshot) {
				second := s.Gyms[0]
				second.ID = "gym2"
				s.Gyms = append(s.Gyms, second)
			},
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "event registrant unknown",
			mutate:  func(s *repository.Snapshot) { s.Events[1].Registrants = []string{"ghost"} },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "duplicate event id",
			mutate:  func(s *repository.Snapshot) { s.Events[1].ID = s.Events[0].ID },
			wantErr: repository.ErrInconsistent,
		},
		{
			name:    "event over capacity",
			mutate:  func(s *repository.Snapshot) { s.Events[0].CurrentParticipants = 40 },
			wantErr: domain.ErrInvalidEntity,
		},
		{
			name:    "negative points",
			mutate:  func(s *repository.Snapshot) { s.Students[0].Points = -10 },
			wantErr: domain.ErrInvalidEntity,
		},
		{
			name:    "paid without paid date",
			mutate:  func(s *repository.Snapshot) { s.Payments[0].PaidDate = nil },
			wantErr: domain.ErrInvalidEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := seed.Snapshot("hash")
			snap.Trainers[0] = snap.Trainers[0].Clone()
			tt.mutate(&snap)
			err := repository.ValidateSnapshot(snap, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSnapshot() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Every student in a trainer's roster points back at that trainer, and the
// reverse, for the fixture as served.
func TestFixtureRelationsAgree(t *testing.T) {
	snap := seed.Snapshot("")
	for _, tr := range snap.Trainers {
		for _, sid := range tr.StudentIDs {
			i := slices.IndexFunc(snap.Students, func(s domain.Student) bool { return s.ID == sid })
			if i < 0 || snap.Students[i].TrainerID != tr.ID {
				t.Errorf("trainer %s roster entry %s does not point back", tr.ID, sid)
			}
		}
	}
	if len(snap.Students) != 4 || len(snap.Payments) != 4 || len(snap.CheckIns) != 5 || len(snap.Plans) != 3 || len(snap.Events) != 5 {
		t.Errorf("fixture sizes: %d students, %d payments, %d check-ins, %d plans, %d events",
			len(snap.Students), len(snap.Payments), len(snap.CheckIns), len(snap.Plans), len(snap.Events))
	}
}
