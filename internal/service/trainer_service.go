package service

import (
	"context"
	"errors"
	"time"

	"centralfight/gym-app/internal/analytics"
	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrTrainerNotFound   = errors.New("trainer not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrStudentNotManaged = errors.New("student is not managed by this trainer")
)

// Points awarded for a check-in recorded by the trainer or by QR.
const CheckInPoints = 10

type TrainerDashboard struct {
	Trainer  domain.Trainer            `json:"trainer"`
	Gym      *domain.Gym               `json:"gym,omitempty"`
	Overview analytics.TrainerOverview `json:"overview"`
}

type FinancialReport struct {
	Summary  analytics.RevenueSummary `json:"summary"`
	Payments []analytics.PaymentView  `json:"payments"`
}

type StudentDetail struct {
	Student        domain.Student            `json:"student"`
	Payments       []analytics.PaymentView   `json:"payments"`
	RecentCheckIns []domain.CheckIn          `json:"recentCheckIns"`
	Progress       analytics.StudentProgress `json:"progress"`
}

type TrainerService interface {
	Dashboard(ctx context.Context, trainerID string) (*TrainerDashboard, error)
	Students(ctx context.Context, trainerID, search string, filter analytics.StudentFilter) ([]domain.Student, error)
	StudentDetail(ctx context.Context, trainerID, studentID string) (*StudentDetail, error)
	Financial(ctx context.Context, trainerID string) (*FinancialReport, error)
	Leaderboard(ctx context.Context, trainerID string, limit int) ([]domain.Student, error)
	Attendance(ctx context.Context, trainerID string, limit int) ([]analytics.AttendanceEntry, error)
	// RecordCheckIn builds a check-in for one of the trainer's students.
	// The result is returned to the caller only; the directory is not modified.
	RecordCheckIn(ctx context.Context, trainerID, studentID string) (*domain.CheckIn, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	directory repository.Directory
	weekStart time.Weekday
	now       func() time.Time
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(directory repository.Directory, weekStart time.Weekday, now func() time.Time) TrainerService {
	if now == nil {
		now = time.Now
	}
	return &trainerService{directory: directory, weekStart: weekStart, now: now}
}

func (s *trainerService) period() analytics.Period {
	return analytics.Period{Now: s.now(), WeekStart: s.weekStart}
}

func (s *trainerService) trainer(trainerID string) (domain.Trainer, error) {
	t, ok := s.directory.FindTrainerByID(trainerID)
	if !ok {
		return domain.Trainer{}, ErrTrainerNotFound
	}
	return t, nil
}

// managedStudent resolves a student and checks it belongs to trainerID.
func (s *trainerService) managedStudent(trainerID, studentID string) (domain.Student, error) {
	if _, err := s.trainer(trainerID); err != nil {
		return domain.Student{}, err
	}
	st, ok := s.directory.FindStudentByID(studentID)
	if !ok {
		return domain.Student{}, ErrStudentNotFound
	}
	if st.TrainerID != trainerID {
		return domain.Student{}, ErrStudentNotManaged
	}
	return st, nil
}

func (s *trainerService) Dashboard(ctx context.Context, trainerID string) (*TrainerDashboard, error) {
	t, err := s.trainer(trainerID)
	if err != nil {
		return nil, err
	}
	students := s.directory.StudentsForTrainer(trainerID)
	d := &TrainerDashboard{
		Trainer:  t,
		Overview: analytics.OverviewFor(students, s.directory.Payments(), s.directory.CheckIns(), s.period()),
	}
	if gym, ok := s.directory.GymForTrainer(trainerID); ok {
		d.Gym = &gym
	}
	return d, nil
}

func (s *trainerService) Students(ctx context.Context, trainerID, search string, filter analytics.StudentFilter) ([]domain.Student, error) {
	if _, err := s.trainer(trainerID); err != nil {
		return nil, err
	}
	return analytics.FilterStudents(s.directory.StudentsForTrainer(trainerID), search, filter), nil
}

func (s *trainerService) StudentDetail(ctx context.Context, trainerID, studentID string) (*StudentDetail, error) {
	st, err := s.managedStudent(trainerID, studentID)
	if err != nil {
		return nil, err
	}
	p := s.period()
	checkIns := s.directory.CheckInsForStudent(studentID)
	return &StudentDetail{
		Student:        st,
		Payments:       analytics.DescribePayments(s.directory.PaymentsForStudent(studentID), p.Now),
		RecentCheckIns: analytics.RecentCheckIns(checkIns, 5),
		Progress:       analytics.ProgressFor(st, checkIns, p, 5),
	}, nil
}

func (s *trainerService) Financial(ctx context.Context, trainerID string) (*FinancialReport, error) {
	if _, err := s.trainer(trainerID); err != nil {
		return nil, err
	}
	students := s.directory.StudentsForTrainer(trainerID)
	var payments []domain.Payment
	for _, st := range students {
		payments = append(payments, s.directory.PaymentsForStudent(st.ID)...)
	}
	p := s.period()
	return &FinancialReport{
		Summary:  analytics.SummarizeRevenue(payments, len(students), p),
		Payments: analytics.DescribePayments(payments, p.Now),
	}, nil
}

func (s *trainerService) Leaderboard(ctx context.Context, trainerID string, limit int) ([]domain.Student, error) {
	if _, err := s.trainer(trainerID); err != nil {
		return nil, err
	}
	return analytics.Leaderboard(s.directory.StudentsForTrainer(trainerID), limit), nil
}

func (s *trainerService) Attendance(ctx context.Context, trainerID string, limit int) ([]analytics.AttendanceEntry, error) {
	if _, err := s.trainer(trainerID); err != nil {
		return nil, err
	}
	return analytics.AttendanceRanking(s.directory.StudentsForTrainer(trainerID), s.directory.CheckIns(), limit), nil
}

func (s *trainerService) RecordCheckIn(ctx context.Context, trainerID, studentID string) (*domain.CheckIn, error) {
	if _, err := s.managedStudent(trainerID, studentID); err != nil {
		return nil, err
	}
	return &domain.CheckIn{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Date:      s.now(),
		Points:    CheckInPoints,
		Type:      domain.CheckInTraining,
	}, nil
}
