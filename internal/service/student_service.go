package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"centralfight/gym-app/internal/analytics"
	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentNotPending    = errors.New("payment is not pending")
	ErrPaymentMethod        = errors.New("payment method must be pix, credit_card or boleto")
	ErrPaymentDeclined      = errors.New("payment was declined")
	ErrInvalidQRCode        = errors.New("QR code is not valid for check-in")
	ErrMalformedQRPayload   = errors.New("QR code could not be read")
	ErrEventNotFound        = errors.New("event not found")
	ErrEventFilter          = errors.New("event filter must be all, upcoming or registered")
	ErrNotificationNotFound = errors.New("notification not found")
)

// DefaultGymName is shown when a check-in QR code does not name its gym.
const DefaultGymName = "Central Fight"

// QRPayload is the check-in data carried by the gym's QR code. Any other
// field in the code is ignored.
type QRPayload struct {
	Type    string `json:"type"`
	GymID   string `json:"gymId"`
	GymName string `json:"gymName,omitempty"`
}

type StudentHome struct {
	Student         domain.Student            `json:"student"`
	Progress        analytics.StudentProgress `json:"progress"`
	PendingPayments []analytics.PaymentView   `json:"pendingPayments"`
}

type StudentPayments struct {
	Pending []analytics.PaymentView  `json:"pending"`
	Paid    []analytics.PaymentView  `json:"paid"`
	Total   analytics.RevenueSummary `json:"summary"`
}

// PaymentReceipt is the outcome of a simulated payment.
type PaymentReceipt struct {
	ReceiptID string         `json:"receiptId,omitempty"`
	Payment   domain.Payment `json:"payment"`
	Student   domain.Student `json:"student"` // with the billing standing re-derived
}

// QRCheckIn is the outcome of scanning a check-in QR code.
type QRCheckIn struct {
	CheckIn domain.CheckIn `json:"checkIn"`
	GymName string         `json:"gymName"`
	Student domain.Student `json:"student"` // with the new points credited
}

type StudentEvents struct {
	Summary analytics.EventSummary `json:"summary"`
	Events  []analytics.EventView  `json:"events"`
}

type StudentService interface {
	Home(ctx context.Context, studentID string) (*StudentHome, error)
	Progress(ctx context.Context, studentID string) (*analytics.StudentProgress, error)
	Payments(ctx context.Context, studentID string) (*StudentPayments, error)
	// ProcessPayment settles a pending payment. Nothing is persisted: the
	// caller receives the replacement record. When the gateway declines the
	// charge the receipt carries the failed payment alongside ErrPaymentDeclined.
	ProcessPayment(ctx context.Context, studentID, paymentID string, method domain.PaymentMethod) (*PaymentReceipt, error)
	CheckInWithQR(ctx context.Context, studentID string, payload []byte) (*QRCheckIn, error)

	Notifications(ctx context.Context, studentID string) (domain.Notifications, error)
	MarkNotificationRead(ctx context.Context, studentID, notificationID string) (domain.Notifications, error)
	MarkAllNotificationsRead(ctx context.Context, studentID string) (domain.Notifications, error)
	DeleteNotification(ctx context.Context, studentID, notificationID string) (domain.Notifications, error)

	Events(ctx context.Context, studentID string, filter analytics.EventFilter) (*StudentEvents, error)
	// RegisterForEvent and CancelEventRegistration return the replacement
	// event; the directory is not modified.
	RegisterForEvent(ctx context.Context, studentID, eventID string) (*analytics.EventView, error)
	CancelEventRegistration(ctx context.Context, studentID, eventID string) (*analytics.EventView, error)
}

// PaymentGateway charges a payment with the payment provider.
type PaymentGateway interface {
	Charge(ctx context.Context, p domain.Payment, method domain.PaymentMethod) error
}

// SimulatedGateway approves every charge after Delay. A charge whose
// context ends first is declined.
type SimulatedGateway struct {
	Delay time.Duration
}

func (g SimulatedGateway) Charge(ctx context.Context, _ domain.Payment, _ domain.PaymentMethod) error {
	if g.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// studentService implements the StudentService interface.
type studentService struct {
	directory repository.Directory
	gateway   PaymentGateway
	weekStart time.Weekday
	now       func() time.Time
}

// NewStudentService creates a new instance of studentService. A nil gateway
// approves every payment immediately.
func NewStudentService(directory repository.Directory, gateway PaymentGateway, weekStart time.Weekday, now func() time.Time) StudentService {
	if gateway == nil {
		gateway = SimulatedGateway{}
	}
	if now == nil {
		now = time.Now
	}
	return &studentService{directory: directory, gateway: gateway, weekStart: weekStart, now: now}
}

func (s *studentService) student(studentID string) (domain.Student, error) {
	st, ok := s.directory.FindStudentByID(studentID)
	if !ok {
		return domain.Student{}, ErrStudentNotFound
	}
	return st, nil
}

func (s *studentService) Home(ctx context.Context, studentID string) (*StudentHome, error) {
	st, err := s.student(studentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	pending, _ := analytics.SplitPayments(s.directory.PaymentsForStudent(studentID))
	return &StudentHome{
		Student:         st,
		Progress:        analytics.ProgressFor(st, s.directory.CheckInsForStudent(studentID), analytics.Period{Now: now, WeekStart: s.weekStart}, 3),
		PendingPayments: analytics.DescribePayments(pending, now),
	}, nil
}

func (s *studentService) Progress(ctx context.Context, studentID string) (*analytics.StudentProgress, error) {
	st, err := s.student(studentID)
	if err != nil {
		return nil, err
	}
	p := analytics.ProgressFor(st, s.directory.CheckInsForStudent(studentID), analytics.Period{Now: s.now(), WeekStart: s.weekStart}, 10)
	return &p, nil
}

func (s *studentService) Payments(ctx context.Context, studentID string) (*StudentPayments, error) {
	if _, err := s.student(studentID); err != nil {
		return nil, err
	}
	now := s.now()
	all := s.directory.PaymentsForStudent(studentID)
	pending, paid := analytics.SplitPayments(all)
	return &StudentPayments{
		Pending: analytics.DescribePayments(pending, now),
		Paid:    analytics.DescribePayments(paid, now),
		Total:   analytics.SummarizeRevenue(all, 1, analytics.Period{Now: now, WeekStart: s.weekStart}),
	}, nil
}

func (s *studentService) ProcessPayment(ctx context.Context, studentID, paymentID string, method domain.PaymentMethod) (*PaymentReceipt, error) {
	if !method.Valid() {
		return nil, ErrPaymentMethod
	}
	st, err := s.student(studentID)
	if err != nil {
		return nil, err
	}
	payments := s.directory.PaymentsForStudent(studentID)
	idx := slices.IndexFunc(payments, func(p domain.Payment) bool { return p.ID == paymentID })
	if idx < 0 {
		return nil, ErrPaymentNotFound
	}
	p := payments[idx]
	if p.Status != domain.PaymentPending {
		return nil, ErrPaymentNotPending
	}

	if err := s.gateway.Charge(ctx, p, method); err != nil {
		log.Printf("WARN: Payment %s for student %s declined: %v", p.ID, studentID, err)
		return &PaymentReceipt{Payment: p.WithFailed(), Student: st}, fmt.Errorf("%w: %w", ErrPaymentDeclined, err)
	}

	now := s.now()
	payments[idx] = p.WithPaid(method, now)
	return &PaymentReceipt{
		ReceiptID: uuid.NewString(),
		Payment:   payments[idx],
		Student:   st.WithPaymentStatus(analytics.PaymentStanding(st.PaymentStatus, payments, now)),
	}, nil
}

// ParseQRPayload decodes and validates a check-in QR code. The code must be
// a JSON object whose type is "checkin" and whose gymId is present and not
// empty, zero or false. A gymId of any JSON type is accepted.
func ParseQRPayload(raw []byte) (QRPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return QRPayload{}, ErrMalformedQRPayload
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return QRPayload{}, ErrMalformedQRPayload
	}
	if doc == nil {
		return QRPayload{}, ErrMalformedQRPayload
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		return QRPayload{}, ErrInvalidQRCode
	}
	if typ, _ := fields["type"].(string); typ != "checkin" {
		return QRPayload{}, ErrInvalidQRCode
	}
	gymID, ok := qrText(fields["gymId"])
	if !ok {
		return QRPayload{}, ErrInvalidQRCode
	}
	gymName, _ := fields["gymName"].(string)
	return QRPayload{Type: "checkin", GymID: gymID, GymName: strings.TrimSpace(gymName)}, nil
}

// qrText renders a decoded JSON value as an identifier. Blank strings,
// zero, false and null identify nothing.
func qrText(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case json.Number:
		f, err := v.Float64()
		if err != nil || f == 0 {
			return "", false
		}
		return v.String(), true
	case bool:
		return "true", v
	case map[string]any, []any:
		b, err := json.Marshal(v)
		return string(b), err == nil
	}
	return "", false
}

func (s *studentService) CheckInWithQR(ctx context.Context, studentID string, payload []byte) (*QRCheckIn, error) {
	st, err := s.student(studentID)
	if err != nil {
		return nil, err
	}
	qr, err := ParseQRPayload(payload)
	if err != nil {
		return nil, err
	}
	gymName := qr.GymName
	if gymName == "" {
		gymName = DefaultGymName
	}
	c := domain.CheckIn{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Date:      s.now(),
		Points:    CheckInPoints,
		Type:      domain.CheckInTraining,
	}
	return &QRCheckIn{CheckIn: c, GymName: gymName, Student: st.WithCheckIn(c)}, nil
}

func (s *studentService) Notifications(ctx context.Context, studentID string) (domain.Notifications, error) {
	st, err := s.student(studentID)
	if err != nil {
		return nil, err
	}
	p := analytics.Period{Now: s.now(), WeekStart: s.weekStart}
	progress := analytics.ProgressFor(st, s.directory.CheckInsForStudent(studentID), p, 0)
	return analytics.NotificationsFor(s.directory.PaymentsForStudent(studentID), progress, p.Now), nil
}

// notification loads the inbox and checks that it holds notificationID.
func (s *studentService) notification(ctx context.Context, studentID, notificationID string) (domain.Notifications, error) {
	inbox, err := s.Notifications(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(inbox, func(n domain.Notification) bool { return n.ID == notificationID }) {
		return nil, ErrNotificationNotFound
	}
	return inbox, nil
}

func (s *studentService) MarkNotificationRead(ctx context.Context, studentID, notificationID string) (domain.Notifications, error) {
	inbox, err := s.notification(ctx, studentID, notificationID)
	if err != nil {
		return nil, err
	}
	return inbox.MarkRead(notificationID), nil
}

func (s *studentService) MarkAllNotificationsRead(ctx context.Context, studentID string) (domain.Notifications, error) {
	inbox, err := s.Notifications(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return inbox.MarkAllRead(), nil
}

func (s *studentService) DeleteNotification(ctx context.Context, studentID, notificationID string) (domain.Notifications, error) {
	inbox, err := s.notification(ctx, studentID, notificationID)
	if err != nil {
		return nil, err
	}
	return inbox.Delete(notificationID), nil
}

func (s *studentService) Events(ctx context.Context, studentID string, filter analytics.EventFilter) (*StudentEvents, error) {
	if filter == "" {
		filter = analytics.EventsAll
	}
	if !filter.Valid() {
		return nil, ErrEventFilter
	}
	if _, err := s.student(studentID); err != nil {
		return nil, err
	}
	events := s.directory.Events()
	return &StudentEvents{
		Summary: analytics.SummarizeEvents(events, studentID),
		Events:  analytics.FilterEvents(events, studentID, filter),
	}, nil
}

func (s *studentService) changeRegistration(studentID, eventID string, change func(domain.Event) (domain.Event, error)) (*analytics.EventView, error) {
	if _, err := s.student(studentID); err != nil {
		return nil, err
	}
	e, ok := s.directory.FindEventByID(eventID)
	if !ok {
		return nil, ErrEventNotFound
	}
	updated, err := change(e)
	if err != nil {
		return nil, err
	}
	view := analytics.ViewEvent(updated, studentID)
	return &view, nil
}

func (s *studentService) RegisterForEvent(ctx context.Context, studentID, eventID string) (*analytics.EventView, error) {
	return s.changeRegistration(studentID, eventID, func(e domain.Event) (domain.Event, error) {
		return e.WithRegistered(studentID)
	})
}

func (s *studentService) CancelEventRegistration(ctx context.Context, studentID, eventID string) (*analytics.EventView, error) {
	return s.changeRegistration(studentID, eventID, func(e domain.Event) (domain.Event, error) {
		return e.WithCancelled(studentID)
	})
}
