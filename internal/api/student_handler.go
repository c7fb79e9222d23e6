package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"centralfight/gym-app/internal/analytics"
	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

type PayRequest struct {
	Method domain.PaymentMethod `json:"method" binding:"required"`
}

// QRCheckInRequest carries the raw text decoded from the gym's QR code.
type QRCheckInRequest struct {
	Payload string `json:"payload" binding:"required"`
}

func handleStudentError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPaymentNotPending),
		errors.Is(err, domain.ErrEventFull),
		errors.Is(err, domain.ErrEventClosed),
		errors.Is(err, domain.ErrAlreadyRegistered),
		errors.Is(err, domain.ErrNotRegistered):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPaymentMethod),
		errors.Is(err, service.ErrInvalidQRCode),
		errors.Is(err, service.ErrMalformedQRPayload),
		errors.Is(err, service.ErrEventFilter):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: %s failed: %v", op, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// GetHome godoc
// @Summary Student home screen
// @Tags Student
// @Produce json
// @Success 200 {object} service.StudentHome
// @Security BearerAuth
// @Router /student/home [get]
func (h *StudentHandler) GetHome(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	home, err := h.studentService.Home(c.Request.Context(), studentID)
	if err != nil {
		handleStudentError(c, "Home", err)
		return
	}
	c.JSON(http.StatusOK, home)
}

// GetProgress godoc
// @Summary Level, goals and recent check-ins
// @Tags Student
// @Produce json
// @Success 200 {object} analytics.StudentProgress
// @Security BearerAuth
// @Router /student/progress [get]
func (h *StudentHandler) GetProgress(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	progress, err := h.studentService.Progress(c.Request.Context(), studentID)
	if err != nil {
		handleStudentError(c, "Progress", err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// GetPayments godoc
// @Summary Pending and paid payments
// @Tags Student
// @Produce json
// @Success 200 {object} service.StudentPayments
// @Security BearerAuth
// @Router /student/payments [get]
func (h *StudentHandler) GetPayments(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	payments, err := h.studentService.Payments(c.Request.Context(), studentID)
	if err != nil {
		handleStudentError(c, "Payments", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// PayPayment godoc
// @Summary Settle a pending payment (simulated)
// @Tags Student
// @Accept json
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Param method body PayRequest true "Payment method"
// @Success 200 {object} service.PaymentReceipt
// @Failure 400 {object} gin.H "Invalid method"
// @Failure 404 {object} gin.H "Payment not found"
// @Failure 402 {object} gin.H "Payment declined; carries the failed payment"
// @Failure 409 {object} gin.H "Payment not pending"
// @Security BearerAuth
// @Router /student/payments/{paymentId}/pay [post]
func (h *StudentHandler) PayPayment(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	receipt, err := h.studentService.ProcessPayment(c.Request.Context(), studentID, c.Param("paymentId"), req.Method)
	if errors.Is(err, service.ErrPaymentDeclined) && receipt != nil {
		c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": err.Error(), "payment": receipt.Payment})
		return
	}
	if err != nil {
		handleStudentError(c, "ProcessPayment", err)
		return
	}
	log.Printf("INFO: Payment %s settled by student %s via %s", receipt.Payment.ID, studentID, req.Method)
	c.JSON(http.StatusOK, receipt)
}

// CheckInWithQR godoc
// @Summary Check in by scanning the gym QR code
// @Tags Student
// @Accept json
// @Produce json
// @Param body body QRCheckInRequest true "Scanned QR text"
// @Success 201 {object} service.QRCheckIn
// @Failure 400 {object} gin.H "Invalid QR code"
// @Security BearerAuth
// @Router /student/checkins/qr [post]
func (h *StudentHandler) CheckInWithQR(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req QRCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	result, err := h.studentService.CheckInWithQR(c.Request.Context(), studentID, []byte(req.Payload))
	if err != nil {
		handleStudentError(c, "CheckInWithQR", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type NotificationsResponse struct {
	Notifications domain.Notifications `json:"notifications"`
	Unread        int                  `json:"unread"`
}

// GetNotifications godoc
// @Summary Inbox derived from payments and progress
// @Tags Student
// @Produce json
// @Success 200 {object} NotificationsResponse
// @Security BearerAuth
// @Router /student/notifications [get]
func (h *StudentHandler) GetNotifications(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	inbox, err := h.studentService.Notifications(c.Request.Context(), studentID)
	if err != nil {
		handleStudentError(c, "Notifications", err)
		return
	}
	c.JSON(http.StatusOK, NotificationsResponse{Notifications: inbox, Unread: inbox.UnreadCount()})
}

// MarkNotificationRead godoc
// @Summary Mark one notification as read (not persisted)
// @Tags Student
// @Produce json
// @Param notificationId path string true "Notification ID"
// @Success 200 {object} NotificationsResponse
// @Failure 404 {object} gin.H "Notification not found"
// @Security BearerAuth
// @Router /student/notifications/{notificationId}/read [post]
func (h *StudentHandler) MarkNotificationRead(c *gin.Context) {
	h.changeInbox(c, "MarkNotificationRead", func(ctx context.Context, studentID string) (domain.Notifications, error) {
		return h.studentService.MarkNotificationRead(ctx, studentID, c.Param("notificationId"))
	})
}

// MarkAllNotificationsRead godoc
// @Summary Mark the whole inbox as read (not persisted)
// @Tags Student
// @Produce json
// @Success 200 {object} NotificationsResponse
// @Security BearerAuth
// @Router /student/notifications/read-all [post]
func (h *StudentHandler) MarkAllNotificationsRead(c *gin.Context) {
	h.changeInbox(c, "MarkAllNotificationsRead", h.studentService.MarkAllNotificationsRead)
}

// DeleteNotification godoc
// @Summary Remove a notification from the inbox (not persisted)
// @Tags Student
// @Produce json
// @Param notificationId path string true "Notification ID"
// @Success 200 {object} NotificationsResponse
// @Failure 404 {object} gin.H "Notification not found"
// @Security BearerAuth
// @Router /student/notifications/{notificationId} [delete]
func (h *StudentHandler) DeleteNotification(c *gin.Context) {
	h.changeInbox(c, "DeleteNotification", func(ctx context.Context, studentID string) (domain.Notifications, error) {
		return h.studentService.DeleteNotification(ctx, studentID, c.Param("notificationId"))
	})
}

func (h *StudentHandler) changeInbox(c *gin.Context, op string, change func(context.Context, string) (domain.Notifications, error)) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	inbox, err := change(c.Request.Context(), studentID)
	if err != nil {
		handleStudentError(c, op, err)
		return
	}
	c.JSON(http.StatusOK, NotificationsResponse{Notifications: inbox, Unread: inbox.UnreadCount()})
}

// GetEvents godoc
// @Summary Tournaments, seminars, exams and special sessions
// @Tags Student
// @Produce json
// @Param filter query string false "all, upcoming or registered"
// @Success 200 {object} service.StudentEvents
// @Failure 400 {object} gin.H "Unknown filter"
// @Security BearerAuth
// @Router /student/events [get]
func (h *StudentHandler) GetEvents(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	filter := analytics.EventFilter(c.DefaultQuery("filter", string(analytics.EventsAll)))
	events, err := h.studentService.Events(c.Request.Context(), studentID, filter)
	if err != nil {
		handleStudentError(c, "Events", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// RegisterForEvent godoc
// @Summary Sign up for an event (not persisted)
// @Tags Student
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 201 {object} analytics.EventView
// @Failure 404 {object} gin.H "Event not found"
// @Failure 409 {object} gin.H "Event full, closed, or already registered"
// @Security BearerAuth
// @Router /student/events/{eventId}/registration [post]
func (h *StudentHandler) RegisterForEvent(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	view, err := h.studentService.RegisterForEvent(c.Request.Context(), studentID, c.Param("eventId"))
	if err != nil {
		handleStudentError(c, "RegisterForEvent", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// CancelEventRegistration godoc
// @Summary Withdraw from an event (not persisted)
// @Tags Student
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} analytics.EventView
// @Failure 404 {object} gin.H "Event not found"
// @Failure 409 {object} gin.H "Not registered or event closed"
// @Security BearerAuth
// @Router /student/events/{eventId}/registration [delete]
func (h *StudentHandler) CancelEventRegistration(c *gin.Context) {
	studentID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	view, err := h.studentService.CancelEventRegistration(c.Request.Context(), studentID, c.Param("eventId"))
	if err != nil {
		handleStudentError(c, "CancelEventRegistration", err)
		return
	}
	c.JSON(http.StatusOK, view)
}
