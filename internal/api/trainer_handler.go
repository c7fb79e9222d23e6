package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"centralfight/gym-app/internal/analytics"
	"centralfight/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler serves the trainer dashboard, roster, finance and ranking screens.
type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// handleTrainerError maps service errors to HTTP responses.
func handleTrainerError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrTrainerNotFound), errors.Is(err, service.ErrStudentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStudentNotManaged):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		log.Printf("ERROR: %s failed: %v", op, err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// parseLimit reads the optional "limit" query parameter. Absent means all.
func parseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}
	return n, nil
}

// GetDashboard godoc
// @Summary Trainer dashboard overview
// @Tags Trainer
// @Produce json
// @Success 200 {object} service.TrainerDashboard
// @Failure 404 {object} gin.H "Trainer not found"
// @Security BearerAuth
// @Router /trainer/dashboard [get]
func (h *TrainerHandler) GetDashboard(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	dashboard, err := h.trainerService.Dashboard(c.Request.Context(), trainerID)
	if err != nil {
		handleTrainerError(c, "Dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetStudents godoc
// @Summary List the trainer's students
// @Tags Trainer
// @Produce json
// @Param search query string false "Name or email substring"
// @Param filter query string false "all, active or overdue"
// @Success 200 {array} domain.Student
// @Failure 400 {object} gin.H "Unknown filter"
// @Security BearerAuth
// @Router /trainer/students [get]
func (h *TrainerHandler) GetStudents(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	filter := analytics.StudentFilter(c.DefaultQuery("filter", string(analytics.FilterAll)))
	if !filter.Valid() {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown filter %q", filter))
		return
	}
	students, err := h.trainerService.Students(c.Request.Context(), trainerID, c.Query("search"), filter)
	if err != nil {
		handleTrainerError(c, "Students", err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudentDetail godoc
// @Summary Payments, recent check-ins and progress of one student
// @Tags Trainer
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} service.StudentDetail
// @Failure 403 {object} gin.H "Student not managed by this trainer"
// @Failure 404 {object} gin.H "Student not found"
// @Security BearerAuth
// @Router /trainer/students/{studentId} [get]
func (h *TrainerHandler) GetStudentDetail(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	detail, err := h.trainerService.StudentDetail(c.Request.Context(), trainerID, c.Param("studentId"))
	if err != nil {
		handleTrainerError(c, "StudentDetail", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// RecordCheckIn godoc
// @Summary Record a training check-in for a student
// @Tags Trainer
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 201 {object} domain.CheckIn
// @Failure 403 {object} gin.H "Student not managed by this trainer"
// @Security BearerAuth
// @Router /trainer/students/{studentId}/checkins [post]
func (h *TrainerHandler) RecordCheckIn(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	checkIn, err := h.trainerService.RecordCheckIn(c.Request.Context(), trainerID, c.Param("studentId"))
	if err != nil {
		handleTrainerError(c, "RecordCheckIn", err)
		return
	}
	c.JSON(http.StatusCreated, checkIn)
}

// GetFinancial godoc
// @Summary Revenue summary and payment list for the trainer's students
// @Tags Trainer
// @Produce json
// @Success 200 {object} service.FinancialReport
// @Security BearerAuth
// @Router /trainer/financial [get]
func (h *TrainerHandler) GetFinancial(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	report, err := h.trainerService.Financial(c.Request.Context(), trainerID)
	if err != nil {
		handleTrainerError(c, "Financial", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetLeaderboard godoc
// @Summary Students ranked by points
// @Tags Trainer
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {array} domain.Student
// @Security BearerAuth
// @Router /trainer/leaderboard [get]
func (h *TrainerHandler) GetLeaderboard(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	limit, err := parseLimit(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	board, err := h.trainerService.Leaderboard(c.Request.Context(), trainerID, limit)
	if err != nil {
		handleTrainerError(c, "Leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetAttendance godoc
// @Summary Students ranked by check-in count
// @Tags Trainer
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {array} analytics.AttendanceEntry
// @Security BearerAuth
// @Router /trainer/attendance [get]
func (h *TrainerHandler) GetAttendance(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	limit, err := parseLimit(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	ranking, err := h.trainerService.Attendance(c.Request.Context(), trainerID, limit)
	if err != nil {
		handleTrainerError(c, "Attendance", err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}
