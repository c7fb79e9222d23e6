package api

import (
	"net/http"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	studentService service.StudentService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	studentHandler := NewStudentHandler(studentService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/profile", authHandler.UpdateProfile)

		// --- Trainer Routes ---
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.GET("/dashboard", trainerHandler.GetDashboard)
			trainerGroup.GET("/students", trainerHandler.GetStudents)
			trainerGroup.GET("/students/:studentId", trainerHandler.GetStudentDetail)
			trainerGroup.POST("/students/:studentId/checkins", trainerHandler.RecordCheckIn)
			trainerGroup.GET("/financial", trainerHandler.GetFinancial)
			trainerGroup.GET("/leaderboard", trainerHandler.GetLeaderboard)
			trainerGroup.GET("/attendance", trainerHandler.GetAttendance)
		}

		// --- Student Routes ---
		studentGroup := protected.Group("/student")
		studentGroup.Use(RoleMiddleware(domain.RoleStudent))
		{
			studentGroup.GET("/home", studentHandler.GetHome)
			studentGroup.GET("/progress", studentHandler.GetProgress)
			studentGroup.GET("/payments", studentHandler.GetPayments)
			studentGroup.POST("/payments/:paymentId/pay", studentHandler.PayPayment)
			studentGroup.POST("/checkins/qr", studentHandler.CheckInWithQR)
			studentGroup.GET("/notifications", studentHandler.GetNotifications)
			studentGroup.POST("/notifications/read-all", studentHandler.MarkAllNotificationsRead)
			studentGroup.POST("/notifications/:notificationId/read", studentHandler.MarkNotificationRead)
			studentGroup.DELETE("/notifications/:notificationId", studentHandler.DeleteNotification)
			studentGroup.GET("/events", studentHandler.GetEvents)
			studentGroup.POST("/events/:eventId/registration", studentHandler.RegisterForEvent)
			studentGroup.DELETE("/events/:eventId/registration", studentHandler.CancelEventRegistration)
		}
	}
}
