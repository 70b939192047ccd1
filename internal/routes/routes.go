package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sehat-sathi-server/internal/handlers"
	"sehat-sathi-server/internal/middleware"
	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/session"
)

// Handlers bundles the HTTP handlers served by the API.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Consultations *handlers.ConsultationHandler
	Prescriptions *handlers.PrescriptionHandler
	HealthRecords *handlers.HealthRecordHandler
	Pharmacies    *handlers.PharmacyHandler
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, h Handlers, sessions *session.Manager, gatherer prometheus.Gatherer) {
	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", h.Auth.Signup)
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.POST("/refresh", h.Auth.RefreshToken)
		}
		public.GET("/location/options", h.Pharmacies.GetLocationOptions)
		public.POST("/location/errors", h.Pharmacies.ExplainLocationError)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(sessions))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", h.Auth.Logout)
			authRoutesPrivate.GET("/profile", h.Auth.GetProfile)
			authRoutesPrivate.PUT("/profile", h.Auth.UpdateProfile)
		}

		consultationRoutes := private.Group("/consultations")
		{
			consultationRoutes.POST("", h.Consultations.BookConsultation)
			consultationRoutes.GET("", h.Consultations.GetConsultations)
			consultationRoutes.DELETE("", h.Consultations.ClearConsultations)
			consultationRoutes.GET("/availability", h.Consultations.GetAvailability)
			consultationRoutes.GET("/history", h.Consultations.GetHistory)
			consultationRoutes.GET("/:id", h.Consultations.GetConsultationByID)
			consultationRoutes.PATCH("/:id/status", h.Consultations.UpdateConsultationStatus)
		}

		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.GET("", h.Prescriptions.GetPrescriptions)
			// Only doctors write prescriptions
			prescriptionRoutes.POST("", middleware.RoleAuthMiddleware(models.UserDoctor), h.Prescriptions.IssuePrescription)
			prescriptionRoutes.GET("/:id", h.Prescriptions.GetPrescriptionByID)
			prescriptionRoutes.GET("/:id/download", h.Prescriptions.DownloadPrescription)
		}

		recordRoutes := private.Group("/health-records")
		{
			recordRoutes.GET("", h.HealthRecords.GetCategories)
			recordRoutes.GET("/records/:id", h.HealthRecords.GetRecord)
			recordRoutes.POST("/categories/:category", h.HealthRecords.UploadRecords)
			recordRoutes.DELETE("/categories/:category/:id", h.HealthRecords.DeleteRecord)
		}

		pharmacyRoutes := private.Group("/pharmacies")
		{
			pharmacyRoutes.GET("", h.Pharmacies.GetNearby)
			pharmacyRoutes.GET("/search", h.Pharmacies.Search)
		}
	}

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
