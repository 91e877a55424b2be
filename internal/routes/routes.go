package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/atempo-app/atempo-api/internal/audit"
	"github.com/atempo-app/atempo-api/internal/config"
	"github.com/atempo-app/atempo-api/internal/handlers"
	"github.com/atempo-app/atempo-api/internal/infra/codes"
	infraRepo "github.com/atempo-app/atempo-api/internal/infra/repository"
	"github.com/atempo-app/atempo-api/internal/mailer"
	"github.com/atempo-app/atempo-api/internal/middleware"
	ucAppointment "github.com/atempo-app/atempo-api/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	m *mailer.Mailer,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	codeStore := codes.NewStore(rdb)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — CITAS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	updateAppointmentUC := ucAppointment.NewUpdateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, m, codeStore)
	meHandler := handlers.NewMeHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		getAppointmentUC,
	)

	employeeHandler := handlers.NewEmployeeHandler(db, auditDispatcher)
	clientHandler := handlers.NewClientHandler(db, auditDispatcher)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH (con rate limit por IP)
		// ------------------------------
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute, "auth"))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/verify-email", authHandler.VerifyEmail)
			auth.POST("/resend-verification", authHandler.ResendVerification)
			auth.POST("/login", authHandler.Login)
			auth.POST("/2fa", authHandler.TwoFactor)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(db, cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me/two-factor", meHandler.UpdateTwoFactor)

			// ------------------------------
			// CITAS
			// ------------------------------
			secured.GET("/citas", appointmentHandler.List)
			secured.POST("/citas", appointmentHandler.Create)
			secured.GET("/citas/sugerencias", clientHandler.Suggestions)
			secured.GET("/citas/:id", appointmentHandler.Get)
			secured.PUT("/citas/:id", appointmentHandler.Update)
			secured.DELETE("/citas/:id", appointmentHandler.Delete)

			// ------------------------------
			// EMPLEADOS
			// ------------------------------
			secured.GET("/empleados", employeeHandler.List)
			secured.POST("/empleados", employeeHandler.Create)
			secured.PUT("/empleados/:id", employeeHandler.Update)
			secured.PUT("/empleados/:id/permisos", employeeHandler.UpdatePermissions)
			secured.DELETE("/empleados/:id", employeeHandler.Delete)

			// ------------------------------
			// CLIENTES FRECUENTES
			// ------------------------------
			secured.GET("/clientes-frecuentes", clientHandler.List)
			secured.POST("/clientes-frecuentes", clientHandler.Create)
			secured.GET("/clientes-frecuentes/:id", clientHandler.Get)
			secured.PUT("/clientes-frecuentes/:id", clientHandler.Update)
			secured.DELETE("/clientes-frecuentes/:id", clientHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
