package v1

import (
	"net/http"

	"github.com/colposcopia/colpo-api/internal/config"
	"github.com/colposcopia/colpo-api/pkg/auth"
	"github.com/colposcopia/colpo-api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Collector   *metrics.Collector
	JWTManager  *auth.JWTManager
	Auth        *AuthHandler
	Patient     *PatientHandler
	Exam        *ExamHandler
	Appointment *AppointmentHandler
	Upload      *UploadHandler
}

// NewRouter wires the full HTTP surface. Reads and writes share one
// authenticated group; /health and /metrics stay open for probes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(deps.Logger))
	r.Use(Metrics(deps.Collector))
	r.Use(CORS(deps.Config.CORS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": deps.Config.App.Name,
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	if deps.Config.Upload.Backend == "local" {
		r.Static("/static", deps.Config.Upload.Dir)
	}

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", deps.Auth.Login)
		authGroup.POST("/refresh", deps.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(Authenticate(deps.Config.Auth, deps.JWTManager))
	{
		patients := protected.Group("/patients")
		{
			patients.GET("", deps.Patient.List)
			patients.POST("", deps.Patient.Create)
			patients.GET("/:id", deps.Patient.Get)
			patients.PUT("/:id", deps.Patient.Update)
			patients.DELETE("/:id", deps.Patient.Delete)

			patients.GET("/:id/exams", deps.Exam.ListByPatient)
			patients.GET("/:id/exams/template", deps.Exam.Template)
			patients.POST("/:id/exams", deps.Exam.Create)
		}

		exams := protected.Group("/exams")
		{
			exams.GET("/:id", deps.Exam.Get)
			exams.GET("/:id/form", deps.Exam.GetForm)
			exams.PUT("/:id", deps.Exam.Update)
			exams.DELETE("/:id", deps.Exam.Delete)
			exams.GET("/:id/report", deps.Exam.Report)
		}

		appointments := protected.Group("/appointments")
		{
			appointments.GET("", deps.Appointment.Agenda)
			appointments.POST("", deps.Appointment.Create)
			appointments.GET("/:id", deps.Appointment.Get)
			appointments.PUT("/:id", deps.Appointment.Update)
			appointments.DELETE("/:id", deps.Appointment.Delete)
		}

		protected.POST("/upload", deps.Upload.Upload)
	}

	return r
}
