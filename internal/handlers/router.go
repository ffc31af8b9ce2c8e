package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/config"
	"github.com/winmanuel/eduhub/internal/services"
)

type HandlerManager struct {
	services       services.ServiceManager
	reportHandler  *ReportHandler
	courseHandler  *CourseHandler
	studentHandler *StudentHandler
	serviceName    string
}

func NewHandlerManager(serviceManager services.ServiceManager, serviceName string, logger zerolog.Logger) *HandlerManager {
	return &HandlerManager{
		services:       serviceManager,
		reportHandler:  NewReportHandler(serviceManager.Report(), logger),
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.User(), logger),
		studentHandler: NewStudentHandler(serviceManager.User(), logger),
		serviceName:    serviceName,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		reports := v1.Group("/reports")
		{
			reports.GET("/enrollments-per-course", hm.reportHandler.EnrollmentsPerCourse)
			reports.GET("/average-grades", hm.reportHandler.AverageGrades)
			reports.GET("/revenue-per-instructor", hm.reportHandler.RevenuePerInstructor)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("/search", hm.courseHandler.SearchCourses)
			courses.GET("/:courseId", hm.courseHandler.GetCourse)
			courses.GET("/:courseId/students", hm.courseHandler.ListCourseStudents)
		}

		students := v1.Group("/students")
		{
			students.GET("/active", hm.studentHandler.ListActiveStudents)
		}
	}

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	if err := hm.services.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": hm.serviceName,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   hm.serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NewRouter builds the engine with middleware and routes. Production
// configs switch gin to release mode.
func NewRouter(serviceManager services.ServiceManager, cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	SetupMiddleware(router, logger, cfg.Server.CORSAllowedOrigins)
	NewHandlerManager(serviceManager, cfg.Observability.ServiceName, logger).SetupRoutes(router)
	return router
}

// NewServer wraps handler in an http.Server configured from cfg.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}
