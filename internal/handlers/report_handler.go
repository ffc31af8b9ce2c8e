package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/services"
)

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== REPORT ENDPOINTS =====

// EnrollmentsPerCourse returns enrollment counts per course, highest first
// @Summary Enrollments per course
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum rows (default: 20, max: 100)"
// @Success 200 {array} repositories.CourseEnrollmentCount
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/enrollments-per-course [get]
func (h *ReportHandler) EnrollmentsPerCourse(c *gin.Context) {
	limit := parseLimit(c)
	h.LogRequest(c, "Getting enrollments per course", "limit", strconv.Itoa(limit))

	rows, err := h.service.EnrollmentsPerCourse(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// AverageGrades returns the mean graded score per student, highest first
// @Summary Average grade per student
// @Tags reports
// @Produce json
// @Param limit query int false "Maximum rows (default: 20, max: 100)"
// @Success 200 {array} repositories.StudentAverageGrade
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/average-grades [get]
func (h *ReportHandler) AverageGrades(c *gin.Context) {
	limit := parseLimit(c)
	h.LogRequest(c, "Getting average grades", "limit", strconv.Itoa(limit))

	rows, err := h.service.AverageGradePerStudent(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// RevenuePerInstructor returns enrollment revenue per instructor
// @Summary Revenue per instructor
// @Tags reports
// @Produce json
// @Success 200 {array} repositories.InstructorRevenue
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /reports/revenue-per-instructor [get]
func (h *ReportHandler) RevenuePerInstructor(c *gin.Context) {
	h.LogRequest(c, "Getting revenue per instructor")

	rows, err := h.service.RevenuePerInstructor(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}
