package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/services"
)

const (
	searchModeTitle = "title"
	searchModeText  = "text"
)

type CourseHandler struct {
	BaseHandler
	courses services.CourseService
	users   services.UserService
}

func NewCourseHandler(courses services.CourseService, users services.UserService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		courses:     courses,
		users:       users,
	}
}

// ===== COURSE ENDPOINTS =====

// SearchCourses searches courses by title substring or full text
// @Summary Search courses
// @Tags courses
// @Produce json
// @Param q query string true "Search query"
// @Param mode query string false "title (default) or text"
// @Param limit query int false "Maximum results for text mode (default: 20, max: 100)"
// @Success 200 {array} models.Course
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /courses/search [get]
func (h *CourseHandler) SearchCourses(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Search query parameter 'q' is required",
		})
		return
	}

	mode := c.DefaultQuery("mode", searchModeTitle)
	h.LogRequest(c, "Searching courses", "query", query, "mode", mode)

	var (
		courses []*models.Course
		err     error
	)
	switch mode {
	case searchModeTitle:
		courses, err = h.courses.SearchByTitle(c.Request.Context(), query)
	case searchModeText:
		courses, err = h.courses.FullTextSearch(c.Request.Context(), query, parseLimit(c))
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid mode parameter",
			Details: "Mode must be 'title' or 'text'",
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse returns a course together with its instructor
// @Summary Get course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID := c.Param("courseId")
	h.LogRequest(c, "Getting course", "course_id", courseID)

	course, err := h.courses.GetCourseWithInstructor(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourseStudents returns the students enrolled in a course
// @Summary List students in course
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {array} models.User
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{courseId}/students [get]
func (h *CourseHandler) ListCourseStudents(c *gin.Context) {
	courseID := c.Param("courseId")
	h.LogRequest(c, "Listing course students", "course_id", courseID)

	users, err := h.users.ListStudentsInCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}
