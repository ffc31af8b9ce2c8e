package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/services"
)

type StudentHandler struct {
	BaseHandler
	service services.UserService
}

func NewStudentHandler(service services.UserService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== STUDENT ENDPOINTS =====

// ListActiveStudents returns every active student
// @Summary List active students
// @Tags students
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /students/active [get]
func (h *StudentHandler) ListActiveStudents(c *gin.Context) {
	h.LogRequest(c, "Listing active students")

	students, err := h.service.ListActiveStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}
