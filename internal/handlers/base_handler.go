package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/services"
	"github.com/winmanuel/eduhub/internal/validator"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// BaseHandler carries the logger shared by all handlers.
type BaseHandler struct {
	logger zerolog.Logger
}

func NewBaseHandler(logger zerolog.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// requestLogger returns the handler logger tagged with the request id.
func (h *BaseHandler) requestLogger(c *gin.Context) *zerolog.Logger {
	l := h.logger.With().Str("request_id", c.GetString(requestIDKey)).Logger()
	return &l
}

// LogRequest logs msg with alternating key/value pairs.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, keyvals ...string) {
	event := h.requestLogger(c).Debug().Str("method", c.Request.Method).Str("path", c.FullPath())
	for i := 0; i+1 < len(keyvals); i += 2 {
		event = event.Str(keyvals[i], keyvals[i+1])
	}
	event.Msg(msg)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string) {
	h.requestLogger(c).Error().Err(err).Str("path", c.FullPath()).Msg(msg)
}

// handleServiceError maps service errors to status codes. Unknown errors
// are logged and reported as 500 without details.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Validation failed", Details: verrs})
	case errors.Is(err, services.ErrBadRequest), errors.Is(err, services.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Bad request", Details: err.Error()})
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrEnrollmentNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Resource not found", Details: err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "Resource already exists", Details: err.Error()})
	case errors.Is(err, services.ErrNotAStudent), errors.Is(err, services.ErrNotAnInstructor):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: "Invalid role", Details: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		h.LogError(c, err, "Request timed out")
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Message: "Request timed out"})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

// parseLimit reads the limit query parameter, falling back to the default
// for missing or invalid values and capping at maxLimit.
func parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
