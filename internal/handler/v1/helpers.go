package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/colposcopia/colpo-api/internal/domain/appointment"
	"github.com/colposcopia/colpo-api/internal/domain/exam"
	"github.com/colposcopia/colpo-api/internal/domain/patient"
	"github.com/colposcopia/colpo-api/internal/service"
	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	var examErr *exam.ValidationError
	if errors.As(err, &examErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: examErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, exam.ErrExamNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrInvalidSex),
		errors.Is(err, patient.ErrInvalidBirthDate),
		errors.Is(err, patient.ErrNameRequired),
		errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, appointment.ErrDateTimeRequired),
		errors.Is(err, exam.ErrSlotOutOfRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a positive integer"})
		return 0, false
	}
	return uint(id), true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// actor resolves who performed the request for audit trails. Anonymous when
// the auth middleware is disabled.
func actor(c *gin.Context) string {
	if v, ok := c.Get("user_email"); ok {
		if email, ok := v.(string); ok && email != "" {
			return email
		}
	}
	return "anonymous"
}
