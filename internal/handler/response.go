package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates engine errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var structural *domain.StructuralError
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &structural):
		return http.StatusUnprocessableEntity, "STRUCTURAL_ERROR", structural.Error()
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", validation.Error()
	case errors.Is(err, domain.ErrInvalidGSTIN), errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "BAD_REQUEST", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
	}
}
