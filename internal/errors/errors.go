package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotPermitted = "NOT_PERMITTED"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorTemplate is the HTML template used for error pages.
const ErrorTemplate = "error.html"

// NotPermittedBody is the plain-text body sent when a worker may not change a task.
const NotPermittedBody = "Unauthorized"

// APIError represents a standardized error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// WantsJSON reports whether the client prefers JSON over HTML.
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// RespondWithError sends an error page, or the APIError as JSON when the
// client asks for it, and aborts the chain.
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(statusCode, err)
		return
	}
	c.HTML(statusCode, ErrorTemplate, gin.H{
		"status": statusCode,
		"error":  err,
	})
	c.Abort()
}

// Helper functions for common error responses

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotPermitted sends 405 with a plain-text "Unauthorized" body. Task
// mutations answer this way when the ownership check fails.
func NotPermitted(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, NotPermittedBody)
	c.Abort()
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, message string) {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	RespondWithError(c, http.StatusServiceUnavailable, NewAPIError(ErrCodeServiceUnavailable, message))
}
