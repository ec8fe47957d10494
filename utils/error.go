package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.Int("status", status), zap.String("details", details))
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindConfiguration:
		return http.StatusInternalServerError
	case KindUpstream:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err to the client. Only validation and conflict errors carry
// their message; every other kind gets a generic text and the cause goes to the log.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := KindOf(err)
	status := StatusFor(kind)

	var appErr *AppError
	errors.As(err, &appErr)

	body := ErrorResponse{Error: publicMessage(kind)}
	switch kind {
	case KindValidation, KindConflict:
		if appErr != nil {
			body.Error = appErr.Message
		}
		logger.Info("request rejected", zap.Int("status", status), zap.Error(err))
	default:
		logger.Error("request failed", zap.Int("status", status), zap.String("kind", string(kind)), zap.Error(err))
	}
	c.JSON(status, body)
}

func publicMessage(kind ErrorKind) string {
	switch kind {
	case KindValidation:
		return "Invalid request"
	case KindConflict:
		return "Slot no longer available"
	case KindConfiguration:
		return "Service is not configured"
	case KindUpstream:
		return "Calendar service error"
	case KindUnavailable:
		return "Calendar service timed out"
	default:
		return "Internal Server Error"
	}
}
