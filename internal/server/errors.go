package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware turns errors recorded on the context into a
// JSON error response after the handler chain runs.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, bookingdomain.ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{Type: "invalid_request", Message: "invalid request"}
	case errors.Is(err, bookingdomain.ErrInvalidState):
		return http.StatusBadRequest, errorPayload{Type: "invalid_state", Message: "operation not allowed for current booking status"}
	case errors.Is(err, bookingdomain.ErrSignatureInvalid):
		return http.StatusBadRequest, errorPayload{Type: "signature_invalid", Message: "signature verification failed"}
	case errors.Is(err, bookingdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: "booking not found"}
	case errors.Is(err, bookingdomain.ErrGatewayUnavailable):
		return http.StatusInternalServerError, errorPayload{Type: "gateway_unavailable", Message: "payment gateway unavailable"}
	case errors.Is(err, bookingdomain.ErrStoreUnavailable):
		return http.StatusInternalServerError, errorPayload{Type: "store_unavailable", Message: "persistence failure"}
	case errors.Is(err, bookingdomain.ErrNotConfigured):
		return http.StatusInternalServerError, errorPayload{Type: "not_configured", Message: "server configuration incomplete"}
	default:
		return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
	}
}
