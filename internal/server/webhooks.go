package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
)

// HandleGatewayWebhook processes the gateway's asynchronous payment
// callback. The HMAC is computed over the exact bytes on the wire, so
// the body is read raw before anything parses it.
func (s *Server) HandleGatewayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, bookingdomain.ErrInvalidRequest)
		return
	}
	signature := c.GetHeader("X-Razorpay-Signature")

	result, err := s.bookingSvc.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
