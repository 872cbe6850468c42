package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
)

func (s *Server) CreateOrder(c *gin.Context) {
	var req bookingdomain.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bookingdomain.ErrInvalidRequest)
		return
	}

	resp, err := s.bookingSvc.CreateOrderForBooking(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) VerifyPayment(c *gin.Context) {
	var req bookingdomain.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bookingdomain.ErrInvalidRequest)
		return
	}

	resp, err := s.bookingSvc.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		// A signature mismatch is persisted as a FAILED booking; the
		// caller still gets the FAILED projection, just with a 400.
		if errors.Is(err, bookingdomain.ErrSignatureInvalid) {
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetPaymentStatus(c *gin.Context) {
	bookingID := strings.TrimSpace(c.Query("bookingId"))
	if bookingID == "" {
		AbortWithError(c, bookingdomain.ErrInvalidRequest)
		return
	}

	resp, err := s.bookingSvc.GetPaymentStatus(c.Request.Context(), bookingID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
