package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
)

func (s *Server) CreateBookingAndOrder(c *gin.Context) {
	var req bookingdomain.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bookingdomain.ErrInvalidRequest)
		return
	}

	resp, err := s.bookingSvc.CreateBookingAndOrder(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")

	if err := s.bookingSvc.CancelBooking(c.Request.Context(), bookingID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}
