package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiobook/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Description  Frees the seat and renumbers the session's waitlist.
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      400        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := h.service.CancelBooking(c.Request.Context(), bookingID, "staff")
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListClientBookings godoc
// @Summary      List a client's bookings
// @Tags         bookings
// @Produce      json
// @Param        clientID  path      int  true  "Client ID"
// @Success      200       {array}   BookingWithDetails
// @Failure      400       {object}  gin.H
// @Router       /clients/{clientID}/bookings [get]
func (h *Handler) ListClientBookings(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("clientID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	bookings, err := h.service.ListClientBookings(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListSessionBookings godoc
// @Summary      List a session's bookings
// @Tags         bookings
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {array}   BookingWithDetails
// @Failure      400        {object}  gin.H
// @Router       /sessions/{sessionID}/bookings [get]
func (h *Handler) ListSessionBookings(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	bookings, err := h.service.ListSessionBookings(c.Request.Context(), sessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListBookingEvents godoc
// @Summary      List the audit events of a booking
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {array}   Event
// @Failure      400        {object}  gin.H
// @Router       /bookings/{bookingID}/events [get]
func (h *Handler) ListBookingEvents(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	events, err := h.service.ListBookingEvents(c.Request.Context(), bookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
