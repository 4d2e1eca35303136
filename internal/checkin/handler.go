package checkin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"studiobook/internal/api"
	"studiobook/internal/booking"
	"studiobook/internal/client"
	"studiobook/internal/qrtoken"
	"studiobook/internal/session"
)

type Handler struct {
	tokens     qrtoken.Service
	attendance *booking.AttendanceService
	bookings   booking.Service
	sessions   session.Repository
	clients    client.Repository
}

func NewHandler(
	tokens qrtoken.Service,
	attendance *booking.AttendanceService,
	bookings booking.Service,
	sessions session.Repository,
	clients client.Repository,
) *Handler {
	return &Handler{
		tokens:     tokens,
		attendance: attendance,
		bookings:   bookings,
		sessions:   sessions,
		clients:    clients,
	}
}

type CheckinRequest struct {
	Token     string `json:"token"`
	BookingID int    `json:"booking_id"`
	Present   *bool  `json:"present"`
}

type CheckinResponse struct {
	Booking *booking.Booking `json:"booking"`
	Session *session.Session `json:"session"`
	Client  *client.Client   `json:"client"`
	Changed bool             `json:"changed"`
	Message string           `json:"message"`
}

// Checkin godoc
// @Summary      Check a client in or out
// @Description  Accepts either a scanned QR token or a booking id with an explicit present flag.
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        request  body      CheckinRequest  true  "Token or booking id"
// @Success      200      {object}  CheckinResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      410      {object}  gin.H
// @Router       /checkin [post]
func (h *Handler) Checkin(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var (
		bookingID int
		present   bool
		source    string
	)

	switch {
	case req.Token != "":
		token, err := h.tokens.Resolve(c.Request.Context(), req.Token)
		if err != nil {
			api.RespondError(c, err)
			return
		}
		bookingID = token.BookingID
		present = true
		source = "qr-scan"
	case req.BookingID != 0:
		if req.Present == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "present flag is required for manual check-in"})
			return
		}
		bookingID = req.BookingID
		present = *req.Present
		source = "manual"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "token or booking_id is required"})
		return
	}

	result, err := h.attendance.SetPresence(c.Request.Context(), bookingID, present, source, source)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	sess, err := h.sessions.GetByID(c.Request.Context(), result.Booking.SessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	cl, err := h.clients.GetByID(c.Request.Context(), result.Booking.ClientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CheckinResponse{
		Booking: result.Booking,
		Session: sess,
		Client:  cl,
		Changed: result.Changed,
		Message: checkinMessage(result, present),
	})
}

func checkinMessage(result *booking.ToggleResult, present bool) string {
	switch {
	case present && result.Changed:
		return "Checked in. Enjoy your class!"
	case present && !result.Changed:
		return "Already checked in."
	case !present && result.Changed:
		return "Check-in reverted."
	default:
		return "Not checked in."
	}
}

type InstructorCheckinRequest struct {
	Token      string `json:"token" binding:"required"`
	ConsumedBy string `json:"consumed_by"`
}

type InstructorCheckinResponse struct {
	InstructorID int              `json:"instructor_id"`
	Session      *session.Session `json:"session"`
	CheckedInAt  *time.Time       `json:"checked_in_at"`
}

// InstructorCheckin godoc
// @Summary      Consume an instructor check-in token
// @Description  Single-use: a second scan of the same token returns 409.
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        request  body      InstructorCheckinRequest  true  "Scanned token"
// @Success      200      {object}  InstructorCheckinResponse
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      410      {object}  gin.H
// @Router       /checkin/instructor [post]
func (h *Handler) InstructorCheckin(c *gin.Context) {
	var req InstructorCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	consumedBy := req.ConsumedBy
	if consumedBy == "" {
		consumedBy = "scanner"
	}

	token, err := h.tokens.ConsumeInstructor(c.Request.Context(), req.Token, consumedBy)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	sess, err := h.sessions.GetByID(c.Request.Context(), token.SessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, InstructorCheckinResponse{
		InstructorID: token.InstructorID,
		Session:      sess,
		CheckedInAt:  token.ConsumedAt,
	})
}

type IssueInstructorTokenRequest struct {
	InstructorID int `json:"instructor_id" binding:"required"`
	SessionID    int `json:"session_id" binding:"required"`
}

// IssueInstructorToken godoc
// @Summary      Issue a short-lived instructor token
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Param        request  body      IssueInstructorTokenRequest  true  "Instructor and session"
// @Success      201      {object}  qrtoken.InstructorToken
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /checkin/instructor-tokens [post]
func (h *Handler) IssueInstructorToken(c *gin.Context) {
	var req IssueInstructorTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, err := h.tokens.IssueInstructorToken(c.Request.Context(), req.InstructorID, req.SessionID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, token)
}

// TokenImage godoc
// @Summary      Render a token as a QR PNG
// @Tags         checkin
// @Produce      image/png
// @Param        code  path  string  true  "Token code"
// @Success      200   {string}  binary
// @Failure      500   {object}  gin.H
// @Router       /qr/{code} [get]
func (h *Handler) TokenImage(c *gin.Context) {
	code := c.Param("code")

	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
