package waitlist

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

type JoinRequest struct {
	ClientID int `json:"client_id" binding:"required"`
}

// Join godoc
// @Summary      Join a session's waitlist
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int          true  "Session ID"
// @Param        request    body      JoinRequest  true  "Client"
// @Success      201        {object}  Entry
// @Failure      400        {object}  gin.H
// @Router       /sessions/{sessionID}/waitlist [post]
func (h *Handler) Join(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	entry, err := h.service.Join(c.Request.Context(), sessionID, req.ClientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Cancel godoc
// @Summary      Cancel a waitlist entry
// @Tags         waitlist
// @Produce      json
// @Param        entryID  path      int  true  "Entry ID"
// @Success      200      {object}  Entry
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /waitlist/{entryID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	entryID, err := strconv.Atoi(c.Param("entryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	entry, err := h.service.Cancel(c.Request.Context(), entryID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Promote godoc
// @Summary      Promote the next waitlist entry
// @Tags         waitlist
// @Produce      json
// @Param        entryID  path      int  true  "Entry ID"
// @Success      200      {object}  Entry
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /waitlist/{entryID}/promote [post]
func (h *Handler) Promote(c *gin.Context) {
	entryID, err := strconv.Atoi(c.Param("entryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	entry, err := h.service.Promote(c.Request.Context(), entryID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}
