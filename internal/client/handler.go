package client

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiobook/internal/api"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// GetSnapshot godoc
// @Summary      Denormalized client snapshot
// @Description  Client with memberships and plan purchases, ready to render.
// @Tags         clients
// @Produce      json
// @Param        clientID  path      int  true  "Client ID"
// @Success      200       {object}  Snapshot
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Router       /clients/{clientID}/snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	clientID, err := strconv.Atoi(c.Param("clientID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID"})
		return
	}

	snapshot, err := h.repo.GetSnapshot(c.Request.Context(), clientID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
