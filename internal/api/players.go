package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
)

// SearchUsers finds opponents by username, fid or verified name.
func (h *GameHandler) SearchUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("query"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrQueryRequired})
		return
	}
	users, err := h.users.Search(c.Request.Context(), q, currentUserID(c))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchUsers)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *GameHandler) Leaderboard(c *gin.Context) {
	users, err := h.users.Leaderboard(c.Request.Context(), leaderboardLimit)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchUsers)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": users})
}

// RecentPlayers lists people the session user fought lately.
func (h *GameHandler) RecentPlayers(c *gin.Context) {
	users, err := h.users.RecentOpponents(c.Request.Context(), currentUserID(c), recentPlayersLimit)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchUsers)
		return
	}
	c.JSON(http.StatusOK, gin.H{"players": users})
}
