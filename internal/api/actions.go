package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/game"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
)

// SubmitAction resolves the session user's move for the current turn.
func (h *GameHandler) SubmitAction(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	var action game.BattleAction
	if err := c.ShouldBindJSON(&action); err != nil || action.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	userID := currentUserID(c)
	state, err := h.battles.ResolveAction(c.Request.Context(), id, userID, action)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedResolveAction)
		return
	}
	if state.Status == game.BattleCompleted {
		logging.Info("battle finished", logging.Fields{
			constants.LogFieldBattleID: id,
			constants.LogFieldUserID:   userID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"battleState": state})
}
