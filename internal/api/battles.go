package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
	"github.com/lyfstyl-ux/fightcaster/internal/notify"
)

type createBattleRequest struct {
	Player1ID    uint `json:"player1Id" binding:"required"`
	Player2ID    uint `json:"player2Id" binding:"required"`
	Character1ID uint `json:"character1Id" binding:"required"`
	Character2ID uint `json:"character2Id" binding:"required"`
}

// CreateBattle starts a battle directly. The session user must be player one.
func (h *GameHandler) CreateBattle(c *gin.Context) {
	var req createBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.Player1ID != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotParticipant})
		return
	}
	view, err := h.battles.Start(c.Request.Context(), req.Player1ID, req.Player2ID, req.Character1ID, req.Character2ID)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedCreateBattle)
		return
	}
	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID: view.Battle.ID,
		constants.LogFieldUserID:   req.Player1ID,
	})
	c.JSON(http.StatusCreated, view)
}

// GetBattle returns a battle with its live state.
func (h *GameHandler) GetBattle(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	view, err := h.battles.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchBattle)
		return
	}
	c.JSON(http.StatusOK, view)
}

// BattleUpdates serves the newest snapshot for polling clients.
func (h *GameHandler) BattleUpdates(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	u, err := h.hub.Latest(id)
	if err != nil {
		writeHubError(c, err)
		return
	}
	c.Header(constants.CacheControlHeader, constants.CacheControlNoCache)
	c.JSON(http.StatusOK, u)
}

// BattleSocket streams snapshots over a websocket until the client leaves.
func (h *GameHandler) BattleSocket(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	err := h.hub.ServeWS(c.Writer, c.Request, id)
	switch {
	case err == nil:
	case errors.Is(err, notify.ErrUpgrade):
		logging.Warn("websocket upgrade failed", logging.Fields{
			constants.LogFieldBattleID: id,
			"error":                    err.Error(),
		})
	default:
		writeHubError(c, err)
	}
}

func writeHubError(c *gin.Context, err error) {
	if errors.Is(err, notify.ErrUnknownBattle) {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	logging.Error("load battle snapshot", err, nil)
	c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
}

// BattleResult reports rewards and stats of a finished battle to one of
// its players.
func (h *GameHandler) BattleResult(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidBattleID)
	if !ok {
		return
	}
	res, err := h.battles.Result(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchResult)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res})
}

// RecentBattles lists the session user's latest battles.
func (h *GameHandler) RecentBattles(c *gin.Context) {
	list, err := h.battles.Recent(c.Request.Context(), currentUserID(c), recentBattlesLimit)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchBattles)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": list})
}
