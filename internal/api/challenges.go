package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
)

type createChallengeRequest struct {
	ChallengedID uint `json:"challengedId" binding:"required"`
	CharacterID  uint `json:"characterId" binding:"required"`
}

type acceptChallengeRequest struct {
	CharacterID uint `json:"characterId"`
}

// CreateChallenge invites another user to a battle.
func (h *GameHandler) CreateChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch, err := h.challenges.Create(c.Request.Context(), currentUserID(c), req.ChallengedID, req.CharacterID)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedCreateChallenge)
		return
	}
	logging.Info("challenge created", logging.Fields{
		constants.LogFieldChallengeID: ch.ID,
		constants.LogFieldUserID:      ch.ChallengerID,
	})
	c.JSON(http.StatusCreated, gin.H{"challenge": ch})
}

// ListChallenges returns the open challenges addressed to the session user.
func (h *GameHandler) ListChallenges(c *gin.Context) {
	list, err := h.challenges.Pending(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedFetchChallenges)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenges": list})
}

// AcceptChallenge starts the battle with the accepter's character.
func (h *GameHandler) AcceptChallenge(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidChallengeID)
	if !ok {
		return
	}
	var req acceptChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CharacterID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidCharacterID})
		return
	}
	res, err := h.challenges.Accept(c.Request.Context(), id, currentUserID(c), req.CharacterID)
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedUpdateChallenge)
		return
	}
	logging.Info("challenge accepted", logging.Fields{
		constants.LogFieldChallengeID: id,
		constants.LogFieldBattleID:    res.Battle.ID,
	})
	c.JSON(http.StatusOK, res)
}

// RejectChallenge declines an open challenge.
func (h *GameHandler) RejectChallenge(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidChallengeID)
	if !ok {
		return
	}
	ch, err := h.challenges.Reject(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		writeServiceError(c, err, constants.ErrFailedUpdateChallenge)
		return
	}
	c.JSON(http.StatusOK, gin.H{"challenge": ch})
}
