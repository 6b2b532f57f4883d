package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
)

// ListCharacters returns the full catalog with moves.
func (h *GameHandler) ListCharacters(c *gin.Context) {
	chars, err := h.repo.ListCharacters()
	if err != nil {
		logging.Error("list characters", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCharacters})
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

// GetCharacter returns one catalog entry with its moves.
func (h *GameHandler) GetCharacter(c *gin.Context) {
	id, ok := parseID(c, "id", constants.ErrInvalidCharacterID)
	if !ok {
		return
	}
	ch, err := h.repo.GetCharacter(id)
	if err != nil {
		logging.Error("get character", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCharacters})
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		return
	}
	if len(ch.Moves) == 0 {
		moves, err := h.repo.GetMovesByCharacterID(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCharacters})
			return
		}
		ch.Moves = moves
	}
	c.JSON(http.StatusOK, gin.H{"character": ch})
}
