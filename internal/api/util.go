package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
	"github.com/lyfstyl-ux/fightcaster/internal/service"
)

// parseID reads a positive numeric path parameter. On failure it writes a
// 400 with msg and returns false.
func parseID(c *gin.Context, name, msg string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: msg})
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps service errors onto status codes. Anything the
// service did not classify is logged and reported as fallback.
func writeServiceError(c *gin.Context, err error, fallback string) {
	var nf *service.NotFoundError
	var fb *service.ForbiddenError
	var inv *service.InvalidStateError
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: notFoundMessage(nf.Resource)})
	case errors.As(err, &fb):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: forbiddenMessage(fb.Reason)})
	case errors.As(err, &inv):
		body := gin.H{constants.JSONKeyError: inv.Reason}
		if inv.Err != nil {
			body[constants.JSONKeyDetails] = inv.Err.Error()
		}
		c.JSON(http.StatusConflict, body)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.AbortWithStatus(http.StatusRequestTimeout)
	default:
		logging.Error(fallback, err, logging.Fields{
			constants.LogFieldPath:      c.FullPath(),
			constants.LogFieldRequestID: c.GetString(constants.ContextReqID),
		})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: fallback})
	}
}

func notFoundMessage(resource string) string {
	switch resource {
	case "battle", "battle state":
		return constants.ErrBattleNotFound
	case "challenge":
		return constants.ErrChallengeNotFound
	case "character":
		return constants.ErrCharacterNotFound
	case "user":
		return constants.ErrUserNotFound
	}
	return resource + " not found"
}

func forbiddenMessage(reason string) string {
	switch reason {
	case service.ReasonNotYourTurn:
		return constants.ErrNotYourTurn
	case service.ReasonNotParticipant:
		return constants.ErrNotParticipant
	}
	return reason
}
