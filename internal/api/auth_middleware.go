package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
)

// setSessionCookie sets the session cookie with appropriate flags for dev/prod.
func (s *Sessions) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(constants.CookieSessionName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
}

func (s *Sessions) clearSessionCookie(c *gin.Context) {
	c.SetCookie(constants.CookieSessionName, "", -1, "/", "", s.secure, true)
}

// AuthRequired validates the session cookie and injects identity into context.
func (s *Sessions) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.CookieSessionName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		userID, name, err := s.parseAndValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrInvalidSession})
			return
		}
		c.Set(constants.ContextUserID, userID)
		c.Set(constants.ContextUsername, name)
		c.Next()
	}
}

// currentUserID returns the id set by AuthRequired.
func currentUserID(c *gin.Context) uint {
	v, _ := c.Get(constants.ContextUserID)
	id, _ := v.(uint)
	return id
}
