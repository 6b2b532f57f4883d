package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lyfstyl-ux/fightcaster/internal/constants"
	"github.com/lyfstyl-ux/fightcaster/internal/logging"
)

// RequestLogger tags every request with an id and logs one line when it
// completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(constants.HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(constants.ContextReqID, reqID)
		c.Header(constants.HeaderRequestID, reqID)

		start := time.Now()
		c.Next()

		fields := logging.Fields{
			constants.LogFieldRequestID: reqID,
			constants.LogFieldMethod:    c.Request.Method,
			constants.LogFieldPath:      c.Request.URL.Path,
			constants.LogFieldStatus:    c.Writer.Status(),
			constants.LogFieldLatencyMS: time.Since(start).Milliseconds(),
		}
		if id, ok := c.Get(constants.ContextUserID); ok {
			fields[constants.LogFieldUserID] = id
		}
		if c.Writer.Status() >= 500 {
			logging.Warn("request failed", fields)
			return
		}
		logging.Info("request", fields)
	}
}
