package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"route-recon/internal/logger"
)

// HeaderRequestID carries the request identifier in both directions
const HeaderRequestID = "X-Request-ID"

// requestID reuses the caller's request id or assigns a fresh UUID
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s %d %s request_id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.GetString("request_id"))
	}
}
