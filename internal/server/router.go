// Package server exposes the encoder over HTTP.
package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine.
func Router(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger()))
	r.POST("/blurhash", h.EncodeHandler)
	r.GET("/healthz", h.Health)
	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
