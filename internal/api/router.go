package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentiment-api/internal/sentiment"
)

// NewRouter builds the gin engine with the sentiment routes mounted.
func NewRouter(capability sentiment.Capability) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	handler := NewSentimentHandler(capability)

	group := router.Group("/sentiment")
	{
		group.POST("/analyze", handler.AnalyzeSentiment)
		group.GET("/health", handler.CheckHealth)
	}

	return router
}

// RequestLogger logs each request through the slog default so API traffic
// shows up alongside the rest of the service logs.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		slog.Info("[API] Request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}
