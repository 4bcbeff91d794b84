package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spacesedan/sentiment-api/internal/models"
	"github.com/spacesedan/sentiment-api/internal/sentiment"
)

type SentimentHandler struct {
	capability sentiment.Capability
}

func NewSentimentHandler(capability sentiment.Capability) *SentimentHandler {
	return &SentimentHandler{capability: capability}
}

// AnalyzeSentiment handles POST /sentiment/analyze
//
// Responses:
//
//	201: {"sentiment": number} with sentiment in [-1, 1]
//	400: {"message": "Text cannot be empty"} for empty/whitespace-only text
//	500: {"message": "failed to analyze sentiment"} when the analyzer fails
func (h *SentimentHandler) AnalyzeSentiment(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "invalid request body"})
		return
	}

	// Validation runs before the analyzer gets involved
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, models.APIError{Message: "Text cannot be empty"})
		return
	}

	result, err := h.capability.AnalyzeSentiment(c.Request.Context(), req.Text)
	if err != nil {
		slog.Error("[SentimentHandler] Analysis failed",
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, models.APIError{Message: "failed to analyze sentiment"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CheckHealth handles GET /sentiment/health
//
// Responses:
//
//	200: {"status": string, "timestamp": string, "service": string}
func (h *SentimentHandler) CheckHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.capability.CheckHealth(c.Request.Context()))
}
