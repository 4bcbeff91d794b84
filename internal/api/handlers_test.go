package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/sentiment-api/internal/models"
	"github.com/spacesedan/sentiment-api/internal/sentiment"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubCapability struct {
	analyzeFn func(ctx context.Context, text string) (models.SentimentResponse, error)
	healthFn  func(ctx context.Context) models.HealthResponse
}

func (s *stubCapability) AnalyzeSentiment(ctx context.Context, text string) (models.SentimentResponse, error) {
	return s.analyzeFn(ctx, text)
}

func (s *stubCapability) CheckHealth(ctx context.Context) models.HealthResponse {
	return s.healthFn(ctx)
}

func newStub() *stubCapability {
	return &stubCapability{
		analyzeFn: func(_ context.Context, _ string) (models.SentimentResponse, error) {
			return models.SentimentResponse{Sentiment: 0.42}, nil
		},
		healthFn: func(_ context.Context) models.HealthResponse {
			return models.HealthResponse{
				Status:    "healthy",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Service:   "sentiment-api",
			}
		},
	}
}

func postAnalyze(t *testing.T, router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/sentiment/analyze", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeSentiment_EmptyText(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "spaces only", text: "   "},
		{name: "tabs and newlines", text: "\t\n  \t"},
	}

	router := NewRouter(newStub())

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(models.AnalyzeRequest{Text: tc.text})
			require.NoError(t, err)

			w := postAnalyze(t, router, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var apiErr models.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			assert.Contains(t, apiErr.Message, "Text cannot be empty")
		})
	}
}

func TestAnalyzeSentiment_MalformedBody(t *testing.T) {
	router := NewRouter(newStub())

	w := postAnalyze(t, router, []byte("{not json"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeSentiment_ValidText(t *testing.T) {
	stub := newStub()
	var receivedText string
	stub.analyzeFn = func(_ context.Context, text string) (models.SentimentResponse, error) {
		receivedText = text
		return models.SentimentResponse{Sentiment: 0.85}, nil
	}
	router := NewRouter(stub)

	body, err := json.Marshal(models.AnalyzeRequest{Text: "This is amazing!"})
	require.NoError(t, err)

	w := postAnalyze(t, router, body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "This is amazing!", receivedText)

	var resp models.SentimentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.GreaterOrEqual(t, resp.Sentiment, -1.0)
	assert.LessOrEqual(t, resp.Sentiment, 1.0)
}

func TestAnalyzeSentiment_ResponseShape(t *testing.T) {
	router := NewRouter(newStub())

	body, err := json.Marshal(models.AnalyzeRequest{Text: "just some text"})
	require.NoError(t, err)

	w := postAnalyze(t, router, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Len(t, raw, 1)
	assert.Contains(t, raw, "sentiment")
}

func TestAnalyzeSentiment_CapabilityFailure(t *testing.T) {
	stub := newStub()
	stub.analyzeFn = func(_ context.Context, _ string) (models.SentimentResponse, error) {
		return models.SentimentResponse{}, errors.New("analyzer exploded")
	}
	router := NewRouter(stub)

	body, err := json.Marshal(models.AnalyzeRequest{Text: "anything"})
	require.NoError(t, err)

	w := postAnalyze(t, router, body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var apiErr models.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.NotEmpty(t, apiErr.Message)
}

func TestCheckHealth(t *testing.T) {
	router := NewRouter(newStub())

	req, err := http.NewRequest(http.MethodGet, "/sentiment/health", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "sentiment-api", resp.Service)

	_, err = time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err, "timestamp should be ISO-8601")
}

func TestCheckHealth_RepeatedCallsSameShape(t *testing.T) {
	router := NewRouter(newStub())

	var shapes []map[string]any
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, "/sentiment/health", nil)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		shapes = append(shapes, raw)
	}

	for _, shape := range shapes {
		assert.Len(t, shape, 3)
		for _, key := range []string{"status", "timestamp", "service"} {
			assert.Contains(t, shape, key)
			assert.IsType(t, "", shape[key])
		}
	}
}

// End-to-end through the real VADER-backed service, no stubbing.
func TestAnalyzeSentiment_WithRealService(t *testing.T) {
	service := sentiment.NewService("sentiment-api")
	router := NewRouter(service)

	body, err := json.Marshal(models.AnalyzeRequest{Text: "This is amazing!"})
	require.NoError(t, err)

	w := postAnalyze(t, router, body)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.SentimentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Sentiment, 0.0)
	assert.LessOrEqual(t, resp.Sentiment, 1.0)
}
