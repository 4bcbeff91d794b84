package sentiment

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/sentiment-api/internal/models"
)

// Capability is what the HTTP layer depends on. Handlers are tested against
// a substitute implementation.
type Capability interface {
	AnalyzeSentiment(ctx context.Context, text string) (models.SentimentResponse, error)
	CheckHealth(ctx context.Context) models.HealthResponse
}

// ResultCache short-circuits repeat analyses of the same text.
type ResultCache interface {
	GetCachedScore(ctx context.Context, contentID string) (float64, bool)
	CacheScore(ctx context.Context, contentID string, score float64) error
}

// ResultStore persists analysis records.
type ResultStore interface {
	InsertAnalysisRecord(ctx context.Context, record models.AnalysisRecord) error
}

// ResultPublisher fans analysis records out to downstream consumers.
type ResultPublisher interface {
	PublishAnalysisRecord(record models.AnalysisRecord) error
}

// Service runs VADER over incoming text and wires the result through the
// optional cache, store, and publisher. Any of the three may be nil; their
// failures are logged and never fail the analysis itself.
type Service struct {
	serviceName string
	cache       ResultCache
	store       ResultStore
	publisher   ResultPublisher
	healthy     *atomic.Bool
}

type ServiceOption func(*Service)

func WithCache(cache ResultCache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

func WithStore(store ResultStore) ServiceOption {
	return func(s *Service) { s.store = store }
}

func WithPublisher(publisher ResultPublisher) ServiceOption {
	return func(s *Service) { s.publisher = publisher }
}

// WithHealthSignal wires the dependency monitors into CheckHealth.
func WithHealthSignal(healthy *atomic.Bool) ServiceOption {
	return func(s *Service) { s.healthy = healthy }
}

func NewService(serviceName string, opts ...ServiceOption) *Service {
	s := &Service{serviceName: serviceName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AnalyzeSentiment(ctx context.Context, text string) (models.SentimentResponse, error) {
	contentID := ContentID(text)

	if s.cache != nil {
		if score, ok := s.cache.GetCachedScore(ctx, contentID); ok {
			slog.Debug("[SentimentService] Cache hit",
				slog.String("content_id", contentID))
			return models.SentimentResponse{Sentiment: score}, nil
		}
	}

	score, label := AnalyzeWithVADER(text)

	record := models.AnalysisRecord{
		ContentID:      contentID,
		Text:           text,
		SentimentScore: score,
		SentimentLabel: label,
		Source:         "vader",
		Timestamp:      time.Now().UTC(),
	}

	if s.cache != nil {
		if err := s.cache.CacheScore(ctx, contentID, score); err != nil {
			slog.Warn("[SentimentService] Failed to cache score",
				slog.String("content_id", contentID),
				slog.String("error", err.Error()))
		}
	}

	if s.store != nil {
		if err := s.store.InsertAnalysisRecord(ctx, record); err != nil {
			slog.Warn("[SentimentService] Failed to store analysis record",
				slog.String("content_id", contentID),
				slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysisRecord(record); err != nil {
			slog.Warn("[SentimentService] Failed to publish analysis record",
				slog.String("content_id", contentID),
				slog.String("error", err.Error()))
		}
	}

	return models.SentimentResponse{Sentiment: score}, nil
}

func (s *Service) CheckHealth(ctx context.Context) models.HealthResponse {
	status := "healthy"
	if s.healthy != nil && !s.healthy.Load() {
		status = "degraded"
	}

	return models.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   s.serviceName,
	}
}
