package models

import "time"

// AnalysisRecord is the internal enrichment of a single analysis that gets
// cached, persisted to DynamoDB, and published to Kafka. It never leaves the
// service over HTTP.
type AnalysisRecord struct {
	ContentID      string    `json:"content_id"`
	Text           string    `json:"text"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	Source         string    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
}
