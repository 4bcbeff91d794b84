package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/spacesedan/sentiment-api/internal/clients"
	"github.com/spacesedan/sentiment-api/internal/models"
)

const (
	SENTIMENT_ANALYSIS_TABLE_NAME = "SentimentResults"

	// records roll off after a week, enforced by the table's TTL attribute
	RECORD_TTL = 7 * 24 * time.Hour
)

var dbClient *dynamodb.Client

func InitDynamoDB() {
	dbClient = clients.GetDynamoDBClient()
}

type dynamoAnalysisItem struct {
	ContentID      string  `dynamodbav:"content_id"`
	Text           string  `dynamodbav:"text"`
	SentimentScore float64 `dynamodbav:"sentiment_score"`
	SentimentLabel string  `dynamodbav:"sentiment_label"`
	Source         string  `dynamodbav:"source"`
	Timestamp      string  `dynamodbav:"timestamp"`
	ExpiresAt      int64   `dynamodbav:"expires_at"`
}

func InsertAnalysisRecord(ctx context.Context, record models.AnalysisRecord) error {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	item, err := attributevalue.MarshalMap(dynamoAnalysisItem{
		ContentID:      record.ContentID,
		Text:           record.Text,
		SentimentScore: record.SentimentScore,
		SentimentLabel: record.SentimentLabel,
		Source:         record.Source,
		Timestamp:      record.Timestamp.Format(time.RFC3339),
		ExpiresAt:      record.Timestamp.Add(RECORD_TTL).Unix(),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal analysis record: %w", err)
	}

	_, err = dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(SENTIMENT_ANALYSIS_TABLE_NAME),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put analysis record: %w", err)
	}

	slog.Debug("[DynamoDB] Stored analysis record",
		slog.String("content_id", record.ContentID))

	return nil
}

// TableReachable reports whether the results table answers DescribeTable.
// Used by the health monitors.
func TableReachable(ctx context.Context) bool {
	if dbClient == nil {
		dbClient = clients.GetDynamoDBClient()
	}

	_, err := dbClient.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(SENTIMENT_ANALYSIS_TABLE_NAME),
	})
	if err != nil {
		slog.Warn("[DynamoDB] DescribeTable failed",
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// RecordStore adapts the package-level client to the sentiment service's
// store interface.
type RecordStore struct{}

func NewRecordStore() *RecordStore {
	InitDynamoDB()
	return &RecordStore{}
}

func (s *RecordStore) InsertAnalysisRecord(ctx context.Context, record models.AnalysisRecord) error {
	return InsertAnalysisRecord(ctx, record)
}
