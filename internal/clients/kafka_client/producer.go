package kafka_client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"

	"github.com/spacesedan/sentiment-api/internal/models"
)

var producer *kafka.Producer

func InitKafkaProducer(cfg KafkaConfig) error {
	slog.Info("[KafkaClient] Initializing Kafka Producer...")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	producer = p
	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return nil
}

func CloseKafkaProducer() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if producer != nil {
		slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
		if remaining := producer.Flush(FLUSH_TIMEOUT_MS); remaining > 0 {
			slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
				slog.Int("remaining", remaining))
		}
		producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}

// PublishAnalysisRecord sends a single analysis record to the results topic,
// keyed by content id so re-analyses of the same text land in one partition.
func PublishAnalysisRecord(topic string, record models.AnalysisRecord) error {
	if producer == nil {
		return fmt.Errorf("[KafkaClient] producer is not initialized")
	}

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to marshal analysis record: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(record.ContentID),
		Value:          jsonData,
	}

	deliveryChan := make(chan kafka.Event, 1)

	for i := 0; i < PRODUCE_RETRIES; i++ {
		err = producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1))
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce analysis record: %w", err)
	}

	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
	case <-time.After(DELIVERY_TIMEOUT_MS * time.Millisecond):
		return fmt.Errorf("[KafkaClient] timed out waiting for delivery report")
	}

	slog.Info("[KafkaClient] Published analysis record to Kafka",
		slog.String("topic", topic),
		slog.String("content_id", record.ContentID))

	return nil
}

// ResultPublisher adapts the package-level producer to the sentiment
// service's publisher interface.
type ResultPublisher struct {
	Topic string
}

func NewResultPublisher(topic string) *ResultPublisher {
	return &ResultPublisher{Topic: topic}
}

func (p *ResultPublisher) PublishAnalysisRecord(record models.AnalysisRecord) error {
	return PublishAnalysisRecord(p.Topic, record)
}
