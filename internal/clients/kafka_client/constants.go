package kafka_client

const (
	KAFKA_TOPIC_SENTIMENT_RESULTS = "sentiment-results" // analysis records for downstream consumers
)

const (
	PRODUCE_RETRIES     = 3
	FLUSH_TIMEOUT_MS    = 5000
	DELIVERY_TIMEOUT_MS = 10000
)
