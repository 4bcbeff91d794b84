package kafka_client

import "os"

type KafkaConfig struct {
	Broker string
	Topic  string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker: getEnv("KAFKA_BROKER", "localhost:29092"),
		Topic:  getEnv("KAFKA_RESULTS_TOPIC", KAFKA_TOPIC_SENTIMENT_RESULTS),
	}
}
