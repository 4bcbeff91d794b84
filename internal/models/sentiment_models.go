package models

// AnalyzeRequest is the body of POST /sentiment/analyze
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// SentimentResponse carries the compound polarity score, always in [-1, 1]
type SentimentResponse struct {
	Sentiment float64 `json:"sentiment"`
}

// HealthResponse is the body of GET /sentiment/health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// APIError is the error body returned for 4xx/5xx responses
type APIError struct {
	Message string `json:"message"`
}
