package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUESTS = "analysis-requests" // texts waiting to be analyzed
	KAFKA_TOPIC_ANALYSIS_RESULTS  = "analysis-results"  // analyses keyed by request id
)

const (
	MAX_RETRIES  = 5
	RETRY_DELAY  = 2 * time.Second
	POLL_TIMEOUT = 500 * time.Millisecond

	producerFlushTimeoutMs = 5000
	publishRetries         = 3
)
