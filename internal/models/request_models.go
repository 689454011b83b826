package models

// AnalysisRequest is the message consumed from the analysis request topic.
// Multi-line text is analyzed as a batch.
type AnalysisRequest struct {
	RequestID string `json:"request_id"`
	Text      string `json:"text"`
}

// AnalysisResponse is published once a request has been processed.
type AnalysisResponse struct {
	RequestID string     `json:"request_id"`
	Results   []Analysis `json:"results"`
	Error     string     `json:"error,omitempty"`
}
