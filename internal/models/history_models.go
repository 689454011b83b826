package models

// HistoryEntry is the persisted and exported form of an Analysis. The ID is
// a millisecond epoch, fractional for entries created by batch analysis, so
// that history files written by the browser dashboard load unchanged.
type HistoryEntry struct {
	Analysis
	ID float64 `json:"id" dynamodbav:"id"`
}

// Export is a named JSON document ready to be handed out as a download.
type Export struct {
	Filename string
	Data     []byte
}
