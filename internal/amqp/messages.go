package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportGeneratedMessage announces a category report written to disk.
type ReportGeneratedMessage struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Format    string    `json:"format"`
	Path      string    `json:"path"`
	Records   int       `json:"records"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReportGeneratedMessage stamps a fresh id and the current time.
func NewReportGeneratedMessage(category, format, path string, records int) *ReportGeneratedMessage {
	return &ReportGeneratedMessage{
		ID:        uuid.New(),
		Category:  category,
		Format:    format,
		Path:      path,
		Records:   records,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportGeneratedMessageFromJSON decodes a message body.
func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
