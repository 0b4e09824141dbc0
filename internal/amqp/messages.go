package amqp

import (
	"encoding/json"
	"time"
)

// SaveEventMessage is a lightweight notification that a snapshot was saved.
// It carries summary figures only; a consumer wanting the full document
// reads the save file or the snapshot history.
type SaveEventMessage struct {
	SavedAt     string    `json:"saved_at"`
	Categories  int       `json:"categories"`
	TotalAmount float64   `json:"total_amount"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewSaveEventMessage(savedAt string, categories int, totalAmount float64) *SaveEventMessage {
	return &SaveEventMessage{
		SavedAt:     savedAt,
		Categories:  categories,
		TotalAmount: totalAmount,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SaveEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaveEventMessageFromJSON creates a message from JSON bytes.
func SaveEventMessageFromJSON(data []byte) (*SaveEventMessage, error) {
	var msg SaveEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
