package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage asks the export worker to mirror one recorded entry to
// the Google Sheets export. It carries only the entry id; the worker reads
// the full entry from the store.
type EntrySyncMessage struct {
	EntryID   string    `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(entryID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
