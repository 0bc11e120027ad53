package amqp

import (
	"encoding/json"
	"time"
)

// LedgerExportMessage asks the export worker to copy one budget entry to the
// public transparency sheet. It carries only the entry id; the worker loads
// the current row from the database, so a stale message can never overwrite
// newer data.
type LedgerExportMessage struct {
	EntryID   string    `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerExportMessage(entryID string) *LedgerExportMessage {
	return &LedgerExportMessage{
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

func (m *LedgerExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerExportMessageFromJSON(data []byte) (*LedgerExportMessage, error) {
	var msg LedgerExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.EntryID == "" {
		return nil, errEmptyEntryID
	}
	return &msg, nil
}
