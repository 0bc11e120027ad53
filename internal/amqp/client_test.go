package amqp

import (
	"testing"
	"time"
)

func TestNewLedgerExportMessage(t *testing.T) {
	msg := NewLedgerExportMessage("entry-123")

	if msg.EntryID != "entry-123" {
		t.Errorf("EntryID = %q, want entry-123", msg.EntryID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestLedgerExportMessageJSON(t *testing.T) {
	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg := &LedgerExportMessage{EntryID: "entry-123", Timestamp: timestamp}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := LedgerExportMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("LedgerExportMessageFromJSON() error = %v", err)
	}
	if parsed.EntryID != msg.EntryID {
		t.Errorf("Parsed EntryID = %q, want %q", parsed.EntryID, msg.EntryID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestLedgerExportMessageRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"entry_id": 42`},
		{"missing entry id", `{"timestamp": "2025-06-01T12:00:00Z"}`},
		{"empty entry id", `{"entry_id": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LedgerExportMessageFromJSON([]byte(tt.data)); err == nil {
				t.Errorf("LedgerExportMessageFromJSON(%s) = nil error, want failure", tt.data)
			}
		})
	}
}
