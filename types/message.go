package types

import (
	"time"
)

// Message is a dto for siphon output row representation
type Message struct {
	Type             MessageType            `json:"type"`
	Log              *Log                   `json:"log,omitempty"`
	ConnectionStatus *StatusRow             `json:"connectionStatus,omitempty"`
	State            *State                 `json:"state,omitempty"`
	Catalog          *Catalog               `json:"catalog,omitempty"`
	Record           *RecordRow             `json:"record,omitempty"`
	Spec             map[string]interface{} `json:"spec,omitempty"`
}

// Log is a dto for log line serialization
type Log struct {
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}

// StatusRow is a dto for connection check result serialization
type StatusRow struct {
	Status  ConnectionStatus `json:"status,omitempty"`
	Message string           `json:"message,omitempty"`
}

// RecordRow is a dto for a single emitted record with its stream identity
type RecordRow struct {
	Stream    string    `json:"stream"`
	Namespace string    `json:"namespace,omitempty"`
	Data      Record    `json:"data"`
	EmittedAt time.Time `json:"emitted_at"`
}

// RawRecord pairs mapped record data with its primary-key hash identity.
// Downstream dedupes on RecordID, which makes page re-extraction after a
// crash idempotent.
type RawRecord struct {
	RecordID    string    `json:"record_id"`
	Stream      string    `json:"stream"`
	Namespace   string    `json:"namespace,omitempty"`
	Data        Record    `json:"data"`
	ExtractedAt time.Time `json:"extracted_at"`
}

func CreateRawRecord(recordID string, stream StreamInterface, data Record) RawRecord {
	return RawRecord{
		RecordID:    recordID,
		Stream:      stream.Name(),
		Namespace:   stream.Namespace(),
		Data:        data,
		ExtractedAt: time.Now().UTC(),
	}
}
