package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that a state snapshot was persisted. It carries
// only the mutation kind and the blob key; consumers fetch the snapshot
// themselves, so a lost message costs nothing but freshness.
type ChangeMessage struct {
	Kind      string    `json:"kind"`
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(kind, key string) *ChangeMessage {
	return &ChangeMessage{
		Kind:      kind,
		Key:       key,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
