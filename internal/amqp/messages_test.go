package amqp

import (
	"testing"

	"accountable/internal/storage"
)

func TestChangeMessageJSON(t *testing.T) {
	msg := NewChangeMessage("transaction.add", storage.DataKey)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Kind != "transaction.add" || got.Key != storage.DataKey {
		t.Fatalf("round trip lost fields: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}
}

func TestChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected parse error")
	}
}
