package ws

import (
	"encoding/json"
	"testing"
)

func TestParseGuessValue(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
		ok   bool
	}{
		{"json number", float64(42.5), 42.5, true},
		{"numeric string", "99", 99, true},
		{"decimal string", "12.75", 12.75, true},
		{"non-numeric string", "cheap", 0, false},
		{"empty string", "", 0, false},
		{"null", nil, 0, false},
		{"object", map[string]interface{}{}, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseGuessValue(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("parseGuessValue(%v) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClientMessageDecode(t *testing.T) {
	raw := `{"type":"guess","payload":{"value":95}}`

	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != MsgGuess {
		t.Errorf("type = %s, want guess", msg.Type)
	}

	payloadMap, ok := msg.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload type %T", msg.Payload)
	}
	value, ok := parseGuessValue(payloadMap["value"])
	if !ok || value != 95 {
		t.Errorf("value = %v, ok = %v", value, ok)
	}
}
