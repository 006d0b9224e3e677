package queue

import "encoding/json"

// Message is the envelope sent to downstream queue consumers.
type Message struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	RequestID  string          `json:"requestId,omitempty"`
	EnqueuedAt string          `json:"enqueuedAt"`
	Version    int             `json:"version"`
	Payload    json.RawMessage `json:"payload"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
