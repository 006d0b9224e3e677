package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-backend/internal/queue"
)

// EventMessageType tags queue messages carrying an Event.
const EventMessageType = "recommendation.event"

// QueueRecorder publishes events for the worker to persist.
type QueueRecorder struct {
	Queue queue.Client
}

// Record enqueues ev.
func (r *QueueRecorder) Record(ctx context.Context, ev Event) error {
	msg, err := EncodeEventMessage(ev, time.Now().UTC())
	if err != nil {
		return err
	}
	return r.Queue.Send(ctx, msg)
}

// EncodeEventMessage wraps ev in a queue message.
func EncodeEventMessage(ev Event, enqueuedAt time.Time) (queue.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return queue.Message{}, fmt.Errorf("encode event: %w", err)
	}
	return queue.Message{
		Type:       EventMessageType,
		ID:         ev.ID,
		RequestID:  ev.RequestID,
		EnqueuedAt: enqueuedAt.Format(time.RFC3339),
		Version:    1,
		Payload:    payload,
	}, nil
}

// DecodeEventMessage extracts the Event carried by msg.
func DecodeEventMessage(msg queue.Message) (Event, error) {
	if msg.Type != EventMessageType {
		return Event{}, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	var ev Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.ID == "" {
		ev.ID = msg.ID
	}
	return ev, nil
}

var _ Recorder = (*QueueRecorder)(nil)
