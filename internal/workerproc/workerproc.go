package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"storefront-backend/internal/queue"
	"storefront-backend/internal/recommend"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates the envelope or its event payload could not be decoded.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingEventID indicates a message carrying an event without an id.
type ErrMissingEventID struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingEventID) Error() string { return "missing event id" }

// ErrProcess indicates the sink rejected a well-formed event.
type ErrProcess struct {
	EventID   string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "record event"
	}
	return "record event: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates the queue payload and extracts its event.
func ParseMessage(body string) (recommend.Event, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return recommend.Event{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return recommend.Event{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	ev, err := recommend.DecodeEventMessage(msg)
	if err != nil {
		return recommend.Event{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(ev.ID) == "" {
		return ev, meta, ErrMissingEventID{Meta: meta, RequestID: msg.RequestID}
	}
	return ev, meta, nil
}

// HandleMessage parses body and stores its event in sink.
func HandleMessage(ctx context.Context, sink recommend.Recorder, body string) error {
	if sink == nil {
		return errors.New("event sink not configured")
	}
	ev, _, err := ParseMessage(body)
	if err != nil {
		return err
	}
	return Record(ctx, sink, ev)
}

// Record stores an already parsed event.
func Record(ctx context.Context, sink recommend.Recorder, ev recommend.Event) error {
	if sink == nil {
		return errors.New("event sink not configured")
	}
	if err := sink.Record(ctx, ev); err != nil {
		return ErrProcess{EventID: ev.ID, RequestID: ev.RequestID, Err: err}
	}
	return nil
}
