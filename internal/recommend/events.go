package recommend

import (
	"context"
	"time"
)

// Event records one widget response.
type Event struct {
	ID                  string    `json:"id"`
	RequestID           string    `json:"requestId,omitempty"`
	CurrentProductTitle string    `json:"currentProductTitle,omitempty"`
	UserQuery           string    `json:"userQuery,omitempty"`
	AIHandles           []string  `json:"aiHandles"`
	ServedHandles       []string  `json:"servedHandles"`
	Source              string    `json:"source"`
	ErrorKind           string    `json:"errorKind,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Recorder stores recommendation events.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// EventLister lists the most recent events, newest first.
type EventLister interface {
	Recent(ctx context.Context, limit int) ([]Event, error)
}

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultEventLimit
	}
	if limit > maxEventLimit {
		return maxEventLimit
	}
	return limit
}
