package recommend

import (
	"context"
	"sync"
)

const memoryRecorderCapacity = 500

// MemoryRecorder keeps the most recent events in process.
type MemoryRecorder struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryRecorder constructs a MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

// Record appends ev, evicting the oldest event once full.
func (r *MemoryRecorder) Record(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == memoryRecorderCapacity {
		copy(r.events, r.events[1:])
		r.events = r.events[:len(r.events)-1]
	}
	r.events = append(r.events, ev)
	return nil
}

// Recent returns up to limit events, newest first.
func (r *MemoryRecorder) Recent(ctx context.Context, limit int) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit = clampLimit(limit)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, 0, min(limit, len(r.events)))
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}

var (
	_ Recorder    = (*MemoryRecorder)(nil)
	_ EventLister = (*MemoryRecorder)(nil)
)
