package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports process and dependency status.
type Service struct {
	DB                   Pinger
	GenerativeConfigured bool
	CommerceConfigured   bool
	PingTimeout          time.Duration
}

// NewService constructs a new health service.
func NewService(db Pinger, generativeConfigured, commerceConfigured bool) *Service {
	return &Service{
		DB:                   db,
		GenerativeConfigured: generativeConfigured,
		CommerceConfigured:   commerceConfigured,
		PingTimeout:          2 * time.Second,
	}
}

// Status returns the health payload. ok is false only when a configured
// database does not answer; missing credentials degrade features, not health.
func (s *Service) Status(ctx context.Context) map[string]any {
	checks := map[string]string{
		"generative": configured(s.GenerativeConfigured),
		"commerce":   configured(s.CommerceConfigured),
		"database":   "disabled",
	}
	ok := true
	if s.DB != nil {
		timeout := s.PingTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			checks["database"] = "unreachable"
			ok = false
		} else {
			checks["database"] = "ok"
		}
	}
	return map[string]any{"ok": ok, "checks": checks}
}

func configured(v bool) string {
	if v {
		return "configured"
	}
	return "missing"
}
