package health

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestStatusWithoutDatabase(t *testing.T) {
	got := NewService(nil, false, true).Status(context.Background())
	if got["ok"] != true {
		t.Fatalf("expected ok, got %v", got)
	}
	checks := got["checks"].(map[string]string)
	if checks["database"] != "disabled" || checks["generative"] != "missing" || checks["commerce"] != "configured" {
		t.Fatalf("unexpected checks %v", checks)
	}
}

func TestStatusDatabaseDown(t *testing.T) {
	svc := NewService(pingerFunc(func(context.Context) error { return errors.New("refused") }), true, true)
	got := svc.Status(context.Background())
	if got["ok"] != false {
		t.Fatalf("expected not ok, got %v", got)
	}
	if got["checks"].(map[string]string)["database"] != "unreachable" {
		t.Fatalf("unexpected checks %v", got["checks"])
	}
}
