package registry

import (
	"context"
	"testing"
	"time"

	"github.com/user/camstream/pkg/controller"
	"github.com/user/camstream/pkg/media"
	"github.com/user/camstream/pkg/mocks"
)

func newController() (*controller.Controller, *mocks.VideoSource) {
	src := &mocks.VideoSource{}
	c := controller.New(src, controller.Options{
		PollInterval:  time.Millisecond,
		WarmupTimeout: 2 * time.Second,
	})
	return c, src
}

func TestRegistry_RegisterUnregister(t *testing.T) {
	r := New(nil)

	c1, _ := newController()
	c2, _ := newController()

	id1, err := r.Register(c1)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	id2, err := r.Register(c2)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if id1 == id2 {
		t.Error("registration ids must be unique")
	}
	if r.Count() != 2 {
		t.Errorf("expected 2 registered controllers, got %d", r.Count())
	}

	r.Unregister(id1)
	if r.Count() != 1 {
		t.Errorf("expected 1 registered controller, got %d", r.Count())
	}

	// Unregistering an unknown id is a no-op.
	r.Unregister("no-such-id")
	if r.Count() != 1 {
		t.Errorf("expected count unchanged, got %d", r.Count())
	}
}

func TestRegistry_ShutdownAllClosesControllers(t *testing.T) {
	r := New(nil)

	c1, src1 := newController()
	c2, src2 := newController()
	if err := c1.Open(context.Background(), media.DeviceSource(0)); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := c2.Open(context.Background(), media.DeviceSource(1)); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	if _, err := r.Register(c1); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := r.Register(c2); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := r.ShutdownAll(); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if r.Count() != 0 {
		t.Errorf("expected empty registry after shutdown, got %d", r.Count())
	}
	if src1.CloseCalls() != 1 || src2.CloseCalls() != 1 {
		t.Error("all registered controllers should be closed")
	}

	// Late registrations are refused once shut down.
	c3, _ := newController()
	if _, err := r.Register(c3); err == nil {
		t.Error("expected registration after shutdown to fail")
	}
}

func TestRegistry_ShutdownAllIdempotent(t *testing.T) {
	r := New(nil)
	if err := r.ShutdownAll(); err != nil {
		t.Fatalf("shutdown of empty registry failed: %v", err)
	}
	if err := r.ShutdownAll(); err != nil {
		t.Fatalf("second shutdown failed: %v", err)
	}
}
