package server

import (
	"context"
	"testing"
	"time"

	"github.com/abhisek/scholar/internal/quiz"
)

func TestRegistry_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry(30 * time.Minute)
	r.now = func() time.Time { return now }

	s := quiz.NewSession("Optics")
	r.Put(s)

	if got, ok := r.Get(s.ID()); !ok || got != s {
		t.Fatal("expected session to be found")
	}

	// Access extends the lifetime.
	now = now.Add(20 * time.Minute)
	if _, ok := r.Get(s.ID()); !ok {
		t.Fatal("session expired too early")
	}
	now = now.Add(25 * time.Minute)
	if _, ok := r.Get(s.ID()); !ok {
		t.Fatal("access should have extended the ttl")
	}

	now = now.Add(31 * time.Minute)
	if _, ok := r.Get(s.ID()); ok {
		t.Fatal("expected session to be expired")
	}
	if r.Len() != 1 {
		t.Errorf("expired session should stay until swept, Len() = %d", r.Len())
	}
	if n := r.CleanupExpired(); n != 1 {
		t.Errorf("CleanupExpired() = %d, want 1", n)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after cleanup", r.Len())
	}
}

func TestRegistry_NoTTL(t *testing.T) {
	r := NewRegistry(0)
	s := quiz.NewSession("Optics")
	r.Put(s)
	r.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	if _, ok := r.Get(s.ID()); !ok {
		t.Fatal("zero ttl keeps sessions")
	}
	if n := r.CleanupExpired(); n != 0 {
		t.Errorf("CleanupExpired() = %d", n)
	}

	r.Delete(s.ID())
	if _, ok := r.Get(s.ID()); ok {
		t.Error("deleted session found")
	}
}

func TestRegistry_SweepStops(t *testing.T) {
	r := NewRegistry(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Sweep(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sweep did not stop on cancel")
	}
}
