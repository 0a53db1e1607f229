package core

import (
	"context"
	"testing"
	"time"
)

func TestSweep_EvictsIdleSessions(t *testing.T) {
	svc := NewService(nil, Config{IdleTimeout: time.Minute})
	defer svc.Close()

	idle, _ := svc.CreateSession(context.Background(), testParams())
	active, _ := svc.CreateSession(context.Background(), testParams())

	now := time.Now()
	idle.mu.Lock()
	idle.lastUsed = now.Add(-2 * time.Minute)
	idle.mu.Unlock()

	if n := svc.runSweep(now); n != 1 {
		t.Errorf("runSweep() = %d, want 1", n)
	}
	if _, err := svc.Session(idle.ID); err == nil {
		t.Error("idle session still registered")
	}
	if _, err := svc.Session(active.ID); err != nil {
		t.Errorf("active session evicted: %v", err)
	}
}

func TestSweep_Disabled(t *testing.T) {
	svc := NewService(nil, Config{})
	defer svc.Close()

	sess, _ := svc.CreateSession(context.Background(), testParams())
	if n := svc.sweep(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Errorf("sweep() = %d, want 0", n)
	}
	if _, err := svc.Session(sess.ID); err != nil {
		t.Errorf("Session() error = %v", err)
	}
}

func TestStartSweeper_StopsOnCancel(t *testing.T) {
	svc := NewService(nil, Config{IdleTimeout: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.StartSweeper(ctx, 10*time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartSweeper did not return after cancel")
	}
}

func TestStartSweeper_ReturnsWhenDisabled(t *testing.T) {
	svc := NewService(nil, Config{})

	done := make(chan struct{})
	go func() {
		svc.StartSweeper(context.Background(), time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartSweeper should return immediately without an idle timeout")
	}
}
