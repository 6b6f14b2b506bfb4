package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"bms_proxy/internal/bms"
	"bms_proxy/internal/models"
)

type countingStatus struct {
	calls atomic.Int32
	err   error
}

func (c *countingStatus) CurrentStatus(context.Context) (models.VendorResult, *models.DeviceStatus, error) {
	c.calls.Add(1)
	if c.err != nil {
		return models.VendorResult{}, nil, c.err
	}
	return successResult(nil), &models.DeviceStatus{ID: 1}, nil
}

func runPoller(t *testing.T, p *PollerService, interval, runFor time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), runFor)
	defer cancel()
	done := make(chan struct{})
	go func() {
		p.Run(ctx, interval)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(runFor + time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

func TestPoller_PollsWhileSessionHeld(t *testing.T) {
	sessions := &fakeSessions{has: true, session: models.Session{Primary: "J"}}
	status := &countingStatus{}

	runPoller(t, NewPollerService(sessions, status, nil), 10*time.Millisecond, 120*time.Millisecond)

	if status.calls.Load() < 2 {
		t.Fatalf("expected repeated polls, got %d", status.calls.Load())
	}
}

func TestPoller_IdlesWithoutSession(t *testing.T) {
	status := &countingStatus{}

	runPoller(t, NewPollerService(&fakeSessions{}, status, nil), 10*time.Millisecond, 80*time.Millisecond)

	if n := status.calls.Load(); n != 0 {
		t.Fatalf("expected no vendor reads without a session, got %d", n)
	}
}

func TestPoller_ZeroIntervalReturnsImmediately(t *testing.T) {
	status := &countingStatus{}
	done := make(chan struct{})
	go func() {
		NewPollerService(&fakeSessions{has: true}, status, nil).Run(context.Background(), 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run(0) blocked")
	}
	if status.calls.Load() != 0 {
		t.Fatalf("expected no polls")
	}
}

func TestPoller_KeepsRunningAfterErrors(t *testing.T) {
	sessions := &fakeSessions{has: true, session: models.Session{Primary: "J"}}
	status := &countingStatus{err: bms.ErrVendorUnreachable}

	runPoller(t, NewPollerService(sessions, status, nil), 10*time.Millisecond, 100*time.Millisecond)

	if status.calls.Load() < 2 {
		t.Fatalf("poller stopped after an error, calls=%d", status.calls.Load())
	}
}
