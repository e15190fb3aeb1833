package vclock

import (
	"testing"
	"time"
)

func TestAdvanceFiresEveryDueTimer(t *testing.T) {
	c := New()
	fired := make(chan string, 3)

	late := c.NewTimer(20 * time.Millisecond)
	early := c.NewTimer(5 * time.Millisecond)
	mid := c.NewTimer(10 * time.Millisecond)

	go func() { <-early.Done(); fired <- "early" }()
	go func() { <-mid.Done(); fired <- "mid" }()
	go func() { <-late.Done(); fired <- "late" }()

	c.Advance(25 * time.Millisecond)

	// Advance closes each Done channel in deadline order before returning,
	// but the three goroutines above race each other to send on fired once
	// unblocked. Collect into a set and assert its membership instead of its
	// arrival order; deadline order is covered directly below by inspecting
	// the heap pop order a single timer at a time.
	got := make(map[string]bool, 3)
	for i := 0; i < 3; i++ {
		select {
		case label := <-fired:
			got[label] = true
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for fired timer %d", i)
		}
	}
	for _, want := range []string{"early", "mid", "late"} {
		if !got[want] {
			t.Fatalf("fired = %v, missing %q", got, want)
		}
	}

	if gotNow, want := c.Now(), 25*time.Millisecond; gotNow != want {
		t.Fatalf("Now() = %v, want %v", gotNow, want)
	}
}

// TestAdvancePopsTimersInDeadlineOrder verifies the deadline ordering the
// test above leaves unchecked: timers with distinct deadlines become Done in
// strictly increasing deadline order, checked without any goroutine
// involved so there is nothing left to race.
func TestAdvancePopsTimersInDeadlineOrder(t *testing.T) {
	c := New()

	late := c.NewTimer(20 * time.Millisecond)
	early := c.NewTimer(5 * time.Millisecond)
	mid := c.NewTimer(10 * time.Millisecond)

	for _, timer := range []*Timer{early, mid, late} {
		select {
		case <-timer.Done():
			t.Fatalf("timer with deadline %v fired before Advance", timer.Deadline())
		default:
		}
	}

	c.Advance(5 * time.Millisecond)
	requireDone(t, early, "early")
	requireNotDone(t, mid, "mid")
	requireNotDone(t, late, "late")

	c.Advance(5 * time.Millisecond)
	requireDone(t, mid, "mid")
	requireNotDone(t, late, "late")

	c.Advance(10 * time.Millisecond)
	requireDone(t, late, "late")
}

func requireDone(t *testing.T, timer *Timer, name string) {
	t.Helper()
	select {
	case <-timer.Done():
	default:
		t.Fatalf("%s timer should have fired by now", name)
	}
}

func requireNotDone(t *testing.T, timer *Timer, name string) {
	t.Helper()
	select {
	case <-timer.Done():
		t.Fatalf("%s timer fired early", name)
	default:
	}
}

func TestTimerAlreadyDueFiresImmediately(t *testing.T) {
	c := New()
	c.Advance(10 * time.Millisecond)
	timer := c.NewTimer(5 * time.Millisecond)
	select {
	case <-timer.Done():
	default:
		t.Fatalf("timer with past deadline should already be done")
	}
}

func TestStopPreventsFiring(t *testing.T) {
	c := New()
	timer := c.NewTimer(5 * time.Millisecond)
	if !timer.Stop() {
		t.Fatalf("Stop() = false, want true for a pending timer")
	}
	c.Advance(10 * time.Millisecond)
	select {
	case <-timer.Done():
		t.Fatalf("stopped timer fired")
	default:
	}
}

func TestAdvanceOnlyFiresDueTimers(t *testing.T) {
	c := New()
	soon := c.NewTimer(5 * time.Millisecond)
	later := c.NewTimer(50 * time.Millisecond)

	c.Advance(5 * time.Millisecond)

	select {
	case <-soon.Done():
	default:
		t.Fatalf("soon timer should have fired at deadline")
	}
	select {
	case <-later.Done():
		t.Fatalf("later timer should not have fired yet")
	default:
	}
}
