package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a controllable time source for deterministic tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestLimiter creates a Limiter wired to the given fake clock.
func newTestLimiter(rate int, window time.Duration, clock *fakeClock) *Limiter {
	l := New(rate, window)
	l.now = clock.Now
	return l
}

func TestAllowBasic(t *testing.T) {
	clock := newFakeClock(time.Now())
	l := newTestLimiter(3, time.Minute, clock)

	for i := 0; i < 3; i++ {
		if !l.Allow("203.0.113.9") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if l.Allow("203.0.113.9") {
		t.Fatal("4th request should be denied")
	}
}

func TestAllowDifferentKeys(t *testing.T) {
	clock := newFakeClock(time.Now())
	l := newTestLimiter(1, time.Minute, clock)

	if !l.Allow("a") {
		t.Fatal("first request for key 'a' should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("second request for key 'a' should be denied")
	}
	// Different key should have its own bucket.
	if !l.Allow("b") {
		t.Fatal("first request for key 'b' should be allowed")
	}
}

func TestTokenRefill(t *testing.T) {
	clock := newFakeClock(time.Now())
	// 60 tokens per minute = 1 token per second.
	l := newTestLimiter(60, time.Minute, clock)

	// Exhaust all tokens.
	for i := 0; i < 60; i++ {
		l.Allow("k")
	}
	if l.Allow("k") {
		t.Fatal("should be denied after exhausting tokens")
	}

	// Advance 1 second -> 1 token refilled.
	clock.Advance(1 * time.Second)
	if !l.Allow("k") {
		t.Fatal("should be allowed after 1 second refill")
	}
	if l.Allow("k") {
		t.Fatal("should be denied again after consuming refilled token")
	}
}

func TestTokenRefillCap(t *testing.T) {
	clock := newFakeClock(time.Now())
	l := newTestLimiter(5, time.Minute, clock)

	// Use 2 tokens.
	l.Allow("k")
	l.Allow("k")

	// Advance a very long time; tokens should cap at rate.
	clock.Advance(10 * time.Minute)

	_, remaining, _ := l.Status("k")
	if remaining != 5 {
		t.Fatalf("remaining should cap at 5, got %d", remaining)
	}
}

func TestStatusResetAt(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := newFakeClock(start)
	l := newTestLimiter(60, time.Minute, clock)

	l.Allow("k")
	_, _, resetAt := l.Status("k")

	// One token deficit at 1 token/sec refills in ~1s.
	if got := resetAt.Sub(start); got < 900*time.Millisecond || got > 1100*time.Millisecond {
		t.Fatalf("expected reset in ~1s, got %v", got)
	}
}

// newTestCooldown creates a Cooldown wired to the given fake clock.
func newTestCooldown(period time.Duration, clock *fakeClock) *Cooldown {
	c := NewCooldown(period)
	c.now = clock.Now
	return c
}

func TestCooldown_ReadyByDefault(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCooldown(60*time.Second, clock)

	if !c.Ready("a@example.com") {
		t.Fatal("unknown key should be ready")
	}
	if got := c.Remaining("a@example.com"); got != 0 {
		t.Fatalf("expected 0 remaining, got %d", got)
	}
}

func TestCooldown_CountsDown(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCooldown(60*time.Second, clock)

	c.Start("a@example.com")
	if c.Ready("a@example.com") {
		t.Fatal("should not be ready immediately after start")
	}
	if got := c.Remaining("a@example.com"); got != 60 {
		t.Fatalf("expected 60 seconds remaining, got %d", got)
	}

	// Decrements one second per second of wall time.
	clock.Advance(1 * time.Second)
	if got := c.Remaining("a@example.com"); got != 59 {
		t.Fatalf("expected 59 seconds remaining, got %d", got)
	}

	clock.Advance(58 * time.Second)
	if got := c.Remaining("a@example.com"); got != 1 {
		t.Fatalf("expected 1 second remaining, got %d", got)
	}

	clock.Advance(1 * time.Second)
	if !c.Ready("a@example.com") {
		t.Fatal("should be ready after the full period")
	}
}

func TestCooldown_RemainingRoundsUp(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCooldown(60*time.Second, clock)

	c.Start("k")
	clock.Advance(500 * time.Millisecond)
	if got := c.Remaining("k"); got != 60 {
		t.Fatalf("expected partial second to round up to 60, got %d", got)
	}
}

func TestCooldown_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCooldown(60*time.Second, clock)

	c.Start("a@example.com")
	if !c.Ready("b@example.com") {
		t.Fatal("other keys should be unaffected")
	}
}

func TestCooldown_Clear(t *testing.T) {
	clock := newFakeClock(time.Now())
	c := newTestCooldown(60*time.Second, clock)

	c.Start("k")
	c.Clear("k")
	if !c.Ready("k") {
		t.Fatal("cleared key should be ready")
	}
}
