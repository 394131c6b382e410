package ratelimit

import (
	"sync"
	"time"
)

// Cooldown enforces a fixed quiet period per key. It backs the resend
// countdown in the onboarding flow: after a code is dispatched the same email
// cannot trigger another dispatch until the period elapses. The countdown is
// an affordance for the UI; server-side request limits remain the authority
// on abuse.
type Cooldown struct {
	mu     sync.Mutex
	period time.Duration
	until  map[string]time.Time
	now    func() time.Time // injectable clock for testing
}

// NewCooldown creates a Cooldown with the given quiet period.
func NewCooldown(period time.Duration) *Cooldown {
	return &Cooldown{
		period: period,
		until:  make(map[string]time.Time),
		now:    time.Now,
	}
}

// Start begins the quiet period for key, replacing any prior one.
func (c *Cooldown) Start(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.until[key] = c.now().Add(c.period)
}

// Ready reports whether the quiet period for key has elapsed.
func (c *Cooldown) Ready(key string) bool {
	return c.Remaining(key) == 0
}

// Remaining returns the whole seconds left in the quiet period for key,
// rounded up, or 0 when the key is ready. Expired entries are pruned.
func (c *Cooldown) Remaining(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := c.until[key]
	if !ok {
		return 0
	}
	left := deadline.Sub(c.now())
	if left <= 0 {
		delete(c.until, key)
		return 0
	}
	secs := int(left / time.Second)
	if left%time.Second != 0 {
		secs++
	}
	return secs
}

// Clear removes the quiet period for key, making it immediately ready.
func (c *Cooldown) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.until, key)
}
