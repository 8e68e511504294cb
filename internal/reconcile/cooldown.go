package reconcile

import (
	"sync"
	"time"

	"github.com/kquest/marketplace-core/internal/adapter"
)

// CooldownTracker throttles per-address reconciliation. Implementations
// must be safe for concurrent use.
//
//go:generate mockgen -source=cooldown.go -destination=../mocks/cooldown.go -package=mocks -mock_names=CooldownTracker=MockCooldownTracker
type CooldownTracker interface {
	// Remaining returns how long until the address may sync again, zero when allowed
	Remaining(address string) time.Duration
	// Touch records a completed sync for the address
	Touch(address string)
	// Cleanup evicts entries older than the retention window
	Cleanup()
}

type memoryCooldown struct {
	mu        sync.Mutex
	lastSync  map[string]time.Time
	clock     adapter.Clock
	window    time.Duration
	retention time.Duration
}

// NewCooldownTracker creates an in-memory tracker with the given sync
// window and eviction retention.
func NewCooldownTracker(clock adapter.Clock, window, retention time.Duration) CooldownTracker {
	if window <= 0 {
		window = 5 * time.Minute
	}
	if retention <= 0 {
		retention = time.Hour
	}
	return &memoryCooldown{
		lastSync:  make(map[string]time.Time),
		clock:     clock,
		window:    window,
		retention: retention,
	}
}

// Remaining returns how long until the address may sync again, zero when allowed
func (c *memoryCooldown) Remaining(address string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.lastSync[address]
	if !ok {
		return 0
	}

	elapsed := c.clock.Since(last)
	if elapsed >= c.window {
		return 0
	}
	return c.window - elapsed
}

// Touch records a completed sync for the address
func (c *memoryCooldown) Touch(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSync[address] = c.clock.Now()
}

// Cleanup evicts entries older than the retention window
func (c *memoryCooldown) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for address, last := range c.lastSync {
		if c.clock.Since(last) > c.retention {
			delete(c.lastSync, address)
		}
	}
}
