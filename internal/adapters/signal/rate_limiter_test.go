package signal

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestConnectRateLimiter_Window(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewConnectRateLimiter(2, time.Minute)
	rl.now = clock.now

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "third attempt inside the window")
	assert.True(t, rl.Allow("b"), "keys are independent")

	clock.advance(30 * time.Second)
	assert.False(t, rl.Allow("a"))

	clock.advance(31 * time.Second)
	assert.True(t, rl.Allow("a"), "old attempts slid out")
}

func TestConnectRateLimiter_Disabled(t *testing.T) {
	rl := NewConnectRateLimiter(0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, rl.Allow("a"))
	}

	var nilLimiter *ConnectRateLimiter
	assert.True(t, nilLimiter.Allow("a"))
}

func TestConnectRateLimiter_SweepsStaleKeys(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rl := NewConnectRateLimiter(1, time.Second)
	rl.now = clock.now

	for i := 0; i < sweepEvery-1; i++ {
		rl.Allow(fmt.Sprintf("k%d", i))
	}
	assert.Len(t, rl.history, sweepEvery-1)

	clock.advance(2 * time.Second)
	rl.Allow("fresh")
	assert.Len(t, rl.history, 1)
}
