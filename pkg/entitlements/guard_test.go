package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeGuardBlocksWhileHeld(t *testing.T) {
	clock := newFakeClock()
	guard := newComputeGuard(10*time.Second, clock.Now)

	assert.True(t, guard.tryAcquire("alice"))
	assert.False(t, guard.tryAcquire("alice"), "a live computation refuses a second acquire")
	assert.True(t, guard.tryAcquire("bob"), "users do not contend with each other")

	guard.release("alice")
	assert.True(t, guard.tryAcquire("alice"))
}

func TestComputeGuardReclaimsAfterTimeout(t *testing.T) {
	clock := newFakeClock()
	guard := newComputeGuard(10*time.Second, clock.Now)

	assert.True(t, guard.tryAcquire("alice"))

	clock.Advance(9 * time.Second)
	assert.False(t, guard.tryAcquire("alice"), "guard holds below the timeout")

	clock.Advance(time.Second)
	assert.True(t, guard.tryAcquire("alice"), "a stuck computation is reclaimed after the timeout")
}

func TestComputeGuardClear(t *testing.T) {
	clock := newFakeClock()
	guard := newComputeGuard(10*time.Second, clock.Now)

	assert.True(t, guard.tryAcquire("alice"))
	guard.clear()
	assert.True(t, guard.tryAcquire("alice"))
}
