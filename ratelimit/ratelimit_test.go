package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPerClientBurst(t *testing.T) {
	l := PerClientLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within capacity", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"), "capacity exhausted")
}

func TestPerClientKeysAreIndependent(t *testing.T) {
	l := PerClientLimiter(1, time.Minute)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "another client is not affected")
}

func TestUnlimited(t *testing.T) {
	l := Unlimited{}
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("anyone"))
	}
}
