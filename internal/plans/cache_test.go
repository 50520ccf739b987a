package plans_test

import (
	"testing"

	"github.com/NadavFredi/diet-neta-sub003/internal/plans"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	cache := plans.NewCache()

	_, ok := cache.Get(1)
	assert.False(t, ok)

	stored := randomPlan(1)
	cache.Set(&stored)

	got, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, stored.ClientName, got.ClientName)
	assert.Equal(t, stored.Targets, got.Targets)
	assert.Equal(t, stored.ManualFlags, got.ManualFlags)

	cache.Invalidate(1)
	_, ok = cache.Get(1)
	assert.False(t, ok)

	// invalidating a missing entry is a no-op
	cache.Invalidate(99)
}
