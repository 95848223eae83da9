// internal/cache/cache_test.go
package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMockCache()

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Gets)
	assert.Equal(t, 0, m.Hits)

	require.NoError(t, m.Set(ctx, "k", []byte(`{"score":42}`)))
	val, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, `{"score":42}`, string(val))
	assert.Equal(t, 1, m.Hits)
	assert.Equal(t, 1, m.Sets)
}

func TestMockCache_CopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMockCache()

	src := []byte("original")
	require.NoError(t, m.Set(ctx, "k", src))
	src[0] = 'X'

	val, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "original", string(val), "cache must not alias the caller's slice")
}

func TestNoop_NeverStores(t *testing.T) {
	ctx := context.Background()
	var c VerdictCache = Noop{}

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
