package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
)

func TestRedis_GetSet(t *testing.T) {
	srv := miniredis.RunT(t)
	r := NewRedis(srv.Addr())
	ctx := context.Background()

	_, ok := r.Get(ctx, "missing")
	assert.False(t, ok)

	assert.NoError(t, r.Set(ctx, "k", "v", time.Hour))

	got, ok := r.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	srv.FastForward(2 * time.Hour)

	_, ok = r.Get(ctx, "k")
	assert.False(t, ok, "entry must expire with its TTL")
}
