package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dialog struct {
	Step  string `json:"step"`
	Event string `json:"event"`
}

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(client.Close)
	return client, mr
}

func TestState_RoundTrip(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.SaveState(ctx, 42, dialog{Step: "end_time", Event: "Prom"}))
	assert.True(t, mr.Exists("dialog:42"))
	assert.Equal(t, time.Hour, mr.TTL("dialog:42"))

	var got dialog
	require.NoError(t, client.GetState(ctx, 42, &got))
	assert.Equal(t, dialog{Step: "end_time", Event: "Prom"}, got)

	require.NoError(t, client.ClearState(ctx, 42))
	assert.ErrorIs(t, client.GetState(ctx, 42, &got), ErrNil)
}

func TestState_InvalidJSON(t *testing.T) {
	client, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("dialog:7", "{broken"))

	var got dialog
	err := client.GetState(context.Background(), 7, &got)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNil)
}

func TestCounters(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	n, err := client.CountHit(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, time.Minute, mr.TTL("hits"))

	mr.FastForward(30 * time.Second)
	n, err = client.CountHit(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 30*time.Second, mr.TTL("hits"))

	mr.FastForward(31 * time.Second)
	n, err = client.CountHit(ctx, "hits", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, client.Set(ctx, "k", []byte("v"), 0))
	data, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(data))

	require.NoError(t, client.Del(ctx, "k"))
	_, err = client.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNil)
}
