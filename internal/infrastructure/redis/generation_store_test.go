package redisstore_test

import (
	"context"
	"testing"
	"time"

	"exchange-desk/internal/application"
	redisstore "exchange-desk/internal/infrastructure/redis"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.New(client, time.Hour), mr
}

func TestNextAndCurrent(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	cur, err := store.Current(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(0), cur)

	n, err := store.Next(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	n, err = store.Next(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	cur, err = store.Current(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, int64(2), cur)
	require.Equal(t, time.Hour, mr.TTL("quote_gen:s1"))
}

func TestSequencerOverRedis(t *testing.T) {
	store, _ := newStore(t)
	seq := application.NewSequencer(store)
	ctx := context.Background()

	err := seq.Run(ctx, "s1", func(ctx context.Context) error {
		return seq.Run(ctx, "s1", func(context.Context) error { return nil })
	})
	require.ErrorIs(t, err, application.ErrStale)
}
