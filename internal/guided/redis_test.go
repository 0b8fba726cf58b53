package guided_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/guided"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) guided.Store {
		_, client := newRedisClient(t)
		return guided.NewRedisStore(client, guided.WithPrefix("test"))
	})
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, client := newRedisClient(t)
	store := guided.NewRedisStore(client, guided.WithPrefix("tenant-a"))

	id, err := store.Create(context.Background(), newSession("renewal", time.Now()))
	require.NoError(t, err)

	assert.True(t, mr.Exists("tenant-a:guided:session:"+id.String()))
	members, err := mr.ZMembers("tenant-a:guided:sessions")
	require.NoError(t, err)
	assert.Equal(t, []string{id.String()}, members)
}

func TestRedisStore_TTLExpiryPrunesIndex(t *testing.T) {
	mr, client := newRedisClient(t)
	store := guided.NewRedisStore(client, guided.WithTTL(time.Minute))
	ctx := context.Background()

	id, err := store.Create(ctx, newSession("renewal", time.Now()))
	require.NoError(t, err)

	next := "second"
	require.NoError(t, store.Patch(ctx, id, 1, guided.Patch{CurrentStepID: &next, UpdatedAt: time.Now()}))
	assert.Equal(t, time.Minute, mr.TTL("clarus:guided:session:"+id.String()))

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, guided.ErrNotFound)

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	members, _ := mr.ZMembers("clarus:guided:sessions")
	assert.Empty(t, members)
}
