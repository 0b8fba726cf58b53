package chat_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/clarus/internal/chat"
)

func entry(role, content string, at time.Time) chat.Entry {
	return chat.Entry{
		ID:        uuid.Must(uuid.NewV7()),
		Role:      role,
		Content:   content,
		Mode:      chat.ModeSingle,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	}
}

func runTranscriptContract(t *testing.T, factory func(t *testing.T) chat.Transcript) {
	t.Run("empty", func(t *testing.T) {
		tr := factory(t)

		entries, err := tr.List(context.Background(), 10)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("append and list oldest first", func(t *testing.T) {
		tr := factory(t)
		ctx := context.Background()
		base := time.Now()

		var all []chat.Entry
		for i := range 3 {
			q := entry("user", fmt.Sprintf("q%d", i), base.Add(time.Duration(2*i)*time.Second))
			a := entry("assistant", fmt.Sprintf("a%d", i), base.Add(time.Duration(2*i+1)*time.Second))
			require.NoError(t, tr.Append(ctx, q, a))
			all = append(all, q, a)
		}

		entries, err := tr.List(ctx, 100)
		require.NoError(t, err)
		require.Len(t, entries, 6)
		for i := range all {
			assert.Equal(t, all[i].ID, entries[i].ID)
			assert.Equal(t, all[i].Content, entries[i].Content)
			assert.True(t, all[i].CreatedAt.Equal(entries[i].CreatedAt))
		}

		latest, err := tr.List(ctx, 3)
		require.NoError(t, err)
		require.Len(t, latest, 3)
		assert.Equal(t, "a1", latest[0].Content)
		assert.Equal(t, "q2", latest[1].Content)
		assert.Equal(t, "a2", latest[2].Content)
	})
}

func TestMemoryTranscript(t *testing.T) {
	runTranscriptContract(t, func(t *testing.T) chat.Transcript {
		return chat.NewMemoryTranscript()
	})
}

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisTranscript(t *testing.T) {
	runTranscriptContract(t, func(t *testing.T) chat.Transcript {
		_, client := newRedisClient(t)
		return chat.NewRedisTranscript(client, "test", 0)
	})
}

func TestRedisTranscript_TrimsToMax(t *testing.T) {
	mr, client := newRedisClient(t)
	tr := chat.NewRedisTranscript(client, "", 4)
	ctx := context.Background()
	now := time.Now()

	for i := range 3 {
		require.NoError(t, tr.Append(ctx,
			entry("user", fmt.Sprintf("q%d", i), now),
			entry("assistant", fmt.Sprintf("a%d", i), now),
		))
	}

	values, err := mr.List("clarus:chat:messages")
	require.NoError(t, err)
	assert.Len(t, values, 4)

	entries, err := tr.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "q1", entries[0].Content)
	assert.Equal(t, "a2", entries[3].Content)
}
