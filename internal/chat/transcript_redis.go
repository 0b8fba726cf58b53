package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisTranscript struct {
	client redis.UniversalClient
	key    string
	max    int64
}

// NewRedisTranscript returns a Transcript kept as a JSON list under
// "<prefix>:chat:messages", trimmed to the newest maxEntries entries when maxEntries > 0.
func NewRedisTranscript(client redis.UniversalClient, prefix string, maxEntries int) Transcript {
	if prefix == "" {
		prefix = "clarus"
	}
	return &redisTranscript{
		client: client,
		key:    prefix + ":chat:messages",
		max:    int64(maxEntries),
	}
}

func (r *redisTranscript) Append(ctx context.Context, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, len(entries))
	for i, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry: %w", err)
		}
		values[i] = data
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, values...)
		if r.max > 0 {
			pipe.LTrim(ctx, r.key, -r.max, -1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis append failed: %w", err)
	}
	return nil
}

func (r *redisTranscript) List(ctx context.Context, limit int) ([]Entry, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	values, err := r.client.LRange(ctx, r.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis range failed: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for _, v := range values {
		var e Entry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
