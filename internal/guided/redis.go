package guided

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// RedisOption configures the Redis store.
type RedisOption func(*redisStore)

// WithTTL expires sessions ttl after creation. Zero keeps sessions forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *redisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix. Default is "clarus".
func WithPrefix(prefix string) RedisOption {
	return func(s *redisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore returns a Store keeping each session as a JSON string and an
// index sorted set scored by creation time. Patches run in a WATCH/MULTI
// transaction so a concurrent writer fails with ErrVersionMismatch.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) Store {
	s := &redisStore{
		client: client,
		prefix: "clarus",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *redisStore) sessionKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:guided:session:%s", s.prefix, id)
}

func (s *redisStore) indexKey() string {
	return s.prefix + ":guided:sessions"
}

func (s *redisStore) Create(ctx context.Context, sess *Session) (uuid.UUID, error) {
	id, err := newID()
	if err != nil {
		return uuid.Nil, err
	}

	stored := sess.Clone()
	stored.ID = id
	normalize(&stored)

	data, err := json.Marshal(stored)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal session: %w", err)
	}

	key := s.sessionKey(id)
	created, err := s.client.SetNX(ctx, key, data, s.ttl).Result()
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis set failed: %w", err)
	}
	if !created {
		return uuid.Nil, ErrDuplicate
	}

	score := float64(stored.CreatedAt.UnixMicro())
	if err := s.client.ZAdd(ctx, s.indexKey(), redis.Z{Score: score, Member: id.String()}).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("redis index failed: %w", err)
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return decodeSession(data)
}

func (s *redisStore) Patch(ctx context.Context, id uuid.UUID, version int, p Patch) error {
	key := s.sessionKey(id)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("redis get failed: %w", err)
		}

		sess, err := decodeSession(data)
		if err != nil {
			return err
		}
		if sess.Version != version {
			return ErrVersionMismatch
		}

		sess.Apply(p)
		updated, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionMismatch
	}
	return err
}

func (s *redisStore) List(ctx context.Context) ([]Session, error) {
	members, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis index read failed: %w", err)
	}

	sessions := []Session{}
	if len(members) == 0 {
		return sessions, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = fmt.Sprintf("%s:guided:session:%s", s.prefix, m)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget failed: %w", err)
	}

	var expired []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, members[i])
			continue
		}
		sess, err := decodeSession([]byte(raw))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}

	if len(expired) > 0 {
		s.client.ZRem(ctx, s.indexKey(), expired...)
	}
	return sessions, nil
}

func decodeSession(data []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	normalize(&sess)
	return &sess, nil
}
