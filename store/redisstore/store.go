package redisstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/redis/go-redis/v9"
	ticketreg "github.com/ssoforge/ticketreg"
)

const defaultPrefix = "trg"

const scanBatchSize = 1000

// Store is the Redis-backed reference [ticketreg.TicketStore]. Tickets are
// serialized into a single value per key; single-key atomicity comes from
// Redis itself. Enumeration is SCAN-based and therefore a point-in-time
// approximation, which is all the registry's derived queries require.
type Store struct {
	redis      redis.UniversalClient
	prefix     string
	serializer ticketreg.Serializer
	ttl        time.Duration
}

// Option configures a [Store].
type Option func(*Store)

// WithPrefix sets the Redis key namespace. Defaults to "trg".
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithSerializer sets the value codec. Defaults to
// [ticketreg.JSONSerializer].
func WithSerializer(serializer ticketreg.Serializer) Option {
	return func(s *Store) { s.serializer = serializer }
}

// WithTTL sets a fixed Redis TTL applied to every entry as a garbage
// collection backstop. The registry's lazy expiration remains authoritative;
// the TTL only bounds how long dead entries linger. Zero disables it.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New creates a [Store] backed by the given Redis client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		redis:      client,
		prefix:     defaultPrefix,
		serializer: ticketreg.NewJSONSerializer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

// Put implements [ticketreg.TicketStore].
//
//	Performance: 1 Redis SET.
func (s *Store) Put(ctx context.Context, t ticketreg.Ticket) error {
	data, err := s.serializer.Serialize(t)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(t.ID()), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	return nil
}

// Get implements [ticketreg.TicketStore].
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, id string) (ticketreg.Ticket, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ticketreg.ErrTicketNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	return s.serializer.Deserialize(data)
}

// DeleteSingle implements [ticketreg.TicketStore]. Deleting an absent key
// removes nothing and is not an error.
//
//	Performance: 1 Redis DEL.
func (s *Store) DeleteSingle(ctx context.Context, id string) (int, error) {
	removed, err := s.redis.Del(ctx, s.key(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	return int(removed), nil
}

// Stream implements [ticketreg.TicketStore]. Keys are discovered with SCAN
// and fetched in pipelined batches; entries deleted between discovery and
// fetch are skipped.
func (s *Store) Stream(ctx context.Context) (iter.Seq2[ticketreg.Ticket, error], error) {
	return func(yield func(ticketreg.Ticket, error) bool) {
		pattern := s.prefix + ":*"
		var cursor uint64
		for {
			keys, next, err := s.redis.Scan(ctx, cursor, pattern, scanBatchSize).Result()
			if err != nil {
				yield(nil, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err))
				return
			}
			if !s.yieldBatch(ctx, keys, yield) {
				return
			}
			cursor = next
			if cursor == 0 {
				return
			}
		}
	}, nil
}

func (s *Store) yieldBatch(ctx context.Context, keys []string, yield func(ticketreg.Ticket, error) bool) bool {
	if len(keys) == 0 {
		return true
	}
	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return yield(nil, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err))
	}
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if !yield(nil, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)) {
				return false
			}
			continue
		}
		t, err := s.serializer.Deserialize(data)
		if err != nil {
			if !yield(nil, err) {
				return false
			}
			continue
		}
		if !yield(t, nil) {
			return false
		}
	}
	return true
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	return time.Since(start), nil
}
