package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jmylchreest/toasty/internal/model"
	"github.com/jmylchreest/toasty/internal/toast"
)

// Redis connection errors.
var (
	ErrEmptyRedisURL    = errors.New("empty redis connection URL")
	ErrInvalidRedisURL  = errors.New("failed to parse redis connection URL")
	ErrRedisNotReady    = errors.New("redis did not become ready within the given time period")
	ErrRedisHealthcheck = errors.New("redis healthcheck failed")
)

const (
	defaultRedisKeyPrefix  = "toasty:flash:"
	defaultRedisRetryDelay = 500 * time.Millisecond
)

// RedisConfig describes how to reach Redis.
type RedisConfig struct {
	URL            string        // redis://[:password@]host:port/db
	RetryAttempts  int           // connection attempts before giving up
	RetryInterval  time.Duration // delay between attempts
	ConnectTimeout time.Duration // overall deadline for Connect
	KeyPrefix      string        // prepended to every flash key
	TTL            time.Duration // zero means entries never expire
}

// ConnectRedis parses cfg.URL and pings the server until it answers or the
// attempts run out.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyRedisURL
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrInvalidRedisURL, err)
	}

	attempts := max(cfg.RetryAttempts, 1)
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = defaultRedisRetryDelay
	}
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(interval):
		}
	}
	return nil, errors.Join(ErrRedisNotReady, lastErr)
}

// RedisStore keeps each flash as a JSON string under prefix+key.
type RedisStore struct {
	db     redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(db redis.UniversalClient, cfg RedisConfig) *RedisStore {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	return &RedisStore{db: db, prefix: prefix, ttl: cfg.TTL}
}

// Key returns the Redis key used for a flash key.
func (s *RedisStore) Key(key string) string {
	return s.prefix + key
}

// Put stores e under key, replacing any previous entry.
func (s *RedisStore) Put(ctx context.Context, key string, e toast.FlashEntry) error {
	if key == "" {
		return ErrEmptyKey
	}
	data, err := json.Marshal(toRecord(e, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to encode flash: %w", err)
	}
	return s.db.Set(ctx, s.Key(key), data, s.ttl).Err()
}

// Take removes and returns the entry under key with a single GETDEL, so two
// concurrent takers never both receive it.
func (s *RedisStore) Take(ctx context.Context, key string) (toast.FlashEntry, bool, error) {
	if key == "" {
		return toast.FlashEntry{}, false, ErrEmptyKey
	}
	data, err := s.db.GetDel(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return toast.FlashEntry{}, false, nil
	}
	if err != nil {
		return toast.FlashEntry{}, false, err
	}

	var r model.Flash
	if err := json.Unmarshal(data, &r); err != nil {
		return toast.FlashEntry{}, false, fmt.Errorf("failed to decode flash: %w", err)
	}
	return fromRecord(r), true, nil
}

// Healthcheck pings the server.
func (s *RedisStore) Healthcheck(ctx context.Context) error {
	if err := s.db.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrRedisHealthcheck, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.db.Close()
}
