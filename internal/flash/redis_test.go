package flash

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRedis_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RedisConfig
		wantErr error
	}{
		{
			name:    "empty url",
			cfg:     RedisConfig{},
			wantErr: ErrEmptyRedisURL,
		},
		{
			name:    "bad scheme",
			cfg:     RedisConfig{URL: "http://localhost:6379"},
			wantErr: ErrInvalidRedisURL,
		},
		{
			name: "unreachable",
			cfg: RedisConfig{
				URL:            "redis://127.0.0.1:1/0",
				RetryAttempts:  2,
				RetryInterval:  10 * time.Millisecond,
				ConnectTimeout: 2 * time.Second,
			},
			wantErr: ErrRedisNotReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := ConnectRedis(context.Background(), tt.cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRedisStore_Key(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	s := NewRedisStore(client, RedisConfig{})
	assert.Equal(t, "toasty:flash:deploy", s.Key("deploy"))

	s = NewRedisStore(client, RedisConfig{KeyPrefix: "app:"})
	assert.Equal(t, "app:deploy", s.Key("deploy"))
}

func TestRedisStore_EmptyKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	s := NewRedisStore(client, RedisConfig{})

	_, _, err := s.Take(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestRedisStore_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	s := NewRedisStore(client, RedisConfig{})

	assert.ErrorIs(t, s.Healthcheck(context.Background()), ErrRedisHealthcheck)
}
