package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisCommander struct {
	getVal  string
	getErr  error
	setKey  string
	setVal  interface{}
	setTTL  time.Duration
	setErr  error
	delKeys []string
	delErr  error
}

func (m *mockRedisCommander) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if m.getErr != nil {
		cmd.SetErr(m.getErr)
		return cmd
	}
	cmd.SetVal(m.getVal)
	return cmd
}

func (m *mockRedisCommander) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.setKey = key
	m.setVal = value
	m.setTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisCommander) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.delKeys = append(m.delKeys, keys...)
	cmd := redis.NewIntCmd(ctx)
	if m.delErr != nil {
		cmd.SetErr(m.delErr)
		return cmd
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func TestRedisSessionCacheGet(t *testing.T) {
	t.Run("hit", func(t *testing.T) {
		c := &redisSessionCache{
			client: &mockRedisCommander{getVal: `["2024-01-01","2024-01-02"]`},
			ttl:    time.Minute,
			key:    "chat:sessions",
		}
		sessions, ok := c.Get(context.Background())
		if !ok {
			t.Fatalf("expected cache hit")
		}
		if len(sessions) != 2 || sessions[0] != "2024-01-01" {
			t.Fatalf("unexpected sessions: %+v", sessions)
		}
	})

	t.Run("miss on redis error", func(t *testing.T) {
		c := &redisSessionCache{
			client: &mockRedisCommander{getErr: redis.Nil},
			ttl:    time.Minute,
			key:    "chat:sessions",
		}
		if _, ok := c.Get(context.Background()); ok {
			t.Fatalf("expected miss on redis error")
		}
	})

	t.Run("miss on corrupt payload", func(t *testing.T) {
		c := &redisSessionCache{
			client: &mockRedisCommander{getVal: "{no es json"},
			ttl:    time.Minute,
			key:    "chat:sessions",
		}
		if _, ok := c.Get(context.Background()); ok {
			t.Fatalf("expected miss on corrupt payload")
		}
	})

	t.Run("nil cache is a miss", func(t *testing.T) {
		var c *redisSessionCache
		if _, ok := c.Get(context.Background()); ok {
			t.Fatalf("expected miss for nil cache")
		}
	})
}

func TestRedisSessionCacheSet(t *testing.T) {
	mock := &mockRedisCommander{}
	c := &redisSessionCache{client: mock, ttl: 5 * time.Minute, key: "chat:sessions"}

	if err := c.Set(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.setKey != "chat:sessions" {
		t.Fatalf("unexpected key: %q", mock.setKey)
	}
	if mock.setTTL != 5*time.Minute {
		t.Fatalf("unexpected ttl: %v", mock.setTTL)
	}
	if mock.setVal != `["a","b"]` {
		t.Fatalf("unexpected payload: %v", mock.setVal)
	}
}

func TestRedisSessionCacheSet_PropagatesError(t *testing.T) {
	setErr := errors.New("redis down")
	c := &redisSessionCache{client: &mockRedisCommander{setErr: setErr}, ttl: time.Minute, key: "k"}
	if err := c.Set(context.Background(), []string{"a"}); !errors.Is(err, setErr) {
		t.Fatalf("expected set error, got %v", err)
	}
}

func TestRedisSessionCacheInvalidate(t *testing.T) {
	mock := &mockRedisCommander{}
	c := &redisSessionCache{client: mock, ttl: time.Minute, key: "chat:sessions"}

	if err := c.Invalidate(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(mock.delKeys) != 1 || mock.delKeys[0] != "chat:sessions" {
		t.Fatalf("unexpected deleted keys: %+v", mock.delKeys)
	}
}

func TestNewRedisSessionCache_NilClient(t *testing.T) {
	if c := NewRedisSessionCache(nil, time.Minute); c != nil {
		t.Fatalf("expected nil cache without client")
	}
}
