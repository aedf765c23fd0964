package countstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisCountPrefix string = "posbon/"

// KEYS[1]=counter; ARGV[1]=ttl in ms
// the expiry is also repaired when an earlier writer left the key without one
var luaIncrWithExpiry = redis.NewScript(`
  local v = redis.call('INCR', KEYS[1])
  if v == 1 or redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
  end
  return v
`)

type RedisCountStore struct {
	Client *redis.Client
}

func NewRedisCountStore(redisURL string) (*RedisCountStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisCountStore{Client: rdb}, nil
}

func (s *RedisCountStore) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return luaIncrWithExpiry.Run(ctx, s.Client, []string{redisCountPrefix + key}, ttl.Milliseconds()).Int64()
}

func (s *RedisCountStore) Close() error {
	return s.Client.Close()
}
