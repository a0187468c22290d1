package proxy

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const (
	redisCachePrefix = "shellcache:"
	redisCacheNames  = "shellcache:names"
)

// RedisCacheStore persists named caches in Redis so every proxy instance
// shares the same shell snapshot.
//
// Layout:
//
//	shellcache:names             SET of cache names
//	shellcache:<name>:keys       SET of keys in that cache
//	shellcache:<name>:<key>      JSON CachedResponse
type RedisCacheStore struct {
	rdb *redis.Client
}

func NewRedisCacheStore(rdb *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{rdb: rdb}
}

func entryKey(cache, key string) string { return redisCachePrefix + cache + ":" + key }
func keysKey(cache string) string       { return redisCachePrefix + cache + ":keys" }

func (s *RedisCacheStore) Get(ctx context.Context, cache, key string) (*CachedResponse, bool, error) {
	data, err := s.rdb.Get(ctx, entryKey(cache, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp CachedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

func (s *RedisCacheStore) Put(ctx context.Context, cache, key string, resp *CachedResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, entryKey(cache, key), data, 0)
	pipe.SAdd(ctx, keysKey(cache), key)
	pipe.SAdd(ctx, redisCacheNames, cache)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisCacheStore) DeleteCache(ctx context.Context, cache string) error {
	keys, err := s.rdb.SMembers(ctx, keysKey(cache)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, entryKey(cache, key))
	}
	pipe.Del(ctx, keysKey(cache))
	pipe.SRem(ctx, redisCacheNames, cache)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisCacheStore) ListCaches(ctx context.Context) ([]string, error) {
	names, err := s.rdb.SMembers(ctx, redisCacheNames).Result()
	if err == redis.Nil {
		return nil, nil
	}
	return names, err
}
