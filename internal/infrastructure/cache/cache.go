package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-registry/internal/domain/entity"
)

func userKey(id int) string {
	return "user:" + strconv.Itoa(id)
}

// RedisUserCache stores users as JSON under user:<id>.
type RedisUserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisUserCache(rdb *redis.Client, ttl time.Duration) *RedisUserCache {
	return &RedisUserCache{rdb: rdb, ttl: ttl}
}

func (c *RedisUserCache) Get(ctx context.Context, id int) (*entity.User, bool, error) {
	res, err := c.rdb.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var u entity.User
	if err := json.Unmarshal(res, &u); err != nil {
		return nil, false, err
	}
	return &u, true, nil
}

func (c *RedisUserCache) Set(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, userKey(u.ID), b, c.ttl).Err()
}

func (c *RedisUserCache) Delete(ctx context.Context, id int) error {
	return c.rdb.Del(ctx, userKey(id)).Err()
}

// LRUUserCache is the in-process fallback used when Redis is not configured.
type LRUUserCache struct {
	lru *expirable.LRU[int, *entity.User]
}

func NewLRUUserCache(size int, ttl time.Duration) *LRUUserCache {
	if size <= 0 {
		size = 1024
	}
	return &LRUUserCache{lru: expirable.NewLRU[int, *entity.User](size, nil, ttl)}
}

func (c *LRUUserCache) Get(_ context.Context, id int) (*entity.User, bool, error) {
	u, ok := c.lru.Get(id)
	if !ok {
		return nil, false, nil
	}
	return u.Clone(), true, nil
}

func (c *LRUUserCache) Set(_ context.Context, u *entity.User) error {
	c.lru.Add(u.ID, u.Clone())
	return nil
}

func (c *LRUUserCache) Delete(_ context.Context, id int) error {
	c.lru.Remove(id)
	return nil
}
