// Package cache редисовый lookaside кеш горячего пути редиректа.
// Кеш необязателен: при нулевом ресивере все операции no-op, промах
// всегда уводит в базу.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResolvedLink закешированный результат успешного разрешения редиректа.
// Кладется только когда ссылка прошла все проверки политики.
type ResolvedLink struct {
	LinkID      uint   `json:"linkID"`
	Destination string `json:"destination"`
}

// ErrMiss промах кеша.
var ErrMiss = redis.Nil

const keyPrefix = "resolved:"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// ConnectRedis подключается к redis и проверяет соединение.
func ConnectRedis(addr, password string, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &Cache{rdb: rdb, ttl: ttl}, nil
}

func (c *Cache) Get(ctx context.Context, shortID string) (*ResolvedLink, error) {
	if c == nil {
		return nil, ErrMiss
	}
	raw, err := c.rdb.Get(ctx, keyPrefix+shortID).Bytes()
	if err != nil {
		return nil, err
	}
	var resolved ResolvedLink
	if unmarshalErr := json.Unmarshal(raw, &resolved); unmarshalErr != nil {
		return nil, unmarshalErr
	}
	return &resolved, nil
}

func (c *Cache) Set(ctx context.Context, shortID string, resolved ResolvedLink) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(resolved)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyPrefix+shortID, raw, c.ttl).Err()
}

// Delete инвалидирует запись. Зовется при любой мутации ссылки.
func (c *Cache) Delete(ctx context.Context, shortID string) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, keyPrefix+shortID).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
