// Package cache Redis-кеш ответов Availability Resolver
// Спецификация допускает отстающие чтения доступности: admission никогда
// не опирается на кеш и всегда перечитывает остаток внутри своей транзакции
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AvailabilityCache кеш доступности поверх Redis
// При client == nil кеш прозрачно выключен: Get всегда промахивается,
// Set и Invalidate ничего не делают
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// New создает кеш доступности. client может быть nil
func New(client *redis.Client, ttl time.Duration, log Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// NewClient создает Redis клиент и проверяет соединение
// Возвращает nil при недоступном Redis - сервис деградирует до работы без кеша
func NewClient(addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

// Key ключ кеша доступности для (tenant, activity, date)
func Key(tenantID, activityID int64, date time.Time) string {
	return fmt.Sprintf("availability:%d:%d:%s", tenantID, activityID, date.Format("2006-01-02"))
}

// Get читает закешированное значение в dest. Возвращает false при промахе
func (c *AvailabilityCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("cache: get %s failed: %v", key, err)
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache: unmarshal %s failed: %v", key, err)
		return false
	}

	return true
}

// Set кеширует значение с настроенным TTL
func (c *AvailabilityCache) Set(ctx context.Context, key string, value interface{}) {
	if c.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache: marshal %s failed: %v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("cache: set %s failed: %v", key, err)
	}
}

// Invalidate удаляет ключи кеша
// Вызывается после каждой совершенной мутации леджера (admission, отмена,
// изменение количества, правка переопределений)
func (c *AvailabilityCache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache: invalidate failed: %v", err)
	}
}
