package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bilal-alaabadi/arkan-b/models"
)

// RedisPendingStore is the Redis-backed PendingOrderStore for deployments
// where pending orders must survive a process restart. Entries expire via the
// key TTL.
type RedisPendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisPendingStore creates a RedisPendingStore.
func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	return &RedisPendingStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisPendingStore) key(orderReference string) string {
	return fmt.Sprintf("pending:order:%s", orderReference)
}

func (r *RedisPendingStore) Put(ctx context.Context, order *models.PendingOrder) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(order.OrderReference), data, r.ttl).Err()
}

func (r *RedisPendingStore) Get(ctx context.Context, orderReference string) (*models.PendingOrder, error) {
	data, err := r.client.Get(ctx, r.key(orderReference)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var order models.PendingOrder
	if err := json.Unmarshal([]byte(data), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *RedisPendingStore) Delete(ctx context.Context, orderReference string) error {
	return r.client.Del(ctx, r.key(orderReference)).Err()
}
