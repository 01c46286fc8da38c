package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingTTL            = time.Minute
	pendingValue          = "pending"
)

// IdempotencyStore maps client-supplied Idempotency-Key values to the id of
// the customer the first request created.
// Key format: idem:customer:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps the given client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with SET NX. The pending marker expires after
// pendingTTL so a crashed request cannot block the key for the full ttl.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, int64, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingValue, pendingTTL).Result()
	if err != nil {
		return false, 0, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; report it as in progress.
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("idempotency lookup: %w", err)
	}
	if val == pendingValue {
		return false, 0, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, 0, fmt.Errorf("idempotency lookup: corrupt value %q: %w", val, err)
	}
	return false, id, nil
}

// Remember records key → customerID, replacing the pending marker and
// setting the full expiry.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, customerID int64) error {
	if err := s.client.Set(ctx, s.key(key), strconv.FormatInt(customerID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

// Release deletes a reservation so the client can retry with the same key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:customer:" + k
}
