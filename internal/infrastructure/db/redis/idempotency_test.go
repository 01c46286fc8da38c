package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeCmdable implements GET, SET, SETNX and DEL over a map; every other
// method panics through the nil embedded interface.
type fakeCmdable struct {
	redis.Cmdable
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failErr error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStringCmd(ctx, "get", key)
	switch v, ok := f.data[key]; {
	case f.failErr != nil:
		cmd.SetErr(f.failErr)
	case !ok:
		cmd.SetErr(redis.Nil)
	default:
		cmd.SetVal(v)
	}
	return cmd
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.failErr != nil {
		cmd.SetErr(f.failErr)
		return cmd
	}
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewBoolCmd(ctx, "set", key, value, "nx")
	if f.failErr != nil {
		cmd.SetErr(f.failErr)
		return cmd
	}
	if _, exists := f.data[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	f.data[key] = fmt.Sprint(value)
	f.ttls[key] = expiration
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	cmd := redis.NewIntCmd(ctx, "del")
	if f.failErr != nil {
		cmd.SetErr(f.failErr)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestIdempotencyStore_ReserveRememberReplay(t *testing.T) {
	fake := newFakeCmdable()
	store := NewIdempotencyStore(fake, time.Hour)
	ctx := context.Background()

	reserved, _, err := store.Reserve(ctx, "abc")
	if err != nil || !reserved {
		t.Fatalf("expected first reserve to win, got reserved=%v err=%v", reserved, err)
	}
	if fake.ttls["idem:customer:abc"] != pendingTTL {
		t.Fatalf("expected pending ttl, got %v", fake.ttls["idem:customer:abc"])
	}

	reserved, id, err := store.Reserve(ctx, "abc")
	if err != nil || reserved || id != 0 {
		t.Fatalf("expected in-progress, got reserved=%v id=%d err=%v", reserved, id, err)
	}

	if err := store.Remember(ctx, "abc", 42); err != nil {
		t.Fatalf("remember: %v", err)
	}
	if fake.ttls["idem:customer:abc"] != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", fake.ttls["idem:customer:abc"])
	}

	reserved, id, err = store.Reserve(ctx, "abc")
	if err != nil || reserved || id != 42 {
		t.Fatalf("expected replay of 42, got reserved=%v id=%d err=%v", reserved, id, err)
	}
}

func TestIdempotencyStore_ConcurrentReserveHasOneWinner(t *testing.T) {
	fake := newFakeCmdable()
	store := NewIdempotencyStore(fake, time.Hour)

	const n = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reserved, _, err := store.Reserve(context.Background(), "same")
			if err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			if reserved {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one reservation, got %d", wins)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	fake := newFakeCmdable()
	store := NewIdempotencyStore(fake, time.Hour)
	ctx := context.Background()

	_, _, _ = store.Reserve(ctx, "k")
	if err := store.Release(ctx, "k"); err != nil {
		t.Fatalf("release: %v", err)
	}

	reserved, _, err := store.Reserve(ctx, "k")
	if err != nil || !reserved {
		t.Fatalf("expected key to be claimable after release, got reserved=%v err=%v", reserved, err)
	}
}

func TestIdempotencyStore_DefaultTTL(t *testing.T) {
	fake := newFakeCmdable()
	store := NewIdempotencyStore(fake, 0)

	_ = store.Remember(context.Background(), "k", 1)
	if fake.ttls["idem:customer:k"] != defaultIdempotencyTTL {
		t.Fatalf("expected default ttl, got %v", fake.ttls["idem:customer:k"])
	}
}

func TestIdempotencyStore_CorruptValue(t *testing.T) {
	fake := newFakeCmdable()
	fake.data["idem:customer:bad"] = "not-a-number"
	store := NewIdempotencyStore(fake, time.Hour)

	if _, _, err := store.Reserve(context.Background(), "bad"); err == nil {
		t.Fatal("expected error for corrupt value")
	}
}

func TestIdempotencyStore_BackendError(t *testing.T) {
	fake := newFakeCmdable()
	fake.failErr = errors.New("connection refused")
	store := NewIdempotencyStore(fake, time.Hour)

	if _, _, err := store.Reserve(context.Background(), "k"); !errors.Is(err, fake.failErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if err := store.Remember(context.Background(), "k", 1); !errors.Is(err, fake.failErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if err := store.Release(context.Background(), "k"); !errors.Is(err, fake.failErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
}
