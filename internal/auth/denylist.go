package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist tracks revoked token IDs until their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const denylistPrefix = "revoked:"

// RedisDenylist stores revoked token IDs in Redis so revocation survives
// restarts and is shared between instances.
type RedisDenylist struct {
	client *redis.Client
}

// NewRedisDenylist creates a Redis-backed denylist.
func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.client.Set(ctx, denylistPrefix+tokenID, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := d.client.Get(ctx, denylistPrefix+tokenID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryDenylist is the in-process fallback used when no Redis address is
// configured. Entries are dropped once their token would have expired anyway.
type MemoryDenylist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryDenylist creates an in-memory denylist and starts its sweep loop.
func NewMemoryDenylist() *MemoryDenylist {
	d := &MemoryDenylist{entries: make(map[string]time.Time)}
	go d.sweep()
	return d
}

func (d *MemoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[tokenID] = time.Now().Add(ttl)
	return nil
}

func (d *MemoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	expiry, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expiry), nil
}

func (d *MemoryDenylist) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		d.mu.Lock()
		for id, expiry := range d.entries {
			if now.After(expiry) {
				delete(d.entries, id)
			}
		}
		d.mu.Unlock()
	}
}
