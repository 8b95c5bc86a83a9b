// internal/profile/cache.go
// Redis-backed read-through cache in front of the postgres store.
// Only identity-ish reads are cached; candidate pools and connection
// reads always hit postgres so a ranking request sees fresh data.

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type cachedStore struct {
	Store
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedStore wraps a Store with a short-TTL profile/user cache.
// A nil client or zero TTL returns the inner store unchanged.
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) Store {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedStore{Store: inner, redis: client, ttl: ttl}
}

func profileKey(userID int64) string { return fmt.Sprintf("profile:user:%d", userID) }
func userKey(userID int64) string    { return fmt.Sprintf("user:%d", userID) }

func (c *cachedStore) GetProfileByUserID(ctx context.Context, userID int64) (*MemberProfile, error) {
	var cached MemberProfile
	if ok := c.get(ctx, profileKey(userID), &cached); ok {
		return &cached, nil
	}

	p, err := c.Store.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, profileKey(userID), p)
	return p, nil
}

func (c *cachedStore) GetUser(ctx context.Context, userID int64) (*User, error) {
	var cached User
	if ok := c.get(ctx, userKey(userID), &cached); ok {
		return &cached, nil
	}

	u, err := c.Store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.set(ctx, userKey(userID), u)
	return u, nil
}

func (c *cachedStore) UpsertProfile(ctx context.Context, p *MemberProfile) error {
	if err := c.Store.UpsertProfile(ctx, p); err != nil {
		return err
	}
	c.redis.Del(ctx, profileKey(p.UserID))
	return nil
}

func (c *cachedStore) UpsertConnection(ctx context.Context, userID, peerUserID int64, connType string) (*Connection, error) {
	conn, err := c.Store.UpsertConnection(ctx, userID, peerUserID, connType)
	if err != nil {
		return nil, err
	}
	c.redis.Del(ctx, profileKey(userID))
	return conn, nil
}

func (c *cachedStore) SetConnectionStatus(ctx context.Context, userID, peerUserID int64, status string) error {
	if err := c.Store.SetConnectionStatus(ctx, userID, peerUserID, status); err != nil {
		return err
	}
	c.redis.Del(ctx, profileKey(userID))
	return nil
}

// get is best effort; a cache miss or redis error just falls through to postgres
func (c *cachedStore) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *cachedStore) set(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, data, c.ttl)
}
