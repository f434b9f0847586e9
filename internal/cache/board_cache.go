package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyBoard = "board:" // board:<userID>:<YYYY-MM-DD>

// BoardCache caches the persisted board states per user and day in Redis,
// so a page load after a cold start does not always hit Postgres.
type BoardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBoardCache(rdb *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{rdb: rdb, ttl: ttl}
}

func boardKey(userID int64, day time.Time) string {
	return keyBoard + strconv.FormatInt(userID, 10) + ":" + day.Format("2006-01-02")
}

// Get returns cached states or nil if miss.
func (c *BoardCache) Get(ctx context.Context, userID int64, day time.Time) ([]dom.ProgressState, error) {
	b, err := c.rdb.Get(ctx, boardKey(userID, day)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var states []dom.ProgressState
	if err := json.Unmarshal(b, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// Set stores the states for one user and day.
func (c *BoardCache) Set(ctx context.Context, userID int64, day time.Time, states []dom.ProgressState) error {
	b, err := json.Marshal(states)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, boardKey(userID, day), b, c.ttl).Err()
}

// Invalidate drops the cached board for one user and day.
func (c *BoardCache) Invalidate(ctx context.Context, userID int64, day time.Time) error {
	return c.rdb.Del(ctx, boardKey(userID, day)).Err()
}

// InvalidateUser drops every cached day for the user. Reset and snapshot can
// touch rows on any day, so the whole prefix goes.
func (c *BoardCache) InvalidateUser(ctx context.Context, userID int64) error {
	prefix := keyBoard + strconv.FormatInt(userID, 10) + ":"
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
