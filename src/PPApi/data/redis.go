package data

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/proposalpal/proposalpal/src/PPApi/store"
)

const (
	streamActivity = "proposalpal.activity"
	leaderboardKey = "leaderboard:snapshot"

	// Short TTL: the leaderboard only needs to absorb read bursts, not
	// survive restarts.
	LeaderboardTTL = 30 * time.Second
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// PublishActivity fans engagement events out on a stream for downstream
// consumers (analytics, notification bots). Best effort; callers ignore
// the error after logging.
func PublishActivity(ctx context.Context, rdb *redis.Client, event map[string]interface{}) error {
	if rdb == nil {
		return nil
	}
	event["id"] = uuid.NewString()
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamActivity,
		Values: event,
	}).Result()
	return err
}

// CachedLeaderboard returns the snapshot if one is live. A redis error
// is treated as a miss so the DB path still serves.
func CachedLeaderboard(ctx context.Context, rdb *redis.Client) ([]store.LeaderboardRow, bool) {
	if rdb == nil {
		return nil, false
	}
	raw, err := rdb.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, false
	}
	var rows []store.LeaderboardRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func StoreLeaderboard(ctx context.Context, rdb *redis.Client, rows []store.LeaderboardRow) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, leaderboardKey, raw, LeaderboardTTL).Err(); err != nil {
		log.Printf("redis: leaderboard snapshot: %v", err)
	}
}
