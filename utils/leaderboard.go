package utils

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"learnity/config"
	"learnity/database"
	"learnity/models"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "learnity:leaderboard:xp"

// RedisClient is the global Redis connection. It stays nil when Redis is
// unreachable; leaderboard writes then become no-ops and reads fail soft.
var RedisClient *redis.Client

var errRedisUnavailable = errors.New("redis unavailable")

// ConnectRedis establishes the Redis connection for the leaderboard
func ConnectRedis() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not reachable at %s, leaderboard disabled: %v", config.AppConfig.RedisAddr, err)
		return
	}

	RedisClient = client
	log.Printf("Connected to Redis at %s", config.AppConfig.RedisAddr)
}

// LeaderboardEntry is one ranked row of the XP leaderboard
type LeaderboardEntry struct {
	UserID uint
	XP     int
}

// UpdateLeaderboardScore writes the user's total XP into the sorted set
func UpdateLeaderboardScore(userID uint, totalXP int) error {
	if RedisClient == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return RedisClient.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(totalXP),
		Member: strconv.FormatUint(uint64(userID), 10),
	}).Err()
}

// TopUsers returns the highest-XP users, best first
func TopUsers(n int64) ([]LeaderboardEntry, error) {
	if RedisClient == nil {
		return nil, errRedisUnavailable
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rows, err := RedisClient.ZRevRangeWithScores(ctx, leaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		member, ok := row.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{UserID: uint(id), XP: int(row.Score)})
	}
	return entries, nil
}

// RebuildLeaderboard resyncs the sorted set from the users table. Run by
// the maintenance scheduler to heal drift after Redis outages.
func RebuildLeaderboard() {
	if RedisClient == nil {
		return
	}
	db := database.Database.Db

	var users []models.User
	if err := db.Where("is_deleted = ?", false).Find(&users).Error; err != nil {
		log.Printf("[MAINTENANCE] Error loading users for leaderboard rebuild: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pipe := RedisClient.Pipeline()
	pipe.Del(ctx, leaderboardKey)
	for _, u := range users {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  float64(u.XP),
			Member: strconv.FormatUint(uint64(u.ID), 10),
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[MAINTENANCE] Error rebuilding leaderboard: %v", err)
		return
	}

	log.Printf("[MAINTENANCE] Leaderboard rebuilt with %d users", len(users))
}
