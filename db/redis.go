package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"fairplay/round"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

const (
	// Active seed-session mirror for dashboards and quick lookups.
	// Key: session:{playerId}
	SessionTTL = 24 * time.Hour

	// Faulted rounds awaiting reconciliation. Long TTL: these represent
	// real money and should only expire after an operator resolved them.
	// Key: unsettled:{roundId}
	UnsettledTTL = 30 * 24 * time.Hour
)

// SessionData mirrors the public half of a player's seed session.
// The server seed itself never goes to Redis.
type SessionData struct {
	PlayerID       string    `json:"playerId"`
	ServerSeedHash string    `json:"serverSeedHash"`
	ClientSeed     string    `json:"clientSeed"`
	Nonce          uint64    `json:"nonce"`
	RotatedAt      time.Time `json:"rotatedAt"`
}

// InitRedis initializes the Redis client connection
func InitRedis() error {
	log.Println("Connecting to Redis...")

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Redis connected")
	return nil
}

// CloseRedis closes the Redis client
func CloseRedis() error {
	if RedisClient != nil {
		log.Println("Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

// HealthCheck pings Redis
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}

// StoreSession mirrors a session's public state.
func StoreSession(ctx context.Context, data *SessionData) error {
	key := fmt.Sprintf("session:%s", data.PlayerID)

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := RedisClient.Set(ctx, key, payload, SessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession reads a mirrored session. Returns nil when absent.
func GetSession(ctx context.Context, playerID string) (*SessionData, error) {
	key := fmt.Sprintf("session:%s", playerID)

	payload, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &data, nil
}

// ParkUnsettledRound keeps a faulted round visible to reconciliation
// tooling. Complements the postgres parking table; the redis copy is
// what operational dashboards poll.
func ParkUnsettledRound(ctx context.Context, r *round.Round) error {
	key := fmt.Sprintf("unsettled:%s", r.ID)

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	if err := RedisClient.Set(ctx, key, payload, UnsettledTTL).Err(); err != nil {
		return fmt.Errorf("failed to park round: %w", err)
	}
	return nil
}

// ClearUnsettledRound removes a reconciled round.
func ClearUnsettledRound(ctx context.Context, roundID string) error {
	key := fmt.Sprintf("unsettled:%s", roundID)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear unsettled round: %w", err)
	}
	return nil
}

// ListUnsettledRounds scans the parking keyspace.
func ListUnsettledRounds(ctx context.Context) ([]string, error) {
	var ids []string
	iter := RedisClient.Scan(ctx, 0, "unsettled:*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len("unsettled:"):])
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan unsettled rounds: %w", err)
	}
	return ids, nil
}
