package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"fairplay/round"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool
func InitPostgres() error {
	log.Println("Connecting to PostgreSQL...")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := PostgresPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("PostgreSQL connected")

	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the database tables if they don't exist
func InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS seed_commitments (
		id SERIAL PRIMARY KEY,
		player_id TEXT NOT NULL,
		server_seed_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (player_id, server_seed_hash)
	);

	CREATE TABLE IF NOT EXISTS seed_nonces (
		id SERIAL PRIMARY KEY,
		player_id TEXT NOT NULL,
		nonce BIGINT NOT NULL,
		issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_seed_nonces_player ON seed_nonces(player_id, nonce);

	CREATE TABLE IF NOT EXISTS rounds (
		id UUID PRIMARY KEY,
		player_id TEXT NOT NULL,
		game_kind TEXT NOT NULL,
		params JSONB NOT NULL,
		server_seed_hash TEXT NOT NULL,
		client_seed TEXT NOT NULL,
		nonce BIGINT NOT NULL,
		bet NUMERIC(20,2) NOT NULL,
		payout NUMERIC(20,2) NOT NULL,
		outcome JSONB NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_rounds_created_at ON rounds(created_at DESC);

	CREATE TABLE IF NOT EXISTS unsettled_rounds (
		round_id UUID PRIMARY KEY,
		player_id TEXT NOT NULL,
		reservation_id TEXT,
		record JSONB NOT NULL,
		parked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS ledger_accounts (
		player_id TEXT PRIMARY KEY,
		balance NUMERIC(20,2) NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS ledger_reservations (
		id UUID PRIMARY KEY,
		player_id TEXT NOT NULL,
		amount NUMERIC(20,2) NOT NULL,
		settled BOOLEAN NOT NULL DEFAULT FALSE,
		payout NUMERIC(20,2),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if _, err := PostgresPool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// HealthCheckPostgres pings the database
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("postgres not initialized")
	}
	return PostgresPool.Ping(ctx)
}

/* =========================
   SEED STORE
========================= */

// SeedStore persists commitments, nonces and round records in
// PostgreSQL. Implements round.SeedStore.
type SeedStore struct{}

// NewSeedStore returns the postgres-backed seed store.
func NewSeedStore() *SeedStore { return &SeedStore{} }

// PersistCommitment records a published commitment for a player.
func (s *SeedStore) PersistCommitment(ctx context.Context, playerID, serverSeedHash string) error {
	_, err := PostgresPool.Exec(ctx, `
	INSERT INTO seed_commitments (player_id, server_seed_hash)
	VALUES ($1, $2)
	ON CONFLICT (player_id, server_seed_hash) DO NOTHING
	`, playerID, serverSeedHash)
	if err != nil {
		return fmt.Errorf("failed to persist commitment: %w", err)
	}
	return nil
}

// PersistNonce records an issued nonce before its stream is consumed.
func (s *SeedStore) PersistNonce(ctx context.Context, playerID string, nonce uint64) error {
	_, err := PostgresPool.Exec(ctx, `
	INSERT INTO seed_nonces (player_id, nonce)
	VALUES ($1, $2)
	`, playerID, int64(nonce))
	if err != nil {
		return fmt.Errorf("failed to persist nonce: %w", err)
	}
	return nil
}

// PersistRound archives a settled round for audit and verification.
func (s *SeedStore) PersistRound(ctx context.Context, r *round.Round) error {
	params, err := json.Marshal(r.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	outcome, err := json.Marshal(r.Outcome)
	if err != nil {
		return fmt.Errorf("failed to encode outcome: %w", err)
	}

	_, err = PostgresPool.Exec(ctx, `
	INSERT INTO rounds (id, player_id, game_kind, params, server_seed_hash, client_seed, nonce, bet, payout, outcome, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO NOTHING
	`, r.ID, r.PlayerID, string(r.Kind), params, r.ServerSeedHash, r.ClientSeed,
		int64(r.Nonce), r.Bet, r.Payout, outcome, string(r.Status), r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to persist round: %w", err)
	}
	return nil
}

// ParkUnsettled stores a faulted round for out-of-band reconciliation.
func (s *SeedStore) ParkUnsettled(ctx context.Context, r *round.Round) error {
	record, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode round: %w", err)
	}

	_, err = PostgresPool.Exec(ctx, `
	INSERT INTO unsettled_rounds (round_id, player_id, reservation_id, record)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (round_id) DO UPDATE SET record = EXCLUDED.record
	`, r.ID, r.PlayerID, r.ReservationID, record)
	if err != nil {
		return fmt.Errorf("failed to park round: %w", err)
	}

	// Mirror into redis so reconciliation dashboards see it without
	// polling postgres. Best-effort: the postgres row is authoritative.
	if RedisClient != nil {
		if err := ParkUnsettledRound(ctx, r); err != nil {
			log.Printf("failed to mirror unsettled round %s to redis: %v", r.ID, err)
		}
	}
	return nil
}

// RoundRecord is the wire form of an archived round.
type RoundRecord struct {
	ID             string          `json:"id"`
	PlayerID       string          `json:"playerId"`
	GameKind       string          `json:"gameKind"`
	Params         json.RawMessage `json:"params"`
	ServerSeedHash string          `json:"serverSeedHash"`
	ClientSeed     string          `json:"clientSeed"`
	Nonce          uint64          `json:"nonce"`
	Bet            decimal.Decimal `json:"betAmount"`
	Payout         decimal.Decimal `json:"payoutAmount"`
	Outcome        json.RawMessage `json:"outcome"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// GetRecentRounds returns the newest archived rounds, newest first.
func GetRecentRounds(ctx context.Context, limit int) ([]*RoundRecord, error) {
	rows, err := PostgresPool.Query(ctx, `
	SELECT id, player_id, game_kind, params, server_seed_hash, client_seed, nonce, bet, payout, outcome, status, created_at
	FROM rounds
	ORDER BY created_at DESC
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var records []*RoundRecord
	for rows.Next() {
		var r RoundRecord
		var nonce int64
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.GameKind, &r.Params, &r.ServerSeedHash,
			&r.ClientSeed, &nonce, &r.Bet, &r.Payout, &r.Outcome, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		r.Nonce = uint64(nonce)
		records = append(records, &r)
	}

	return records, rows.Err()
}

var _ round.SeedStore = (*SeedStore)(nil)
