package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"fairplay/api"
	"fairplay/config"
	"fairplay/db"
	"fairplay/round"
	"fairplay/state"
	"fairplay/ws"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.LoadGames(os.Getenv("GAMES_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load game config: %v", err)
	}

	// Initialize database connections
	if err := db.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL initialization failed: %v", err)
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(); err != nil {
		log.Printf("Warning: Redis initialization failed: %v", err)
		log.Println("   Session mirroring and reconciliation dashboards will be degraded")
	}
	defer db.CloseRedis()

	feed := ws.NewFeed()
	sessions := state.NewManager(nil)
	engine := round.NewEngine(cfg, sessions, db.NewLedger(), db.NewSeedStore(), feed)

	server := &api.Server{Engine: engine, Cfg: cfg}

	// WebSocket endpoints
	http.HandleFunc("/ws/rounds", feed.HandleFeed)

	// API endpoints
	http.HandleFunc("/api/play", server.HandlePlay)
	http.HandleFunc("/api/verify", server.HandleVerify)
	http.HandleFunc("/api/seeds", server.HandleGetSeeds)
	http.HandleFunc("/api/seeds/client", server.HandleSetClientSeed)
	http.HandleFunc("/api/seeds/rotate", server.HandleRotateSeeds)
	http.HandleFunc("/api/rounds", server.HandleGetRecentRounds)
	http.HandleFunc("/api/health", server.HandleHealthCheck)

	addr := "0.0.0.0:" + port()
	log.Printf("Server starting on %s", addr)
	log.Println("  POST /api/play         - resolve and settle a round")
	log.Println("  POST /api/verify       - recompute a round from published values")
	log.Println("  GET  /api/seeds        - active seed commitment for a player")
	log.Println("  POST /api/seeds/client - set the client seed, effective next nonce")
	log.Println("  POST /api/seeds/rotate - rotate seed pair, reveal the old seed")
	log.Println("  GET  /api/rounds       - recent settled rounds")
	log.Println("  GET  /api/health       - health check (Redis + PostgreSQL)")
	log.Println("  WS   /ws/rounds        - settled-round feed")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal("Server error:", err)
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
