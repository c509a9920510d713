package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"fairplay/config"
	"fairplay/db"
	"fairplay/game"
	"fairplay/round"
	"fairplay/state"
)

/* =========================
   REQUEST/RESPONSE TYPES
========================= */

// PlayRequest represents a round-resolution request
type PlayRequest struct {
	PlayerID string          `json:"playerId"`
	GameKind game.Kind       `json:"gameKind"`
	Bet      string          `json:"bet"`
	Params   json.RawMessage `json:"params"`
}

// RotateRequest represents a seed-rotation request
type RotateRequest struct {
	PlayerID   string `json:"playerId"`
	ClientSeed string `json:"clientSeed"`
}

// ClientSeedRequest represents a client-seed-only update
type ClientSeedRequest struct {
	PlayerID   string `json:"playerId"`
	ClientSeed string `json:"clientSeed"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Server bundles the handlers' dependencies.
type Server struct {
	Engine *round.Engine
	Cfg    *config.Games
}

func sendError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Success: false,
		Error:   message,
	})
}

func sendJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

/* =========================
   VERIFICATION ENDPOINT
========================= */

// HandleVerify recomputes a round from published values only
// POST /api/verify
func (s *Server) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	var req game.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ServerSeed == "" || req.ServerSeedHash == "" || req.Kind == "" {
		sendError(w, http.StatusBadRequest, "Missing required fields: serverSeed, serverSeedHash, gameKind")
		return
	}

	result := game.Verify(req, s.Cfg)
	if !result.Valid {
		log.Printf("verification failed for nonce %d: %s", req.Nonce, result.Reason)
	}

	sendJSON(w, result)
}

// mirrorSession pushes a session's public state into the redis cache
// for dashboards. Best-effort: the in-memory manager is authoritative
// and a cold or absent redis only degrades visibility.
func mirrorSession(ctx context.Context, sess *state.Session) {
	if db.RedisClient == nil {
		return
	}
	data := &db.SessionData{
		PlayerID:       sess.PlayerID,
		ServerSeedHash: sess.ServerSeedHash,
		ClientSeed:     sess.ClientSeed,
		Nonce:          sess.Nonce(),
		RotatedAt:      sess.RotatedAt,
	}
	if err := db.StoreSession(ctx, data); err != nil {
		log.Printf("failed to mirror session for player %s: %v", sess.PlayerID, err)
	}
}

/* =========================
   PLAY / ROTATE / SEEDS ENDPOINTS
========================= */

// HandlePlay resolves and settles one round
// POST /api/play
func (s *Server) HandlePlay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID == "" {
		sendError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	bet, err := decimal.NewFromString(req.Bet)
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid bet amount")
		return
	}

	params, err := game.UnmarshalParams(req.GameKind, req.Params)
	if err != nil {
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.Engine.Play(r.Context(), req.PlayerID, bet, params)
	switch {
	case err == nil:
		if sess, _, acquireErr := s.Engine.Sessions().Acquire(req.PlayerID); acquireErr == nil {
			mirrorSession(r.Context(), sess)
		}
		sendJSON(w, result)
	case errors.Is(err, round.ErrValidation):
		sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, round.ErrInsufficientFunds):
		sendError(w, http.StatusPaymentRequired, err.Error())
	default:
		log.Printf("ALERT: round for player %s failed: %v", req.PlayerID, err)
		sendError(w, http.StatusInternalServerError, "Round could not be settled")
	}
}

// HandleRotateSeeds retires the player's seed pair and reveals the old seed
// POST /api/seeds/rotate
func (s *Server) HandleRotateSeeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	var req RotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID == "" {
		sendError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	reveal, err := s.Engine.RotateSeeds(r.Context(), req.PlayerID, req.ClientSeed)
	if err != nil {
		if errors.Is(err, round.ErrIntegrity) {
			log.Printf("ALERT: seed integrity violation for player %s: %v", req.PlayerID, err)
			sendError(w, http.StatusInternalServerError, "Seed integrity violation")
			return
		}
		sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	if sess, _, acquireErr := s.Engine.Sessions().Acquire(req.PlayerID); acquireErr == nil {
		mirrorSession(r.Context(), sess)
	}

	sendJSON(w, reveal)
}

// HandleSetClientSeed replaces the player-supplied half of the seed
// pair. Takes effect on the next nonce; the server seed and its
// commitment stay in place
// POST /api/seeds/client
func (s *Server) HandleSetClientSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST.")
		return
	}

	var req ClientSeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlayerID == "" {
		sendError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	sess, err := s.Engine.SetClientSeed(r.Context(), req.PlayerID, req.ClientSeed)
	if err != nil {
		if errors.Is(err, round.ErrValidation) {
			sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("failed to set client seed for player %s: %v", req.PlayerID, err)
		sendError(w, http.StatusInternalServerError, "Failed to update client seed")
		return
	}
	mirrorSession(r.Context(), sess)

	sendJSON(w, map[string]any{
		"playerId":       sess.PlayerID,
		"serverSeedHash": sess.ServerSeedHash,
		"clientSeed":     sess.ClientSeed,
		"nextNonce":      sess.Nonce(),
	})
}

// HandleGetSeeds returns the player's active seed commitment, creating
// a committed session on first use so the commitment is on record
// before any bet rides on it
// GET /api/seeds?playerId=...
func (s *Server) HandleGetSeeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		sendError(w, http.StatusBadRequest, "Player ID is required")
		return
	}

	sess, err := s.Engine.ActiveSeeds(r.Context(), playerID)
	if err != nil {
		log.Printf("failed to acquire seeds for player %s: %v", playerID, err)
		sendError(w, http.StatusInternalServerError, "Failed to acquire seed session")
		return
	}
	mirrorSession(r.Context(), sess)

	sendJSON(w, map[string]any{
		"playerId":       sess.PlayerID,
		"serverSeedHash": sess.ServerSeedHash,
		"clientSeed":     sess.ClientSeed,
		"nextNonce":      sess.Nonce(),
	})
}

/* =========================
   HISTORY / HEALTH
========================= */

// HandleGetRecentRounds returns the newest archived rounds
// GET /api/rounds?limit=50
func (s *Server) HandleGetRecentRounds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	records, err := db.GetRecentRounds(r.Context(), limit)
	if err != nil {
		log.Printf("failed to load rounds: %v", err)
		sendError(w, http.StatusInternalServerError, "Failed to load rounds")
		return
	}

	sendJSON(w, map[string]any{
		"success": true,
		"rounds":  records,
	})
}

// HandleHealthCheck reports Redis and PostgreSQL status
// GET /api/health
func (s *Server) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	redisHealth := "ok"
	if err := db.HealthCheck(ctx); err != nil {
		redisHealth = "error: " + err.Error()
	}

	postgresHealth := "ok"
	if err := db.HealthCheckPostgres(ctx); err != nil {
		postgresHealth = "error: " + err.Error()
	}

	sendJSON(w, map[string]any{
		"success":  true,
		"redis":    redisHealth,
		"postgres": postgresHealth,
	})
}
