package round

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fairplay/config"
	"fairplay/game"
	"fairplay/state"
)

// Status is the per-round state machine. A round only ever moves
// forward: Validated -> SeedAcquired -> Resolved -> Settled, or stops
// at Rejected (validation) or Faulted (settlement).
type Status string

const (
	StatusValidated    Status = "validated"
	StatusSeedAcquired Status = "seed_acquired"
	StatusResolved     Status = "resolved"
	StatusSettled      Status = "settled"
	StatusRejected     Status = "rejected"
	StatusFaulted      Status = "faulted"
)

// Error taxonomy. Validation and insufficient-funds are ordinary
// negative results; integrity and settlement faults indicate a
// correctness or trust failure and are escalated by callers.
var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrIntegrity         = errors.New("integrity violation")
	ErrSettlementFault   = errors.New("settlement fault")
)

// Ledger is the sole authority on balances. The engine never mutates
// funds directly: it reserves the bet, then settles the reservation
// with the payout as one logical unit.
type Ledger interface {
	Reserve(ctx context.Context, playerID string, amount decimal.Decimal) (reservationID string, err error)
	Settle(ctx context.Context, reservationID string, payout decimal.Decimal) error
}

// SeedStore persists commitments, nonces and round records. Commitment
// and nonce writes must be confirmed before the derived stream for that
// nonce settles money.
type SeedStore interface {
	PersistCommitment(ctx context.Context, playerID, serverSeedHash string) error
	PersistNonce(ctx context.Context, playerID string, nonce uint64) error
	PersistRound(ctx context.Context, r *Round) error
	ParkUnsettled(ctx context.Context, r *Round) error
}

// Publisher receives settled rounds, e.g. for a live feed. Optional.
type Publisher interface {
	PublishRound(r *Round)
}

// Round is the immutable record of one resolved play.
type Round struct {
	ID             uuid.UUID       `json:"id"`
	PlayerID       string          `json:"playerId"`
	Kind           game.Kind       `json:"gameKind"`
	Params         game.Params     `json:"params"`
	ServerSeedHash string          `json:"serverSeedHash"`
	ClientSeed     string          `json:"clientSeed"`
	Nonce          uint64          `json:"nonce"`
	Bet            decimal.Decimal `json:"betAmount"`
	Payout         decimal.Decimal `json:"payoutAmount"`
	Outcome        *game.Outcome   `json:"outcome,omitempty"`
	Status         Status          `json:"status"`
	ReservationID  string          `json:"-"`
	CreatedAt      time.Time       `json:"createdAt"`
}

const (
	settleAttempts = 3
	settleBackoff  = 100 * time.Millisecond
	settleTimeout  = 5 * time.Second
)

// Engine orchestrates one play end to end: validation, funds
// reservation, nonce issuance, resolution and atomic settlement.
type Engine struct {
	cfg      *config.Games
	sessions *state.Manager
	ledger   Ledger
	store    SeedStore
	feed     Publisher
}

// NewEngine wires the settlement engine. feed may be nil.
func NewEngine(cfg *config.Games, sessions *state.Manager, ledger Ledger, store SeedStore, feed Publisher) *Engine {
	return &Engine{
		cfg:      cfg,
		sessions: sessions,
		ledger:   ledger,
		store:    store,
		feed:     feed,
	}
}

// Sessions exposes the session registry for seed endpoints.
func (e *Engine) Sessions() *state.Manager { return e.sessions }

// Play runs one round for a player. Resolution itself is pure and
// sub-millisecond; the only operations that may block or fail are the
// seed-store and ledger calls, and both fail closed.
func (e *Engine) Play(ctx context.Context, playerID string, bet decimal.Decimal, params game.Params) (*Round, error) {
	// Validation touches no seed, nonce or balance.
	if err := e.validate(bet, params); err != nil {
		return &Round{
			PlayerID: playerID,
			Kind:     params.Kind(),
			Status:   StatusRejected,
		}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// One in-flight round per seed pair: nonce issuance and settlement
	// serialize on the session lock.
	sess, err := e.lockSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	reservationID, err := e.ledger.Reserve(ctx, playerID, bet)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return &Round{
				PlayerID: playerID,
				Kind:     params.Kind(),
				Status:   StatusRejected,
			}, err
		}
		return nil, fmt.Errorf("%w: reserving bet: %v", ErrSettlementFault, err)
	}

	r := &Round{
		ID:             uuid.New(),
		PlayerID:       playerID,
		Kind:           params.Kind(),
		Params:         params,
		ServerSeedHash: sess.ServerSeedHash,
		ClientSeed:     sess.ClientSeed,
		Nonce:          sess.NextNonce(),
		Bet:            bet,
		ReservationID:  reservationID,
		Status:         StatusSeedAcquired,
		CreatedAt:      time.Now().UTC(),
	}

	// The nonce is on record before the stream is consumed, so a crash
	// here leaves evidence instead of a silently reused nonce.
	if err := e.store.PersistNonce(ctx, playerID, r.Nonce); err != nil {
		r.Status = StatusFaulted
		e.park(r)
		return r, fmt.Errorf("%w: persisting nonce %d: %v", ErrSettlementFault, r.Nonce, err)
	}

	stream := game.Stream{
		ServerSeed: sess.ServerSeed,
		ClientSeed: r.ClientSeed,
		Nonce:      r.Nonce,
	}
	outcome, err := game.Resolve(stream, params, e.cfg)
	if err != nil {
		r.Status = StatusFaulted
		e.park(r)
		return r, fmt.Errorf("%w: resolving round: %v", ErrSettlementFault, err)
	}
	r.Outcome = outcome
	r.Status = StatusResolved

	// Monetary rounding happens exactly once, here: half-even to the
	// minor unit on the final payout, never on intermediate multipliers.
	r.Payout = bet.Mul(outcome.Multiplier).RoundBank(2)

	if err := e.settle(ctx, r); err != nil {
		// The outcome stands; the round is parked unsettled for
		// reconciliation. Re-resolving with fresh randomness would let
		// either side re-roll a real-money result.
		r.Status = StatusFaulted
		e.park(r)
		return r, fmt.Errorf("%w: %v", ErrSettlementFault, err)
	}
	r.Status = StatusSettled

	if err := e.store.PersistRound(ctx, r); err != nil {
		// Money moved; keep the audit record via the parking queue so
		// reconciliation can backfill the archive.
		e.park(r)
	}

	if e.feed != nil {
		e.feed.PublishRound(r)
	}

	return r, nil
}

// lockSession returns the player's current session with its lock held
// and its commitment on durable record. Two hazards live between
// acquiring the handle and holding the lock, and both are closed here:
// a concurrent rotation may have retired the handle (its seed is now
// revealed, so it must never issue another nonce), and an earlier
// commitment write may have failed (money must never settle under an
// unpublished commitment). Retired handles are dropped and the current
// session taken instead; unpublished commitments are persisted, under
// the lock, before the session is handed out.
func (e *Engine) lockSession(ctx context.Context, playerID string) (*state.Session, error) {
	for {
		sess, _, err := e.sessions.Acquire(playerID)
		if err != nil {
			return nil, err
		}

		sess.Lock()
		if sess.Retired() {
			sess.Unlock()
			continue
		}
		if !sess.Committed() {
			if err := e.store.PersistCommitment(ctx, playerID, sess.ServerSeedHash); err != nil {
				sess.Unlock()
				return nil, fmt.Errorf("%w: persisting commitment: %v", ErrSettlementFault, err)
			}
			sess.MarkCommitted()
		}
		return sess, nil
	}
}

// ActiveSeeds returns the player's current seed session, creating and
// committing a fresh one on first use. This is how a player sees the
// commitment before placing any bet under it.
func (e *Engine) ActiveSeeds(ctx context.Context, playerID string) (*state.Session, error) {
	sess, err := e.lockSession(ctx, playerID)
	if err != nil {
		return nil, err
	}
	sess.Unlock()
	return sess, nil
}

// SetClientSeed replaces the player's client seed, effective from the
// next nonce. The server seed pair and its commitment stay in place;
// past rounds keep verifying against the seed they used.
func (e *Engine) SetClientSeed(ctx context.Context, playerID, clientSeed string) (*state.Session, error) {
	if clientSeed == "" {
		return nil, fmt.Errorf("%w: client seed must not be empty", ErrValidation)
	}

	sess, err := e.ActiveSeeds(ctx, playerID)
	if err != nil {
		return nil, err
	}
	sess.SetClientSeed(clientSeed)
	return sess, nil
}

// RotateSeeds retires the player's seed pair, revealing the old seed,
// and publishes the commitment of its replacement.
func (e *Engine) RotateSeeds(ctx context.Context, playerID, clientSeed string) (*state.Reveal, error) {
	reveal, sess, err := e.sessions.Rotate(playerID, clientSeed)
	if err != nil {
		if errors.Is(err, state.ErrSeedIntegrity) {
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
		return nil, err
	}

	sess.Lock()
	err = e.store.PersistCommitment(ctx, playerID, sess.ServerSeedHash)
	if err == nil {
		sess.MarkCommitted()
	}
	sess.Unlock()
	if err != nil {
		// The replacement session stays installed uncommitted; the next
		// play retries the write before any money settles under it.
		return nil, fmt.Errorf("%w: persisting commitment: %v", ErrSettlementFault, err)
	}

	return reveal, nil
}

func (e *Engine) validate(bet decimal.Decimal, params game.Params) error {
	// Value-level check: "10.000" is a legal cent amount, "1.005" is not.
	if !bet.Equal(bet.Round(2)) {
		return fmt.Errorf("bet %s has sub-cent precision", bet)
	}
	if bet.LessThan(e.cfg.MinBet) {
		return fmt.Errorf("bet %s below minimum %s", bet, e.cfg.MinBet)
	}
	if bet.GreaterThan(e.cfg.MaxBet) {
		return fmt.Errorf("bet %s above maximum %s", bet, e.cfg.MaxBet)
	}
	return params.Validate(e.cfg)
}

// settle pushes the debit/credit pair through the ledger with a
// bounded retry. Ambiguous failure leaves the round unsettled; it is
// never replayed.
func (e *Engine) settle(ctx context.Context, r *Round) error {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	var err error
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		err = e.ledger.Settle(ctx, r.ReservationID, r.Payout)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		time.Sleep(time.Duration(attempt) * settleBackoff)
	}
	return fmt.Errorf("settling reservation %s after %d attempts: %w", r.ReservationID, settleAttempts, err)
}

func (e *Engine) park(r *Round) {
	// Parking is best-effort by necessity; a background context keeps
	// it from being cancelled along with the round.
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	_ = e.store.ParkUnsettled(ctx, r)
}
