package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"

	"fairplay/crypto"
)

// ErrSeedIntegrity means a retiring server seed no longer hashes to the
// commitment published for it. This is a platform bug or tampering,
// never a user error; callers must surface it, not retry past it.
var ErrSeedIntegrity = errors.New("server seed does not match its published commitment")

// Session is one player's active seed pair. All nonce issuance and
// settlement for the player serializes on its lock, so two concurrent
// rounds can never draw the same nonce or race a balance check.
type Session struct {
	mu sync.Mutex

	PlayerID       string
	ServerSeed     string
	ServerSeedHash string
	ClientSeed     string
	RotatedAt      time.Time

	nonce     uint64
	retired   bool
	committed bool
}

// Lock takes the per-player serialization lock. At most one in-flight
// round per session.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the serialization lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// NextNonce issues the nonce for the round being played and advances
// the counter. Caller must hold the session lock and must persist the
// issued nonce before deriving any value from it.
func (s *Session) NextNonce() uint64 {
	n := s.nonce
	s.nonce++
	return n
}

// Retired reports whether a rotation has revealed this seed pair. A
// retired session must never issue another nonce: the player may
// already know the server seed. Caller must hold the session lock.
func (s *Session) Retired() bool { return s.retired }

// Committed reports whether the seed's commitment has been confirmed
// persisted. Caller must hold the session lock.
func (s *Session) Committed() bool { return s.committed }

// MarkCommitted records that the commitment is on durable record.
// Caller must hold the session lock.
func (s *Session) MarkCommitted() { s.committed = true }

// Nonce reports the next nonce that would be issued.
func (s *Session) Nonce() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

// SetClientSeed replaces the player-supplied seed. Takes effect on the
// next nonce; past rounds keep verifying against the seed they used.
func (s *Session) SetClientSeed(seed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClientSeed = seed
}

// Reveal is the retired half of a rotation: the now-public server seed,
// its original commitment, and how many nonces it consumed.
type Reveal struct {
	ServerSeed     string `json:"serverSeed"`
	ServerSeedHash string `json:"serverSeedHash"`
	Nonces         uint64 `json:"nonces"`
}

// Manager owns the session records. There is no process-wide seed map
// beyond this registry; sessions are handed out as explicit records and
// persistence goes through the seed store collaborator.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	clock    quartz.Clock
}

// NewManager builds a session registry. A nil clock uses the real one;
// tests inject a mock.
func NewManager(clock quartz.Clock) *Manager {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		clock:    clock,
	}
}

// Acquire returns the player's active session, creating one with a
// fresh committed seed on first use. The commitment must be persisted
// (and shown to the player) before the session settles money.
func (m *Manager) Acquire(playerID string) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[playerID]; ok {
		return s, false, nil
	}

	s, err := m.newSession(playerID, playerID)
	if err != nil {
		return nil, false, err
	}
	m.sessions[playerID] = s
	return s, true, nil
}

// Rotate retires the player's current seed pair and installs a fresh
// one. The retired seed is revealed so the player can recompute its
// commitment; a mismatch aborts the rotation with ErrSeedIntegrity.
func (m *Manager) Rotate(playerID, clientSeed string) (*Reveal, *Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.sessions[playerID]
	if !ok {
		return nil, nil, fmt.Errorf("no active session for player %s", playerID)
	}

	old.mu.Lock()
	defer old.mu.Unlock()

	if !crypto.VerifySeed(old.ServerSeed, old.ServerSeedHash) {
		return nil, nil, fmt.Errorf("rotating seed for player %s: %w", playerID, ErrSeedIntegrity)
	}
	old.retired = true

	reveal := &Reveal{
		ServerSeed:     old.ServerSeed,
		ServerSeedHash: old.ServerSeedHash,
		Nonces:         old.nonce,
	}

	s, err := m.newSession(playerID, clientSeed)
	if err != nil {
		return nil, nil, err
	}
	m.sessions[playerID] = s

	return reveal, s, nil
}

// newSession generates and commits a fresh server seed. Caller holds
// the manager lock.
func (m *Manager) newSession(playerID, clientSeed string) (*Session, error) {
	seed, hash, err := crypto.GenerateServerSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to generate server seed: %w", err)
	}

	return &Session{
		PlayerID:       playerID,
		ServerSeed:     seed,
		ServerSeedHash: hash,
		ClientSeed:     clientSeed,
		RotatedAt:      m.clock.Now(),
	}, nil
}
