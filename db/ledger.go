package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"fairplay/round"
)

// Ledger is the postgres-backed balance authority. Implements
// round.Ledger: Reserve debits the bet into a reservation row, Settle
// credits the payout and closes the reservation, both inside a single
// transaction so a bet can never stay debited without its payout
// decision on record.
type Ledger struct{}

// NewLedger returns the postgres-backed ledger.
func NewLedger() *Ledger { return &Ledger{} }

// Reserve withholds the bet amount from the player's balance. Returns
// round.ErrInsufficientFunds when the balance cannot cover it.
func (l *Ledger) Reserve(ctx context.Context, playerID string, amount decimal.Decimal) (string, error) {
	tx, err := PostgresPool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin reserve tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `
	SELECT balance FROM ledger_accounts WHERE player_id = $1 FOR UPDATE
	`, playerID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("player %s: %w", playerID, round.ErrInsufficientFunds)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read balance: %w", err)
	}

	if balance.LessThan(amount) {
		return "", fmt.Errorf("player %s has %s, needs %s: %w",
			playerID, balance, amount, round.ErrInsufficientFunds)
	}

	reservationID := uuid.New()

	if _, err := tx.Exec(ctx, `
	UPDATE ledger_accounts SET balance = balance - $2 WHERE player_id = $1
	`, playerID, amount); err != nil {
		return "", fmt.Errorf("failed to debit bet: %w", err)
	}

	if _, err := tx.Exec(ctx, `
	INSERT INTO ledger_reservations (id, player_id, amount)
	VALUES ($1, $2, $3)
	`, reservationID, playerID, amount); err != nil {
		return "", fmt.Errorf("failed to record reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit reservation: %w", err)
	}

	return reservationID.String(), nil
}

// Settle closes a reservation, crediting the payout (possibly zero).
// Settling an already-settled reservation is an error, never a double
// credit.
func (l *Ledger) Settle(ctx context.Context, reservationID string, payout decimal.Decimal) error {
	tx, err := PostgresPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin settle tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var playerID string
	var settled bool
	err = tx.QueryRow(ctx, `
	SELECT player_id, settled FROM ledger_reservations WHERE id = $1 FOR UPDATE
	`, reservationID).Scan(&playerID, &settled)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("reservation %s not found", reservationID)
	}
	if err != nil {
		return fmt.Errorf("failed to read reservation: %w", err)
	}
	if settled {
		return fmt.Errorf("reservation %s already settled", reservationID)
	}

	if _, err := tx.Exec(ctx, `
	UPDATE ledger_reservations SET settled = TRUE, payout = $2 WHERE id = $1
	`, reservationID, payout); err != nil {
		return fmt.Errorf("failed to close reservation: %w", err)
	}

	if payout.IsPositive() {
		if _, err := tx.Exec(ctx, `
		UPDATE ledger_accounts SET balance = balance + $2 WHERE player_id = $1
		`, playerID, payout); err != nil {
			return fmt.Errorf("failed to credit payout: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	return nil
}

// Deposit credits a player's account, creating it if needed. Used by
// operational tooling; the engine itself never calls this.
func (l *Ledger) Deposit(ctx context.Context, playerID string, amount decimal.Decimal) error {
	_, err := PostgresPool.Exec(ctx, `
	INSERT INTO ledger_accounts (player_id, balance)
	VALUES ($1, $2)
	ON CONFLICT (player_id) DO UPDATE SET balance = ledger_accounts.balance + EXCLUDED.balance
	`, playerID, amount)
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}
	return nil
}

// Balance reads a player's current balance.
func (l *Ledger) Balance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := PostgresPool.QueryRow(ctx, `
	SELECT balance FROM ledger_accounts WHERE player_id = $1
	`, playerID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

var _ round.Ledger = (*Ledger)(nil)
