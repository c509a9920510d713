package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairplay/config"
)

func TestCrashValidate(t *testing.T) {
	cfg := config.DefaultGames()

	assert.NoError(t, (&CrashParams{CashOut: 1.01}).Validate(cfg))
	assert.NoError(t, (&CrashParams{CashOut: 2.00}).Validate(cfg))
	assert.Error(t, (&CrashParams{CashOut: 1.00}).Validate(cfg))
	assert.Error(t, (&CrashParams{CashOut: cfg.CrashCap + 1}).Validate(cfg))
	assert.Error(t, (&CrashParams{CashOut: 1.999}).Validate(cfg))
}

func TestCrashPointTransform(t *testing.T) {
	cfg := config.DefaultGames()

	t.Run("InstantBust", func(t *testing.T) {
		// The configured fraction of the float space resolves to
		// exactly 1.00 before the inverse transform applies.
		assert.Equal(t, 1.00, crashPoint(0, cfg))
		assert.Equal(t, 1.00, crashPoint(cfg.CrashInstantBust/2, cfg))
	})

	t.Run("Cap", func(t *testing.T) {
		assert.Equal(t, cfg.CrashCap, crashPoint(0.9999999, cfg))
	})

	t.Run("Monotonic", func(t *testing.T) {
		prev := 0.0
		for f := 0.02; f < 1.0; f += 0.01 {
			point := crashPoint(f, cfg)
			assert.GreaterOrEqual(t, point, prev, "f=%f", f)
			prev = point
		}
	})

	t.Run("MidPoint", func(t *testing.T) {
		// f=0.5 maps to floor(100*0.99/0.5)/100 = 1.98.
		assert.Equal(t, 1.98, crashPoint(0.5, cfg))
	})
}

func TestCrashRange(t *testing.T) {
	cfg := config.DefaultGames()
	params := &CrashParams{CashOut: 2.00}

	busts := 0
	for nonce := uint64(0); nonce < 5000; nonce++ {
		outcome, err := Resolve(testStream(nonce), params, cfg)
		require.NoError(t, err)

		res := outcome.Payload.(*CrashResult)
		assert.GreaterOrEqual(t, res.CrashPoint, 1.00)
		assert.LessOrEqual(t, res.CrashPoint, cfg.CrashCap)
		if res.CrashPoint == 1.00 {
			busts++
		}
	}

	// Instant busts occur at roughly the configured rate plus the
	// transform's own mass near 1.00.
	assert.Greater(t, busts, 0)
}

func TestCrashPayoutRule(t *testing.T) {
	cfg := config.DefaultGames()
	params := &CrashParams{CashOut: 2.00}

	for nonce := uint64(0); nonce < 1000; nonce++ {
		outcome, err := Resolve(testStream(nonce), params, cfg)
		require.NoError(t, err)

		res := outcome.Payload.(*CrashResult)
		if res.Win {
			require.Less(t, params.CashOut, res.CrashPoint)
			assert.True(t, outcome.Multiplier.Equal(decimal.NewFromFloat(2.00)))
		} else {
			// Reaching the crash point exactly loses: the ride ends
			// before the cash-out fires.
			require.GreaterOrEqual(t, params.CashOut, res.CrashPoint)
			assert.True(t, outcome.Multiplier.IsZero())
		}
	}
}
