package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairplay/config"
)

func TestKenoValidate(t *testing.T) {
	cfg := config.DefaultGames()

	assert.NoError(t, (&KenoParams{Picks: []int{1}}).Validate(cfg))
	assert.NoError(t, (&KenoParams{Picks: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}}).Validate(cfg))
	assert.Error(t, (&KenoParams{Picks: nil}).Validate(cfg))
	assert.Error(t, (&KenoParams{Picks: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}}).Validate(cfg))
	assert.Error(t, (&KenoParams{Picks: []int{0}}).Validate(cfg))
	assert.Error(t, (&KenoParams{Picks: []int{81}}).Validate(cfg))
	assert.Error(t, (&KenoParams{Picks: []int{5, 5}}).Validate(cfg))
}

func TestKenoDraws(t *testing.T) {
	cfg := config.DefaultGames()
	params := &KenoParams{Picks: []int{4, 8, 15, 16, 23}}

	for nonce := uint64(0); nonce < 500; nonce++ {
		outcome, err := Resolve(testStream(nonce), params, cfg)
		require.NoError(t, err)

		res := outcome.Payload.(*KenoResult)
		require.Len(t, res.Draws, config.KenoDrawCount)

		seen := make(map[int]bool, len(res.Draws))
		for _, n := range res.Draws {
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, config.KenoMaxNumber)
			assert.False(t, seen[n], "duplicate draw %d at nonce %d", n, nonce)
			seen[n] = true
		}

		// Hits are exactly the picks that were drawn.
		for _, h := range res.Hits {
			assert.Contains(t, params.Picks, h)
			assert.True(t, seen[h])
		}

		// A duplicate rejection consumes an extra raw value; the audit
		// trail records every derived float, drawn or burned.
		assert.GreaterOrEqual(t, len(outcome.Raw), config.KenoDrawCount)
	}
}

func TestKenoDeterministic(t *testing.T) {
	cfg := config.DefaultGames()
	params := &KenoParams{Picks: []int{7, 14, 21}}

	first, err := Resolve(testStream(42), params, cfg)
	require.NoError(t, err)
	second, err := Resolve(testStream(42), params, cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, first.Raw, second.Raw)
}

func TestKenoPaytableLookup(t *testing.T) {
	cfg := config.DefaultGames()
	params := &KenoParams{Picks: []int{4, 8, 15, 16, 23}}

	for nonce := uint64(0); nonce < 200; nonce++ {
		outcome, err := Resolve(testStream(nonce), params, cfg)
		require.NoError(t, err)

		res := outcome.Payload.(*KenoResult)
		row := cfg.KenoPaytable[len(params.Picks)]
		want := 0.0
		if len(res.Hits) < len(row) {
			want = row[len(res.Hits)]
		}
		got, _ := outcome.Multiplier.Float64()
		assert.Equal(t, want, got, "nonce %d, %d hits", nonce, len(res.Hits))
	}
}

func TestKenoPaytableShape(t *testing.T) {
	for picks, row := range config.KenoPaytable {
		assert.LessOrEqual(t, len(row), picks+1, "picks %d", picks)
		assert.GreaterOrEqual(t, picks, config.KenoMinPicks)
		assert.LessOrEqual(t, picks, config.KenoMaxPicks)
	}
}
