package game

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

const (
	SideHeads = "heads"
	SideTails = "tails"
)

// CoinflipParams is a single heads/tails call.
type CoinflipParams struct {
	Guess string `json:"guess"`
}

// CoinflipResult is the payload of a resolved coinflip round.
type CoinflipResult struct {
	Side  string `json:"side"`
	Guess string `json:"guess"`
	Win   bool   `json:"win"`
}

func (p *CoinflipParams) Kind() Kind { return KindCoinflip }

func (p *CoinflipParams) Validate(cfg *config.Games) error {
	if p.Guess != SideHeads && p.Guess != SideTails {
		return fmt.Errorf("coinflip guess must be %q or %q, got %q", SideHeads, SideTails, p.Guess)
	}
	return nil
}

func resolveCoinflip(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	cp := p.(*CoinflipParams)

	raw := s.Floats(0, 1)

	side := SideHeads
	if raw[0] >= 0.5 {
		side = SideTails
	}

	win := side == cp.Guess

	mult := decimal.Zero
	if win {
		mult = thresholdMultiplier(0.5, cfg.DiceEdge)
	}

	return &CoinflipResult{
		Side:  side,
		Guess: cp.Guess,
		Win:   win,
	}, raw, mult, nil
}
