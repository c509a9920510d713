package game

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

// DiceParams is an over/under bet against a two-decimal target.
type DiceParams struct {
	Target   float64 `json:"target"`
	RollOver bool    `json:"rollOver"`
}

// DiceResult is the payload of a resolved dice round.
type DiceResult struct {
	Roll     float64 `json:"roll"`
	Target   float64 `json:"target"`
	RollOver bool    `json:"rollOver"`
	Win      bool    `json:"win"`
}

func (p *DiceParams) Kind() Kind { return KindDice }

func (p *DiceParams) Validate(cfg *config.Games) error {
	if p.Target < config.DiceMinTarget || p.Target > config.DiceMaxTarget {
		return fmt.Errorf("dice target %.2f out of range [%.2f, %.2f]",
			p.Target, config.DiceMinTarget, config.DiceMaxTarget)
	}
	if !twoDecimals(p.Target) {
		return fmt.Errorf("dice target %v has more than two decimals", p.Target)
	}
	return nil
}

// twoDecimals reports whether v is representable on a 0.01 grid,
// tolerating binary float noise.
func twoDecimals(v float64) bool {
	scaled := v * 100
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// diceWinChance is the probability of winning the over/under bet on the
// discrete 0.00-100.00 roll space.
func diceWinChance(target float64, rollOver bool) float64 {
	if rollOver {
		return (100.0 - target) / 100.0
	}
	return target / 100.0
}

func resolveDice(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	dp := p.(*DiceParams)

	raw := s.Floats(0, 1)
	roll := math.Floor(raw[0]*config.DiceSteps) / 100

	win := false
	if dp.RollOver {
		win = roll > dp.Target
	} else {
		win = roll < dp.Target
	}

	mult := decimal.Zero
	if win {
		chance := diceWinChance(dp.Target, dp.RollOver)
		mult = thresholdMultiplier(chance, cfg.DiceEdge)
	}

	return &DiceResult{
		Roll:     roll,
		Target:   dp.Target,
		RollOver: dp.RollOver,
		Win:      win,
	}, raw, mult, nil
}

// thresholdMultiplier prices a win of probability chance so the
// expected value is 1-edge: multiplier = (1-edge)/chance, kept at four
// decimals so identical params always price identically.
func thresholdMultiplier(chance, edge float64) decimal.Decimal {
	return decimal.NewFromFloat(1 - edge).
		Div(decimal.NewFromFloat(chance)).
		Round(4)
}
