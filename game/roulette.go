package game

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

// Roulette bet types. Straight bets carry the picked number; the rest
// are position bets over the fixed wheel layout.
const (
	RouletteBetStraight = "straight"
	RouletteBetRed      = "red"
	RouletteBetBlack    = "black"
	RouletteBetOdd      = "odd"
	RouletteBetEven     = "even"
	RouletteBetLow      = "low"  // 1-18
	RouletteBetHigh     = "high" // 19-36
	RouletteBetDozen1   = "dozen1"
	RouletteBetDozen2   = "dozen2"
	RouletteBetDozen3   = "dozen3"
)

// RouletteParams is one bet on a European wheel.
type RouletteParams struct {
	Bet    string `json:"bet"`
	Number int    `json:"number,omitempty"` // straight bets only
}

// RouletteResult is the payload of a resolved roulette round.
type RouletteResult struct {
	Pocket int    `json:"pocket"`
	Color  string `json:"color"`
	Win    bool   `json:"win"`
}

func (p *RouletteParams) Kind() Kind { return KindRoulette }

func (p *RouletteParams) Validate(cfg *config.Games) error {
	switch p.Bet {
	case RouletteBetStraight:
		if p.Number < 0 || p.Number >= config.RoulettePockets {
			return fmt.Errorf("roulette number %d out of range [0, %d]", p.Number, config.RoulettePockets-1)
		}
		return nil
	case RouletteBetRed, RouletteBetBlack, RouletteBetOdd, RouletteBetEven,
		RouletteBetLow, RouletteBetHigh,
		RouletteBetDozen1, RouletteBetDozen2, RouletteBetDozen3:
		return nil
	default:
		return fmt.Errorf("unknown roulette bet type %q", p.Bet)
	}
}

func pocketColor(pocket int, reds map[int]bool) string {
	switch {
	case pocket == 0:
		return "green"
	case reds[pocket]:
		return "red"
	default:
		return "black"
	}
}

func rouletteWins(p *RouletteParams, pocket int, color string) bool {
	switch p.Bet {
	case RouletteBetStraight:
		return pocket == p.Number
	case RouletteBetRed:
		return color == "red"
	case RouletteBetBlack:
		return color == "black"
	case RouletteBetOdd:
		return pocket != 0 && pocket%2 == 1
	case RouletteBetEven:
		return pocket != 0 && pocket%2 == 0
	case RouletteBetLow:
		return pocket >= 1 && pocket <= 18
	case RouletteBetHigh:
		return pocket >= 19 && pocket <= 36
	case RouletteBetDozen1:
		return pocket >= 1 && pocket <= 12
	case RouletteBetDozen2:
		return pocket >= 13 && pocket <= 24
	case RouletteBetDozen3:
		return pocket >= 25 && pocket <= 36
	}
	return false
}

func rouletteMultiplier(bet string) decimal.Decimal {
	switch bet {
	case RouletteBetStraight:
		return decimal.NewFromFloat(config.RouletteStraightMultiplier)
	case RouletteBetDozen1, RouletteBetDozen2, RouletteBetDozen3:
		return decimal.NewFromFloat(config.RouletteDozenMultiplier)
	default:
		return decimal.NewFromFloat(config.RouletteEvenMoneyMultiplier)
	}
}

func resolveRoulette(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	rp := p.(*RouletteParams)

	raw := s.Floats(0, 1)

	pocket := int(raw[0] * config.RoulettePockets)
	if pocket >= config.RoulettePockets {
		pocket = config.RoulettePockets - 1
	}
	color := pocketColor(pocket, cfg.RouletteReds)

	win := rouletteWins(rp, pocket, color)

	mult := decimal.Zero
	if win {
		mult = rouletteMultiplier(rp.Bet)
	}

	return &RouletteResult{
		Pocket: pocket,
		Color:  color,
		Win:    win,
	}, raw, mult, nil
}
