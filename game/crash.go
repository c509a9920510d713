package game

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

// CrashParams carries the player's auto-cash-out target. The payout is
// bet x CashOut when the crash point exceeds it, zero otherwise.
type CrashParams struct {
	CashOut float64 `json:"cashOut"`
}

// CrashResult is the payload of a resolved crash round.
type CrashResult struct {
	CrashPoint float64 `json:"crashPoint"`
	CashOut    float64 `json:"cashOut"`
	Win        bool    `json:"win"`
}

func (p *CrashParams) Kind() Kind { return KindCrash }

func (p *CrashParams) Validate(cfg *config.Games) error {
	if p.CashOut < config.CrashMinCashOut {
		return fmt.Errorf("crash cash-out %.2f below minimum %.2f", p.CashOut, config.CrashMinCashOut)
	}
	if p.CashOut > cfg.CrashCap {
		return fmt.Errorf("crash cash-out %.2f above cap %.2f", p.CashOut, cfg.CrashCap)
	}
	if !twoDecimals(p.CashOut) {
		return fmt.Errorf("crash cash-out %v has more than two decimals", p.CashOut)
	}
	return nil
}

// crashPoint maps one derived value through the inverse transform
// (1-edge)/(1-f), floored to two decimals and capped. The configured
// instant-bust fraction of the float space resolves to exactly 1.00
// before the transform applies, which is where the distribution's
// long-run edge comes from.
func crashPoint(f float64, cfg *config.Games) float64 {
	if f < cfg.CrashInstantBust {
		return 1.00
	}

	point := math.Floor(100*(1-cfg.CrashEdge)/(1-f)) / 100
	if point < 1.00 {
		point = 1.00
	}
	if point > cfg.CrashCap {
		point = cfg.CrashCap
	}
	return point
}

func resolveCrash(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	cp := p.(*CrashParams)

	raw := s.Floats(0, 1)
	point := crashPoint(raw[0], cfg)

	win := cp.CashOut < point

	mult := decimal.Zero
	if win {
		mult = decimal.NewFromFloat(cp.CashOut)
	}

	return &CrashResult{
		CrashPoint: point,
		CashOut:    cp.CashOut,
		Win:        win,
	}, raw, mult, nil
}
