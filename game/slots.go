package game

import (
	"github.com/shopspring/decimal"

	"fairplay/config"
)

// SlotsParams has no player choices beyond the bet itself; the struct
// exists so slots dispatches through the same params union as every
// other kind.
type SlotsParams struct{}

// LineWin records one matched payline.
type LineWin struct {
	Line       int     `json:"line"`
	Symbol     string  `json:"symbol"`
	Multiplier float64 `json:"multiplier"`
}

// SlotsResult is the payload of a resolved slots spin. Board is
// [reel][row] symbol names.
type SlotsResult struct {
	Board        [config.SlotsReels][config.SlotsRows]string `json:"board"`
	LineWins     []LineWin                                   `json:"lineWins"`
	ScatterCount int                                         `json:"scatterCount"`
	FreeSpins    int                                         `json:"freeSpins"`
}

func (p *SlotsParams) Kind() Kind { return KindSlots }

func (p *SlotsParams) Validate(cfg *config.Games) error { return nil }

// pickSymbol maps one derived value to a symbol by walking the weight
// table. The total weight partitions [0,1) into one interval per
// symbol, so heavier symbols land proportionally more often.
func pickSymbol(f float64, symbols []config.SlotSymbol) config.SlotSymbol {
	total := 0
	for _, s := range symbols {
		total += s.Weight
	}

	point := f * float64(total)
	acc := 0.0
	for _, s := range symbols {
		acc += float64(s.Weight)
		if point < acc {
			return s
		}
	}
	// Unreachable for f in [0,1); guard against float edge.
	return symbols[len(symbols)-1]
}

func resolveSlots(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	cells := config.SlotsReels * config.SlotsRows
	raw := s.Floats(0, cells)

	multByName := make(map[string]float64, len(cfg.SlotSymbols))
	for _, sym := range cfg.SlotSymbols {
		multByName[sym.Name] = sym.Multiplier
	}

	var board [config.SlotsReels][config.SlotsRows]string
	scatters := 0
	for reel := 0; reel < config.SlotsReels; reel++ {
		for row := 0; row < config.SlotsRows; row++ {
			sym := pickSymbol(raw[reel*config.SlotsRows+row], cfg.SlotSymbols)
			board[reel][row] = sym.Name
			if sym.Name == cfg.ScatterSymbol {
				scatters++
			}
		}
	}

	// Each payline pays on three matching non-scatter symbols. The
	// total multiplier is the sum over matched lines; rounding waits
	// for settlement.
	total := decimal.Zero
	var wins []LineWin
	for i, line := range cfg.Paylines {
		a := board[0][line[0]]
		b := board[1][line[1]]
		c := board[2][line[2]]
		if a != b || b != c || a == cfg.ScatterSymbol {
			continue
		}
		m := multByName[a]
		if m <= 0 {
			continue
		}
		wins = append(wins, LineWin{Line: i, Symbol: a, Multiplier: m})
		total = total.Add(decimal.NewFromFloat(m))
	}

	freeSpins := 0
	if scatters >= cfg.ScatterMin {
		total = total.Add(decimal.NewFromFloat(cfg.ScatterMultiplier))
		freeSpins = cfg.ScatterFreeSpins
	}

	return &SlotsResult{
		Board:        board,
		LineWins:     wins,
		ScatterCount: scatters,
		FreeSpins:    freeSpins,
	}, raw, total, nil
}
