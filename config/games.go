package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"
)

// Games is the read-only configuration surface the outcome resolvers and
// round settlement consume: house edges, payout tables, symbol weights,
// bet limits. It is assembled from compiled-in defaults, optionally
// overlaid with a games.hcl file.
type Games struct {
	MinBet decimal.Decimal
	MaxBet decimal.Decimal

	DiceEdge float64

	CrashEdge        float64
	CrashCap         float64
	CrashInstantBust float64

	SlotSymbols       []SlotSymbol
	Paylines          [][3]int
	ScatterSymbol     string
	ScatterMin        int
	ScatterMultiplier float64
	ScatterFreeSpins  int

	KenoPaytable map[int][]float64

	RouletteReds map[int]bool

	PokerPaytable map[string]float64
}

// DefaultGames returns the built-in configuration.
func DefaultGames() *Games {
	minBet, _ := decimal.NewFromString(DefaultMinBet)
	maxBet, _ := decimal.NewFromString(DefaultMaxBet)

	return &Games{
		MinBet: minBet,
		MaxBet: maxBet,

		DiceEdge: DiceHouseEdge,

		CrashEdge:        CrashHouseEdge,
		CrashCap:         CrashMaxMultiplier,
		CrashInstantBust: CrashInstantBustRate,

		SlotSymbols:       DefaultSlotSymbols,
		Paylines:          DefaultPaylines,
		ScatterSymbol:     SlotsScatterSymbol,
		ScatterMin:        SlotsScatterMin,
		ScatterMultiplier: SlotsScatterMultiplier,
		ScatterFreeSpins:  SlotsScatterFreeSpins,

		KenoPaytable: KenoPaytable,

		RouletteReds: RouletteReds,

		PokerPaytable: PokerPaytable,
	}
}

/* =========================
   HCL OVERLAY
========================= */

type gamesFile struct {
	Bets  *betsBlock  `hcl:"bets,block"`
	Dice  *diceBlock  `hcl:"dice,block"`
	Crash *crashBlock `hcl:"crash,block"`
	Slots *slotsBlock `hcl:"slots,block"`
}

type betsBlock struct {
	Min string `hcl:"min"`
	Max string `hcl:"max"`
}

type diceBlock struct {
	HouseEdge float64 `hcl:"house_edge"`
}

type crashBlock struct {
	HouseEdge     float64 `hcl:"house_edge"`
	InstantBust   float64 `hcl:"instant_bust"`
	MaxMultiplier float64 `hcl:"max_multiplier"`
}

type slotsBlock struct {
	Symbols []SlotSymbol `hcl:"symbol,block"`
}

// LoadGames builds the game configuration, overlaying the HCL file at
// path when it exists. A missing file is not an error: the defaults
// stand alone.
func LoadGames(path string) (*Games, error) {
	cfg := DefaultGames()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var file gamesFile
	if err := hclsimple.DecodeFile(path, nil, &file); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if file.Bets != nil {
		minBet, err := decimal.NewFromString(file.Bets.Min)
		if err != nil {
			return nil, fmt.Errorf("bets.min: %w", err)
		}
		maxBet, err := decimal.NewFromString(file.Bets.Max)
		if err != nil {
			return nil, fmt.Errorf("bets.max: %w", err)
		}
		if maxBet.LessThanOrEqual(minBet) {
			return nil, fmt.Errorf("bets.max %s must exceed bets.min %s", maxBet, minBet)
		}
		cfg.MinBet = minBet
		cfg.MaxBet = maxBet
	}

	if file.Dice != nil {
		cfg.DiceEdge = file.Dice.HouseEdge
	}

	if file.Crash != nil {
		cfg.CrashEdge = file.Crash.HouseEdge
		cfg.CrashInstantBust = file.Crash.InstantBust
		cfg.CrashCap = file.Crash.MaxMultiplier
	}

	if file.Slots != nil && len(file.Slots.Symbols) > 0 {
		total := 0
		for _, s := range file.Slots.Symbols {
			if s.Weight <= 0 {
				return nil, fmt.Errorf("slots symbol %q: weight must be positive", s.Name)
			}
			total += s.Weight
		}
		if total == 0 {
			return nil, fmt.Errorf("slots symbols: total weight is zero")
		}
		cfg.SlotSymbols = file.Slots.Symbols
	}

	return cfg, nil
}
