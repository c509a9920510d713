package config

/* =========================
   BET LIMITS
========================= */

const (
	// Default bet window, in currency units. Overridable via games.hcl.
	DefaultMinBet = "0.10"
	DefaultMaxBet = "1000.00"
)

/* =========================
   GAME MECHANICS - DICE / COINFLIP
========================= */

const (
	DiceHouseEdge = 0.01 // 1% edge on dice and coinflip

	// Dice rolls are discrete: floor(f * 10000) / 100 gives exactly
	// 10,000 outcomes from 0.00 to 99.99.
	DiceSteps = 10000

	// Target must leave a playable win chance on both sides.
	DiceMinTarget = 0.01
	DiceMaxTarget = 99.99
)

/* =========================
   GAME MECHANICS - CRASH
========================= */

const (
	CrashHouseEdge     = 0.01
	CrashMaxMultiplier = 10000.0

	// Fraction of rounds that bust at exactly 1.00 regardless of the
	// inverse transform. Matches the long-run edge of the distribution.
	CrashInstantBustRate = 0.01

	CrashMinCashOut = 1.01
)

/* =========================
   GAME MECHANICS - SLOTS
========================= */

const (
	SlotsReels = 3
	SlotsRows  = 3

	SlotsScatterSymbol     = "star"
	SlotsScatterMin        = 3
	SlotsScatterMultiplier = 5.0
	SlotsScatterFreeSpins  = 5
)

// SlotSymbol is one entry on the weighted reel strip.
type SlotSymbol struct {
	Name       string  `hcl:"name,label"`
	Weight     int     `hcl:"weight"`
	Multiplier float64 `hcl:"multiplier"` // 3-of-a-kind payline multiplier
}

// DefaultSlotSymbols is the built-in reel strip. Weights are relative,
// not percentages.
var DefaultSlotSymbols = []SlotSymbol{
	{Name: "cherry", Weight: 30, Multiplier: 2},
	{Name: "lemon", Weight: 25, Multiplier: 3},
	{Name: "bell", Weight: 18, Multiplier: 5},
	{Name: "clover", Weight: 12, Multiplier: 10},
	{Name: "diamond", Weight: 8, Multiplier: 25},
	{Name: "seven", Weight: 4, Multiplier: 75},
	{Name: "star", Weight: 3, Multiplier: 0}, // scatter, pays via bonus
}

// DefaultPaylines are [reel0row, reel1row, reel2row] triples over the
// 3x3 board: the three horizontals plus both diagonals.
var DefaultPaylines = [][3]int{
	{0, 0, 0},
	{1, 1, 1},
	{2, 2, 2},
	{0, 1, 2},
	{2, 1, 0},
}

/* =========================
   GAME MECHANICS - KENO
========================= */

const (
	KenoMaxNumber = 80
	KenoDrawCount = 20
	KenoMinPicks  = 1
	KenoMaxPicks  = 10
)

// KenoPaytable maps picks -> hits -> multiplier. Rows shorter than
// picks+1 pay zero for the missing hit counts.
var KenoPaytable = map[int][]float64{
	1:  {0, 3.8},
	2:  {0, 1, 9},
	3:  {0, 0, 2, 45},
	4:  {0, 0, 1.7, 10, 85},
	5:  {0, 0, 1.4, 3, 30, 300},
	6:  {0, 0, 0, 2.5, 15, 80, 700},
	7:  {0, 0, 0, 1.5, 6, 30, 150, 1500},
	8:  {0, 0, 0, 1, 3.5, 15, 70, 500, 3000},
	9:  {0, 0, 0, 1, 2.5, 6, 30, 200, 1000, 4500},
	10: {0, 0, 0, 0, 1.5, 4, 15, 50, 300, 2000, 8000},
}

/* =========================
   GAME MECHANICS - ROULETTE
========================= */

const (
	RoulettePockets = 37 // European wheel: 0-36

	RouletteStraightMultiplier  = 36.0
	RouletteEvenMoneyMultiplier = 2.0
	RouletteDozenMultiplier     = 3.0
)

// RouletteReds is the fixed red-number assignment of a European wheel.
// Everything else nonzero is black; 0 is green.
var RouletteReds = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

/* =========================
   GAME MECHANICS - CARDS
========================= */

const (
	DeckSize = 52

	BlackjackDealerStand   = 17
	BlackjackWinPayout     = 2.0 // total returned on win, per unit bet
	BlackjackNaturalPayout = 2.5
	BlackjackPushPayout    = 1.0
)

// PokerPaytable maps five-card hand categories to multipliers for the
// card-draw poker variant. High card and one pair pay nothing.
var PokerPaytable = map[string]float64{
	"two_pair":        2,
	"three_of_a_kind": 4,
	"straight":        6,
	"flush":           9,
	"full_house":      15,
	"four_of_a_kind":  40,
	"straight_flush":  250,
}
