package game

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

const (
	CardsVariantBlackjack = "blackjack"
	CardsVariantPoker     = "poker"

	cardRanks = "23456789TJQKA"
	cardSuits = "CDHS"

	pokerHandSize = 5
)

// CardsParams selects which card game resolves the round.
type CardsParams struct {
	Variant string `json:"variant"`
}

// CardsResult is the payload of a resolved card-draw round. Blackjack
// fills Player/Dealer and totals; poker fills Hand and Category.
// Outcome is "win", "lose" or "push".
type CardsResult struct {
	Variant     string   `json:"variant"`
	Player      []string `json:"player,omitempty"`
	Dealer      []string `json:"dealer,omitempty"`
	PlayerTotal int      `json:"playerTotal,omitempty"`
	DealerTotal int      `json:"dealerTotal,omitempty"`
	Hand        []string `json:"hand,omitempty"`
	Category    string   `json:"category,omitempty"`
	Outcome     string   `json:"outcome"`
}

func (p *CardsParams) Kind() Kind { return KindCards }

func (p *CardsParams) Validate(cfg *config.Games) error {
	if p.Variant != CardsVariantBlackjack && p.Variant != CardsVariantPoker {
		return fmt.Errorf("cards variant must be %q or %q, got %q",
			CardsVariantBlackjack, CardsVariantPoker, p.Variant)
	}
	return nil
}

// cardName renders a deck index as rank+suit, e.g. index 51 -> "AS".
func cardName(idx int) string {
	return string(cardRanks[idx%13]) + string(cardSuits[idx/13])
}

func cardRank(idx int) int { return idx % 13 }
func cardSuit(idx int) int { return idx / 13 }

// shoe draws cards without replacement: each derived value indexes into
// the remaining deck, so a full deck replay from the same stream always
// deals the same cards.
type shoe struct {
	stream    Stream
	remaining []int
	subIndex  int
	raw       []float64
}

func newShoe(s Stream) *shoe {
	deck := make([]int, config.DeckSize)
	for i := range deck {
		deck[i] = i
	}
	return &shoe{stream: s, remaining: deck}
}

func (sh *shoe) draw() int {
	f := sh.stream.FloatAt(sh.subIndex)
	sh.raw = append(sh.raw, f)
	sh.subIndex++

	i := int(f * float64(len(sh.remaining)))
	if i >= len(sh.remaining) {
		i = len(sh.remaining) - 1
	}

	card := sh.remaining[i]
	sh.remaining = append(sh.remaining[:i], sh.remaining[i+1:]...)
	return card
}

/* =========================
   BLACKJACK
========================= */

// blackjackTotal values a hand with aces at 11, demoting them to 1 one
// at a time while the hand busts.
func blackjackTotal(cards []int) int {
	total := 0
	aces := 0
	for _, c := range cards {
		r := cardRank(c)
		switch {
		case r == 12: // ace
			total += 11
			aces++
		case r >= 8: // T J Q K
			total += 10
		default:
			total += r + 2
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func resolveBlackjack(sh *shoe, cfg *config.Games) (*CardsResult, decimal.Decimal) {
	player := []int{sh.draw(), sh.draw()}
	dealer := []int{sh.draw(), sh.draw()}

	// Dealer draws to a fixed rule; the player's "strategy" here is a
	// straight stand, which keeps the round a single resolution with
	// no mid-round decisions to commit to.
	for blackjackTotal(dealer) < config.BlackjackDealerStand {
		dealer = append(dealer, sh.draw())
	}

	pt := blackjackTotal(player)
	dt := blackjackTotal(dealer)
	natural := pt == 21 && len(player) == 2

	outcome := "lose"
	mult := decimal.Zero
	switch {
	case dt > 21 || pt > dt:
		outcome = "win"
		if natural {
			mult = decimal.NewFromFloat(config.BlackjackNaturalPayout)
		} else {
			mult = decimal.NewFromFloat(config.BlackjackWinPayout)
		}
	case pt == dt:
		outcome = "push"
		mult = decimal.NewFromFloat(config.BlackjackPushPayout)
	}

	names := func(cards []int) []string {
		out := make([]string, len(cards))
		for i, c := range cards {
			out[i] = cardName(c)
		}
		return out
	}

	return &CardsResult{
		Variant:     CardsVariantBlackjack,
		Player:      names(player),
		Dealer:      names(dealer),
		PlayerTotal: pt,
		DealerTotal: dt,
		Outcome:     outcome,
	}, mult
}

/* =========================
   FIVE-CARD POKER
========================= */

// pokerCategory classifies a five-card hand. The ace plays high and
// also low in A-2-3-4-5 straights.
func pokerCategory(cards []int) string {
	ranks := make([]int, 0, pokerHandSize)
	counts := map[int]int{}
	flush := true
	for i, c := range cards {
		ranks = append(ranks, cardRank(c))
		counts[cardRank(c)]++
		if i > 0 && cardSuit(c) != cardSuit(cards[0]) {
			flush = false
		}
	}
	sort.Ints(ranks)

	straight := false
	if len(counts) == pokerHandSize {
		if ranks[4]-ranks[0] == 4 {
			straight = true
		}
		// Wheel: A plays low under 2-3-4-5.
		if ranks[4] == 12 && ranks[0] == 0 && ranks[3] == 3 {
			straight = true
		}
	}

	var groups []int
	for _, n := range counts {
		groups = append(groups, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(groups)))

	switch {
	case straight && flush:
		return "straight_flush"
	case groups[0] == 4:
		return "four_of_a_kind"
	case groups[0] == 3 && groups[1] == 2:
		return "full_house"
	case flush:
		return "flush"
	case straight:
		return "straight"
	case groups[0] == 3:
		return "three_of_a_kind"
	case groups[0] == 2 && groups[1] == 2:
		return "two_pair"
	case groups[0] == 2:
		return "pair"
	default:
		return "high_card"
	}
}

func resolvePoker(sh *shoe, cfg *config.Games) (*CardsResult, decimal.Decimal) {
	hand := make([]int, 0, pokerHandSize)
	for len(hand) < pokerHandSize {
		hand = append(hand, sh.draw())
	}

	category := pokerCategory(hand)

	outcome := "lose"
	mult := decimal.Zero
	if m, ok := cfg.PokerPaytable[category]; ok && m > 0 {
		outcome = "win"
		mult = decimal.NewFromFloat(m)
	}

	names := make([]string, len(hand))
	for i, c := range hand {
		names[i] = cardName(c)
	}

	return &CardsResult{
		Variant:  CardsVariantPoker,
		Hand:     names,
		Category: category,
		Outcome:  outcome,
	}, mult
}

func resolveCards(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	cp := p.(*CardsParams)
	sh := newShoe(s)

	var payload *CardsResult
	var mult decimal.Decimal
	switch cp.Variant {
	case CardsVariantBlackjack:
		payload, mult = resolveBlackjack(sh, cfg)
	case CardsVariantPoker:
		payload, mult = resolvePoker(sh, cfg)
	default:
		return nil, nil, decimal.Zero, fmt.Errorf("unknown cards variant %q", cp.Variant)
	}

	return payload, sh.raw, mult, nil
}
