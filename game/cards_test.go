package game

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairplay/config"
)

// card builds a deck index from rank ("2".."A") and suit ("C","D","H","S").
func card(t *testing.T, rank, suit byte) int {
	t.Helper()
	r := -1
	for i := 0; i < len(cardRanks); i++ {
		if cardRanks[i] == rank {
			r = i
		}
	}
	s := -1
	for i := 0; i < len(cardSuits); i++ {
		if cardSuits[i] == suit {
			s = i
		}
	}
	require.GreaterOrEqual(t, r, 0, "bad rank %c", rank)
	require.GreaterOrEqual(t, s, 0, "bad suit %c", suit)
	return s*13 + r
}

func mustFloat(t *testing.T, d decimal.Decimal) float64 {
	t.Helper()
	f, exact := d.Float64()
	require.True(t, exact || f != 0)
	return f
}

func hand(t *testing.T, cards ...string) []int {
	t.Helper()
	out := make([]int, len(cards))
	for i, c := range cards {
		require.Len(t, c, 2)
		out[i] = card(t, c[0], c[1])
	}
	return out
}

func TestCardsValidate(t *testing.T) {
	cfg := config.DefaultGames()

	assert.NoError(t, (&CardsParams{Variant: CardsVariantBlackjack}).Validate(cfg))
	assert.NoError(t, (&CardsParams{Variant: CardsVariantPoker}).Validate(cfg))
	assert.Error(t, (&CardsParams{Variant: "baccarat"}).Validate(cfg))
	assert.Error(t, (&CardsParams{}).Validate(cfg))
}

func TestCardName(t *testing.T) {
	assert.Equal(t, "2C", cardName(0))
	assert.Equal(t, "AC", cardName(12))
	assert.Equal(t, "2D", cardName(13))
	assert.Equal(t, "AS", cardName(51))
	assert.Equal(t, "TH", cardName(2*13+8))
}

func TestShoeDrawsWithoutReplacement(t *testing.T) {
	sh := newShoe(testStream(3))

	seen := make(map[int]bool, config.DeckSize)
	for i := 0; i < config.DeckSize; i++ {
		c := sh.draw()
		require.GreaterOrEqual(t, c, 0)
		require.Less(t, c, config.DeckSize)
		require.False(t, seen[c], "card %s drawn twice", cardName(c))
		seen[c] = true
	}
	assert.Empty(t, sh.remaining)
	assert.Len(t, sh.raw, config.DeckSize)
}

func TestShoeDeterministic(t *testing.T) {
	a, b := newShoe(testStream(9)), newShoe(testStream(9))
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.draw(), b.draw())
	}
}

func TestBlackjackTotal(t *testing.T) {
	cases := []struct {
		name  string
		cards []string
		total int
	}{
		{"simple", []string{"2C", "3D"}, 5},
		{"faces are ten", []string{"TH", "JS", "QC"}, 30},
		{"soft ace", []string{"AC", "6D"}, 17},
		{"natural", []string{"AC", "KD"}, 21},
		{"demoted ace", []string{"AC", "6D", "9H"}, 16},
		{"two aces", []string{"AC", "AD"}, 12},
		{"both demoted", []string{"AC", "AD", "KH", "9S"}, 21},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.total, blackjackTotal(hand(t, tc.cards...)))
		})
	}
}

func TestBlackjackResolve(t *testing.T) {
	cfg := config.DefaultGames()
	params := &CardsParams{Variant: CardsVariantBlackjack}

	for nonce := uint64(0); nonce < 1000; nonce++ {
		outcome, err := Resolve(testStream(nonce), params, cfg)
		require.NoError(t, err)

		res := outcome.Payload.(*CardsResult)
		require.Len(t, res.Player, 2)
		require.GreaterOrEqual(t, len(res.Dealer), 2)

		// Dealer stands at 17 or busts; never stops below.
		assert.GreaterOrEqual(t, res.DealerTotal, config.BlackjackDealerStand)

		switch res.Outcome {
		case "win":
			assert.True(t, res.DealerTotal > 21 || res.PlayerTotal > res.DealerTotal)
			// The player always stands on the initial two cards, so a
			// 21 is always a natural.
			want := config.BlackjackWinPayout
			if res.PlayerTotal == 21 {
				want = config.BlackjackNaturalPayout
			}
			assert.Equal(t, want, mustFloat(t, outcome.Multiplier), "nonce %d", nonce)
		case "push":
			assert.Equal(t, res.PlayerTotal, res.DealerTotal)
			assert.Equal(t, config.BlackjackPushPayout, mustFloat(t, outcome.Multiplier))
		case "lose":
			assert.True(t, res.DealerTotal <= 21 && res.PlayerTotal < res.DealerTotal)
			assert.True(t, outcome.Multiplier.IsZero())
		default:
			t.Fatalf("impossible outcome %q", res.Outcome)
		}
	}
}

func TestPokerCategory(t *testing.T) {
	cases := []struct {
		name     string
		cards    []string
		category string
	}{
		{"high card", []string{"2C", "5D", "9H", "JS", "KC"}, "high_card"},
		{"pair", []string{"2C", "2D", "9H", "JS", "KC"}, "pair"},
		{"two pair", []string{"2C", "2D", "9H", "9S", "KC"}, "two_pair"},
		{"trips", []string{"7C", "7D", "7H", "JS", "KC"}, "three_of_a_kind"},
		{"straight", []string{"5C", "6D", "7H", "8S", "9C"}, "straight"},
		{"wheel", []string{"AC", "2D", "3H", "4S", "5C"}, "straight"},
		{"broadway", []string{"TC", "JD", "QH", "KS", "AC"}, "straight"},
		{"flush", []string{"2H", "5H", "9H", "JH", "KH"}, "flush"},
		{"full house", []string{"7C", "7D", "7H", "KS", "KC"}, "full_house"},
		{"quads", []string{"7C", "7D", "7H", "7S", "KC"}, "four_of_a_kind"},
		{"straight flush", []string{"5H", "6H", "7H", "8H", "9H"}, "straight_flush"},
		{"steel wheel", []string{"AH", "2H", "3H", "4H", "5H"}, "straight_flush"},
		{"not a wheel", []string{"AC", "2D", "3H", "4S", "6C"}, "high_card"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.category, pokerCategory(hand(t, tc.cards...)))
		})
	}
}

func TestPokerResolve(t *testing.T) {
	cfg := config.DefaultGames()
	params := &CardsParams{Variant: CardsVariantPoker}

	for nonce := uint64(0); nonce < 500; nonce++ {
		outcome, err := Resolve(testStream(nonce), params, cfg)
		require.NoError(t, err)

		res := outcome.Payload.(*CardsResult)
		require.Len(t, res.Hand, pokerHandSize)
		require.Len(t, outcome.Raw, pokerHandSize)

		seen := make(map[string]bool, pokerHandSize)
		for _, c := range res.Hand {
			assert.False(t, seen[c], "card %s repeated at nonce %d", c, nonce)
			seen[c] = true
		}

		if m, ok := cfg.PokerPaytable[res.Category]; ok && m > 0 {
			assert.Equal(t, "win", res.Outcome)
			assert.Equal(t, m, mustFloat(t, outcome.Multiplier))
		} else {
			assert.Equal(t, "lose", res.Outcome)
			assert.True(t, outcome.Multiplier.IsZero())
		}
	}
}
