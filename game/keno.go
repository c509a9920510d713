package game

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

// KenoParams is the player's number selection: 1-10 unique picks from
// 1-80.
type KenoParams struct {
	Picks []int `json:"picks"`
}

// KenoResult is the payload of a resolved keno round. Draws preserves
// draw order; Hits is the intersection with the player's picks.
type KenoResult struct {
	Draws []int `json:"draws"`
	Hits  []int `json:"hits"`
}

func (p *KenoParams) Kind() Kind { return KindKeno }

func (p *KenoParams) Validate(cfg *config.Games) error {
	if len(p.Picks) < config.KenoMinPicks || len(p.Picks) > config.KenoMaxPicks {
		return fmt.Errorf("keno picks must number %d-%d, got %d",
			config.KenoMinPicks, config.KenoMaxPicks, len(p.Picks))
	}

	seen := make(map[int]bool, len(p.Picks))
	for _, n := range p.Picks {
		if n < 1 || n > config.KenoMaxNumber {
			return fmt.Errorf("keno pick %d out of range [1, %d]", n, config.KenoMaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("keno pick %d repeated", n)
		}
		seen[n] = true
	}
	return nil
}

func resolveKeno(s Stream, p Params, cfg *config.Games) (any, []float64, decimal.Decimal, error) {
	kp := p.(*KenoParams)

	// Twenty unique draws from 1-80. A duplicate draw burns its
	// subIndex and re-derives at the next one, so the sequence stays a
	// pure function of the seed triple.
	var raw []float64
	draws := make([]int, 0, config.KenoDrawCount)
	drawn := make(map[int]bool, config.KenoDrawCount)

	subIndex := 0
	for len(draws) < config.KenoDrawCount {
		f := s.FloatAt(subIndex)
		raw = append(raw, f)
		subIndex++

		n := int(f*config.KenoMaxNumber) + 1
		if n > config.KenoMaxNumber {
			n = config.KenoMaxNumber
		}
		if drawn[n] {
			continue
		}
		drawn[n] = true
		draws = append(draws, n)
	}

	var hits []int
	for _, pick := range kp.Picks {
		if drawn[pick] {
			hits = append(hits, pick)
		}
	}

	mult := decimal.Zero
	row := cfg.KenoPaytable[len(kp.Picks)]
	if len(hits) < len(row) {
		mult = decimal.NewFromFloat(row[len(hits)])
	}

	return &KenoResult{
		Draws: draws,
		Hits:  hits,
	}, raw, mult, nil
}
