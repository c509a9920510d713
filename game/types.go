package game

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"fairplay/config"
)

// Kind identifies a game. The set is closed: every kind carries its own
// params and payload types and resolves through the table below.
type Kind string

const (
	KindDice     Kind = "dice"
	KindCoinflip Kind = "coinflip"
	KindCrash    Kind = "crash"
	KindSlots    Kind = "slots"
	KindKeno     Kind = "keno"
	KindRoulette Kind = "roulette"
	KindCards    Kind = "cards"
)

// Stream is the handle a resolver draws derived values from. It carries
// no state; every call recomputes from the seed triple, so resolution
// is replayable by anyone holding the three inputs.
type Stream struct {
	ServerSeed string
	ClientSeed string
	Nonce      uint64
}

// Floats returns count values in [0,1) starting at the given subIndex.
func (s Stream) Floats(subIndex, count int) []float64 {
	return Floats(s.ServerSeed, s.ClientSeed, s.Nonce, subIndex, count)
}

// FloatAt returns the single value at subIndex.
func (s Stream) FloatAt(subIndex int) float64 {
	return FloatAt(s.ServerSeed, s.ClientSeed, s.Nonce, subIndex)
}

// Params is the game-specific input a player supplies with a bet.
// Implementations are plain structs; Validate runs before any seed or
// nonce is touched.
type Params interface {
	Kind() Kind
	Validate(cfg *config.Games) error
}

// Outcome is the resolved result of one round: the payload a player
// sees, the multiplier the settlement applies, and the raw derived
// values retained for audit.
type Outcome struct {
	Kind       Kind            `json:"kind"`
	Raw        []float64       `json:"raw"`
	Payload    any             `json:"payload"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type resolveFunc func(s Stream, p Params, cfg *config.Games) (payload any, raw []float64, mult decimal.Decimal, err error)

var resolvers = map[Kind]resolveFunc{
	KindDice:     resolveDice,
	KindCoinflip: resolveCoinflip,
	KindCrash:    resolveCrash,
	KindSlots:    resolveSlots,
	KindKeno:     resolveKeno,
	KindRoulette: resolveRoulette,
	KindCards:    resolveCards,
}

// Resolve runs the matching resolver for the params' kind. Pure: no
// I/O, no shared state, byte-identical output for identical inputs.
func Resolve(s Stream, p Params, cfg *config.Games) (*Outcome, error) {
	r, ok := resolvers[p.Kind()]
	if !ok {
		return nil, fmt.Errorf("unknown game kind %q", p.Kind())
	}

	payload, raw, mult, err := r(s, p, cfg)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Kind:       p.Kind(),
		Raw:        raw,
		Payload:    payload,
		Multiplier: mult,
	}, nil
}

// UnmarshalParams decodes the JSON params for a kind into its typed
// form. Used at the API and CLI boundaries.
func UnmarshalParams(kind Kind, data []byte) (Params, error) {
	var p Params
	switch kind {
	case KindDice:
		p = &DiceParams{}
	case KindCoinflip:
		p = &CoinflipParams{}
	case KindCrash:
		p = &CrashParams{}
	case KindSlots:
		p = &SlotsParams{}
	case KindKeno:
		p = &KenoParams{}
	case KindRoulette:
		p = &RouletteParams{}
	case KindCards:
		p = &CardsParams{}
	default:
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}

	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to decode %s params: %w", kind, err)
	}
	return p, nil
}

// UnmarshalPayload decodes a claimed payload into the typed form for a
// kind, so the verifier can compare it structurally against a recompute.
func UnmarshalPayload(kind Kind, data []byte) (any, error) {
	var v any
	switch kind {
	case KindDice:
		v = &DiceResult{}
	case KindCoinflip:
		v = &CoinflipResult{}
	case KindCrash:
		v = &CrashResult{}
	case KindSlots:
		v = &SlotsResult{}
	case KindKeno:
		v = &KenoResult{}
	case KindRoulette:
		v = &RouletteResult{}
	case KindCards:
		v = &CardsResult{}
	default:
		return nil, fmt.Errorf("unknown game kind %q", kind)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return v, nil
}
