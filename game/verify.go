package game

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"fairplay/config"
	"fairplay/crypto"
)

// VerifyRequest is the public verification contract: everything here is
// a published value, so any third party can run Verify offline.
type VerifyRequest struct {
	ServerSeed     string          `json:"serverSeed"`
	ServerSeedHash string          `json:"serverSeedHash"`
	ClientSeed     string          `json:"clientSeed"`
	Nonce          uint64          `json:"nonce"`
	Kind           Kind            `json:"gameKind"`
	Params         json.RawMessage `json:"params"`

	ClaimedPayload    json.RawMessage `json:"claimedPayload"`
	ClaimedMultiplier decimal.Decimal `json:"claimedMultiplier"`
}

// VerifyResult reports the recomputed outcome and, on failure, which
// stage broke: commitment, params, resolution, payload or multiplier.
type VerifyResult struct {
	Valid      bool     `json:"valid"`
	Reason     string   `json:"reason,omitempty"`
	Recomputed *Outcome `json:"recomputedOutcome,omitempty"`
}

// Verify recomputes a round from its four published inputs and compares
// it against the claimed outcome. Side-effect free; no session state,
// network or database involved.
func Verify(req VerifyRequest, cfg *config.Games) VerifyResult {
	if !crypto.VerifySeed(req.ServerSeed, req.ServerSeedHash) {
		return VerifyResult{
			Valid:  false,
			Reason: "commitment: revealed server seed does not hash to the published commitment",
		}
	}

	params, err := UnmarshalParams(req.Kind, req.Params)
	if err != nil {
		return VerifyResult{Valid: false, Reason: fmt.Sprintf("params: %v", err)}
	}
	if err := params.Validate(cfg); err != nil {
		return VerifyResult{Valid: false, Reason: fmt.Sprintf("params: %v", err)}
	}

	stream := Stream{
		ServerSeed: req.ServerSeed,
		ClientSeed: req.ClientSeed,
		Nonce:      req.Nonce,
	}
	outcome, err := Resolve(stream, params, cfg)
	if err != nil {
		return VerifyResult{Valid: false, Reason: fmt.Sprintf("resolution: %v", err)}
	}

	claimed, err := UnmarshalPayload(req.Kind, req.ClaimedPayload)
	if err != nil {
		return VerifyResult{
			Valid:      false,
			Reason:     fmt.Sprintf("payload: %v", err),
			Recomputed: outcome,
		}
	}
	if !reflect.DeepEqual(outcome.Payload, claimed) {
		return VerifyResult{
			Valid:      false,
			Reason:     "payload: recomputed result does not match the claimed result",
			Recomputed: outcome,
		}
	}

	if !outcome.Multiplier.Equal(req.ClaimedMultiplier) {
		return VerifyResult{
			Valid: false,
			Reason: fmt.Sprintf("multiplier: recomputed %s, claimed %s",
				outcome.Multiplier, req.ClaimedMultiplier),
			Recomputed: outcome,
		}
	}

	return VerifyResult{Valid: true, Recomputed: outcome}
}
