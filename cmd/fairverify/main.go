// fairverify recomputes a round outcome from published values alone.
// It talks to no network and no database: anyone holding the revealed
// seed pair, nonce and claimed outcome can confirm or refute a result.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"fairplay/config"
	"fairplay/game"
)

var cli struct {
	ServerSeed     string `help:"Revealed server seed (hex)." required:""`
	ServerSeedHash string `help:"Commitment published before play." required:""`
	ClientSeed     string `help:"Client seed in effect for the round." required:""`
	Nonce          uint64 `help:"Round nonce." required:""`
	Game           string `help:"Game kind: dice, coinflip, crash, slots, keno, roulette, cards." required:""`
	Params         string `help:"Round params as JSON." default:"{}"`
	Payload        string `help:"Claimed result payload as JSON." required:""`
	Multiplier     string `help:"Claimed payout multiplier." required:""`
	GamesConfig    string `help:"Optional games.hcl overlay." type:"path"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("fairverify"),
		kong.Description("Offline provably-fair round verification."),
	)

	cfg, err := config.LoadGames(cli.GamesConfig)
	kctx.FatalIfErrorf(err)

	mult, err := decimal.NewFromString(cli.Multiplier)
	kctx.FatalIfErrorf(err, "invalid multiplier")

	req := game.VerifyRequest{
		ServerSeed:        cli.ServerSeed,
		ServerSeedHash:    cli.ServerSeedHash,
		ClientSeed:        cli.ClientSeed,
		Nonce:             cli.Nonce,
		Kind:              game.Kind(cli.Game),
		Params:            json.RawMessage(cli.Params),
		ClaimedPayload:    json.RawMessage(cli.Payload),
		ClaimedMultiplier: mult,
	}

	result := game.Verify(req, cfg)

	out, err := json.MarshalIndent(result, "", "  ")
	kctx.FatalIfErrorf(err)
	fmt.Println(string(out))

	if !result.Valid {
		os.Exit(1)
	}
}
