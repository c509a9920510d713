// reconcile is the operator tool for faulted rounds. A round lands in
// the parking queue when its outcome resolved but settlement could not
// be confirmed; it must be resolved by hand against the ledger, never
// re-rolled. This tool lists the queue, inspects mirrored sessions and
// clears entries once an operator has reconciled them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"fairplay/db"
)

var cli struct {
	List    listCmd    `cmd:"" help:"List round IDs awaiting reconciliation."`
	Clear   clearCmd   `cmd:"" help:"Remove a reconciled round from the queue."`
	Session sessionCmd `cmd:"" help:"Show a player's mirrored seed session."`
}

type listCmd struct{}

func (c *listCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ids, err := db.ListUnsettledRounds(ctx)
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		fmt.Println("No unsettled rounds.")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Printf("%d unsettled round(s)\n", len(ids))
	return nil
}

type clearCmd struct {
	RoundID string `arg:"" help:"Round ID to clear."`
}

func (c *clearCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.ClearUnsettledRound(ctx, c.RoundID); err != nil {
		return err
	}
	fmt.Printf("Cleared round %s\n", c.RoundID)
	return nil
}

type sessionCmd struct {
	PlayerID string `arg:"" help:"Player whose session to inspect."`
}

func (c *sessionCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data, err := db.GetSession(ctx, c.PlayerID)
	if err != nil {
		return err
	}
	if data == nil {
		fmt.Printf("No mirrored session for player %s\n", c.PlayerID)
		return nil
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	kctx := kong.Parse(&cli,
		kong.Name("reconcile"),
		kong.Description("Inspect and clear the unsettled-round parking queue."),
	)

	if err := db.InitRedis(); err != nil {
		kctx.FatalIfErrorf(err)
	}
	defer db.CloseRedis()

	kctx.FatalIfErrorf(kctx.Run())
}
