package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/ighist"
	"github.com/etnz/ighist/renderer"
	"github.com/google/subcommands"
)

type reviewCmd struct {
	history historyCmd
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "displays the account state on a single day" }
func (*reviewCmd) Usage() string {
	return `igh review -a <account> [-d <date>] [-market]

  Rebuilds the account history up to the given date and displays the
  snapshot covering that date: cash, open positions, valuation and the
  events of the day.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	c.history.period = "daily"
	c.history.priceType = "buy"
	f.StringVar(&c.history.account, "a", "", "Account to review")
	f.StringVar(&c.history.date, "d", "", "Date to review (defaults to today)")
	f.BoolVar(&c.history.market, "market", false, "Fetch market prices to revalue positions between trades")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.history.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a <account> is required.")
		return subcommands.ExitUsageError
	}

	history, err := c.history.rebuild()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(history) == 0 {
		fmt.Fprintln(os.Stderr, "No events, nothing to review.")
		return subcommands.ExitSuccess
	}

	date := time.Now().UTC()
	if c.history.date != "" {
		// already validated by rebuild
		date, _ = time.Parse("2006-01-02", c.history.date)
	}

	printMarkdown(renderer.ReviewMarkdown(c.history.account, snapshotOn(history, date)))
	return subcommands.ExitSuccess
}

// snapshotOn picks the last snapshot starting at or before date, or the
// earliest one when date predates the history.
func snapshotOn(history []ighist.PortfolioSnapshot, date time.Time) ighist.PortfolioSnapshot {
	picked := history[0]
	for _, s := range history {
		if s.Start.After(date) {
			break
		}
		picked = s
	}
	return picked
}
