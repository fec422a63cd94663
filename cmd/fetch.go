package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/ighist/ig"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	account  string
	backdate string
	months   int
	raw      bool
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "downloads account events from the IG API" }
func (*fetchCmd) Usage() string {
	return `igh fetch [-a <account>] [-backdate <date>] [-months <n>]

  Downloads funding movements, trades and daily bet results for each
  account of the stored session, batch by batch, and appends them to
  the account's event log in the store.

  Progress is saved between runs: an interrupted or partially failed
  fetch resumes from its pending batches on the next run.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Fetch a single account. Fetches all accounts by default.")
	f.StringVar(&c.backdate, "backdate", "2010-01-01T00:00:00Z", "Start of history, RFC 3339")
	f.IntVar(&c.months, "months", 2, "Calendar length of one fetch batch")
	f.BoolVar(&c.raw, "raw", false, "Keep the raw ledger records on sanitized trades")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	session, err := ig.LoadSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client := ig.NewClient(*apiURI, session)
	client.IncludeRawData = c.raw
	loader := &ig.Loader{Client: client, Backdate: c.backdate, BatchMonths: c.months}

	now := time.Now()
	for _, account := range session.Accounts {
		if c.account != "" && account.ID != c.account {
			continue
		}
		if err := c.fetch(loader, account, now); err != nil {
			fmt.Fprintf(os.Stderr, "Error: account %s: %v\n", account.ID, err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

func (c *fetchCmd) fetch(loader *ig.Loader, account ig.Account, now time.Time) error {
	prior, err := DecodeRehydration(account.ID)
	if err != nil {
		return err
	}
	if prior != nil && len(prior.Pending) == 0 {
		fmt.Fprintf(os.Stderr, "Account %s is up to date until %s.\n",
			account.ID, prior.LastCompleted.Format("2006-01-02"))
		return nil
	}

	events, r, err := loader.FetchAccount(account, prior, now)
	if err != nil {
		return err
	}
	if err := AppendEvents(events); err != nil {
		return err
	}
	if err := EncodeRehydration(account.ID, r); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Account %s: %d funding, %d trades, %d bet results",
		account.ID, len(events.Funding), len(events.Trades), len(events.BetPnls))
	if len(r.Pending) > 0 {
		fmt.Fprintf(os.Stderr, " (%d ranges still pending, rerun to retry)", len(r.Pending))
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
