package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/ighist"
	"github.com/etnz/ighist/ig"
	"github.com/etnz/ighist/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	account    string
	date       string
	period     string
	priceType  string
	market     bool
	outputFile string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "rebuilds the valuation history of an account" }
func (*historyCmd) Usage() string {
	return `igh history -a <account> [-d <date>] [-p daily|weekly] [-market] [-o <file>]

  Replays the account's stored event log and rebuilds one portfolio
  snapshot per period, from the first event up to the given end date.

  With -market, daily market prices are fetched from the IG charts to
  revalue open positions between trades; this needs a live session.
  Without it, positions are valued at their last trade price.

  With -o, the snapshots are written to the file in JSONL form instead
  of being rendered as a table.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to rebuild")
	f.StringVar(&c.date, "d", "", "End date for the history (defaults to today)")
	f.StringVar(&c.period, "p", "daily", "Snapshot period (daily, weekly)")
	f.BoolVar(&c.market, "market", false, "Fetch market prices to revalue positions between trades")
	f.StringVar(&c.priceType, "price-type", "buy", "Which side of the market quote to use (buy, sell)")
	f.StringVar(&c.outputFile, "o", "", "Write snapshots to this file in JSONL form")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -a <account> is required.")
		return subcommands.ExitUsageError
	}

	history, err := c.rebuild()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.outputFile != "" {
		out, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if err := ighist.EncodeHistory(out, history); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot write %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.HistoryMarkdown(c.account, history))
	return subcommands.ExitSuccess
}

func (c *historyCmd) rebuild() ([]ighist.PortfolioSnapshot, error) {
	events, err := DecodeEvents(c.account)
	if err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	if c.date != "" {
		end, err = time.Parse("2006-01-02", c.date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", c.date)
		}
	}

	grain, err := periodGrain(c.period)
	if err != nil {
		return nil, err
	}

	source, err := c.priceSource()
	if err != nil {
		return nil, err
	}
	return buildHistory(events, source, end, grain)
}

// buildHistory replays one account's event log into snapshots. The price
// fetch range is bounded by the log's first event: the chart endpoint is
// queried per instrument over the whole range, year by year.
func buildHistory(events *ighist.EventLog, source ighist.PriceSource, end time.Time, grain time.Duration) ([]ighist.PortfolioSnapshot, error) {
	start := events.FirstEvent()
	if start.IsZero() {
		start = end
	}
	prices := ighist.NewPriceCache(source, start, end)
	return ighist.BuildPortfolioHistory(events.Funding, events.Trades, events.BetPnls, prices, end, grain)
}

func (c *historyCmd) priceSource() (ighist.PriceSource, error) {
	if !c.market {
		return noPrices{}, nil
	}
	session, err := ig.LoadSession()
	if err != nil {
		return nil, err
	}
	var priceType ig.PriceType
	switch c.priceType {
	case "buy":
		priceType = ig.PriceBuy
	case "sell":
		priceType = ig.PriceSell
	default:
		return nil, fmt.Errorf("invalid price type %q, expected buy or sell", c.priceType)
	}
	return &ig.PriceService{Client: ig.NewClient(*apiURI, session), Type: priceType}, nil
}

func periodGrain(period string) (time.Duration, error) {
	switch period {
	case "daily":
		return ighist.Day, nil
	case "weekly":
		return 7 * ighist.Day, nil
	}
	return 0, fmt.Errorf("invalid period %q, expected daily or weekly", period)
}

// noPrices values positions at their last trade price only.
type noPrices struct{}

func (noPrices) LoadPriceHistory(string, time.Time, time.Time) ([]ighist.PriceBar, error) {
	return nil, nil
}
