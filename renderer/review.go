package renderer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/etnz/ighist"
	md "github.com/nao1215/markdown"
)

// ReviewMarkdown renders one snapshot in detail: the valuation band, the
// open positions, and the events that landed in its window.
func ReviewMarkdown(accountID string, s ighist.PortfolioSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Review of %s on %s", accountID, s.Start.Format("2006-01-02")))

	doc.H2("Summary")
	doc.BulletList(
		fmt.Sprintf("Cash: %s", s.Cash),
		fmt.Sprintf("Net funding: %s", s.NetFunding),
		fmt.Sprintf("Book cost: %s", s.BookCost),
	)

	doc.H2("Valuation")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"View", "Book Value", "Account Value", "Net P&L", "Net P&L %"},
		Rows: [][]string{
			valuationRow("last trade", s.BookValue.LastTrade, s.AccountValue.LastTrade, s.NetPl.LastTrade, s.NetPlPercent.LastTrade),
			valuationRow("high", s.BookValue.High, s.AccountValue.High, s.NetPl.High, s.NetPlPercent.High),
			valuationRow("median", s.BookValue.Median, s.AccountValue.Median, s.NetPl.Median, s.NetPlPercent.Median),
			valuationRow("low", s.BookValue.Low, s.AccountValue.Low, s.NetPl.Low, s.NetPlPercent.Low),
		},
	})

	if len(s.Positions) > 0 {
		doc.H2("Positions")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Instrument", "Size", "Avg Price", "Last Trade", "Book Cost"},
			Rows:   [][]string{},
		}
		for _, id := range sortedPositionIDs(s.Positions) {
			p := s.Positions[id]
			if p.Size.IsZero() {
				continue
			}
			table.Rows = append(table.Rows, []string{
				p.InstrumentName,
				p.Size.String(),
				p.AveragePrice.String(),
				p.LatestTradePrice.String(),
				p.BookCost.String(),
			})
		}
		doc.Table(table)
	}

	if len(s.Funding) > 0 || len(s.Trades) > 0 || len(s.BetPnls) > 0 {
		doc.H2("Events")
		var events []string
		for _, f := range s.Funding {
			events = append(events, fmt.Sprintf("%s %s %s", f.Time.Format("2006-01-02"), f.Kind, f.Amount.SignedString()))
		}
		for _, t := range s.Trades {
			events = append(events, fmt.Sprintf("%s %s %s x %s at %s", t.Time.Format("2006-01-02 15:04"), t.Direction, t.Size.Abs(), t.InstrumentName, t.Price))
		}
		for _, b := range s.BetPnls {
			events = append(events, fmt.Sprintf("%s bet result %s over %d positions", b.Time.Format("2006-01-02"), b.Value.SignedString(), b.ClosedPositions))
		}
		doc.BulletList(events...)
	}

	return doc.String()
}

func valuationRow(view string, bookValue, accountValue, netPl ighist.Money, netPlPct ighist.Percent) []string {
	return []string{view, bookValue.String(), accountValue.String(), netPl.SignedString(), netPlPct.SignedString()}
}

func sortedPositionIDs(positions map[string]ighist.Position) []string {
	ids := make([]string, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
