// Package renderer turns reconstructed portfolio snapshots into markdown
// reports for the terminal.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/ighist"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the account history as one row per snapshot.
// Valuations use the median market view, the least jumpy of the band.
func HistoryMarkdown(accountID string, history []ighist.PortfolioSnapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", accountID))

	if len(history) == 0 {
		doc.PlainText("No events, no history.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Cash", "Book Cost", "Book Value", "Account Value", "Net P&L", "Net P&L %"},
		Rows:   [][]string{},
	}
	for _, s := range history {
		table.Rows = append(table.Rows, []string{
			s.Start.Format("2006-01-02"),
			s.Cash.String(),
			s.BookCost.String(),
			s.BookValue.Median.String(),
			s.AccountValue.Median.String(),
			s.NetPl.Median.SignedString(),
			s.NetPlPercent.Median.SignedString(),
		})
	}
	doc.Table(table)

	return doc.String()
}
