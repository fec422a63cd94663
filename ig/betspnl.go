package ig

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/etnz/ighist"
)

const betsDateFormat = "2006-01-02"

// LoadBetPnls fetches the daily realized P&L of one leveraged account.
//
// Accounts that never placed a bet answer 404; that is an empty history,
// not a failure. Share dealing accounts are skipped outright since the
// endpoint does not exist for them.
func (c *Client) LoadBetPnls(account Account, from, to time.Time) ([]ighist.BetPnl, error) {
	if !account.Leveraged() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("startDate", from.Format(betsDateFormat))
	params.Set("endDate", to.Format(betsDateFormat))
	addr := c.BetsURI + "/uk/myig/api/client-performance/charts/pnlDaily?" + params.Encode()

	header := c.Session.headers()
	header.Set("Accept", "application/json, text/plain, */*")
	header.Set("IG-ACCOUNT-ID", account.ID)

	var body struct {
		Currency   string `json:"currency"`
		DataPoints []struct {
			Date                string  `json:"date"`
			Value               float64 `json:"value"`
			ClosedPositions     int     `json:"closedPositions"`
			ProfitablePositions int     `json:"profitablePositions"`
		} `json:"dataPoints"`
	}
	if err := c.jwget(addr, header, &body); err != nil {
		if isNotFound(err) {
			log.Printf("warning: no bet history for account %s, it most likely has no trade data", account.ID)
			return nil, nil
		}
		return nil, fmt.Errorf("cannot load bet results for account %s: %w", account.ID, err)
	}

	var pnls []ighist.BetPnl
	for _, p := range body.DataPoints {
		when, err := time.ParseInLocation(betsDateFormat, p.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid bet result date %q: %w", p.Date, err)
		}
		pnls = append(pnls, ighist.BetPnl{
			Time:                when,
			AccountID:           account.ID,
			Value:               ighist.M(p.Value, body.Currency),
			ClosedPositions:     p.ClosedPositions,
			ProfitablePositions: p.ProfitablePositions,
		})
	}
	return pnls, nil
}
