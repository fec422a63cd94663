package ig

import (
	"fmt"
	"sort"
	"time"

	"github.com/etnz/ighist"
)

// ledgerHistoryResponse wraps the dealing ledger payload.
type ledgerHistoryResponse struct {
	Success bool `json:"success"`
	Payload struct {
		AccountID  string `json:"accountID"`
		StartDate  string `json:"startDate"`
		EndDate    string `json:"endDate"`
		Pagination struct {
			Page             int `json:"page"`
			RecordsPerPage   int `json:"recordsPerPage"`
			PageCount        int `json:"pageCount"`
			TotalRecordCount int `json:"totalRecordCount"`
		} `json:"pagination"`
		TxnHistory []ighist.RawTrade `json:"txnHistory"`
	} `json:"payload"`
	Error any `json:"error"`
}

// LoadTrades fetches the dealing ledger of one account between two dates
// and returns the sanitized trades in time order.
func (c *Client) LoadTrades(account Account, from, to time.Time) ([]ighist.Trade, error) {
	addr := fmt.Sprintf("%s/deal/ledgerhistory/list?startDate=%s&endDate=%s&pageNumber=1&recordsPerPage=10000000",
		c.BaseURI, from.Format(pathDateFormat), to.Format(pathDateFormat))

	header := c.Session.headers()
	header.Set("Version", "1")
	header.Set("IG-Account-ID", account.ID)

	var body ledgerHistoryResponse
	if err := c.jwget(addr, header, &body); err != nil {
		return nil, fmt.Errorf("cannot load ledger for account %s: %w", account.ID, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("ledger query for account %s failed: %v", account.ID, body.Error)
	}

	trades := make([]ighist.Trade, 0, len(body.Payload.TxnHistory))
	for _, raw := range body.Payload.TxnHistory {
		t, err := ighist.SanitizeTrade(raw, account.ID, c.IncludeRawData)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Time.Before(trades[j].Time) })
	return trades, nil
}
