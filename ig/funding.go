package ig

import (
	"fmt"
	"net/url"
	"time"

	"github.com/etnz/ighist"
)

// pathDateFormat is the dd-MM-yyyy layout of transaction history URLs.
const pathDateFormat = "02-01-2006"

// Transaction summary labels as the API reports them.
const (
	SummaryCashIn        = "Cash In"
	SummaryCashOut       = "Cash Out"
	SummaryConsideration = "Client Consideration"
	SummaryClosingTrades = "Closing trades"
	SummaryCommissions   = "Share Dealing Commissions"
	SummarySDRT          = "SDRT"
	SummaryDividend      = "Dividend"
	SummaryDividendsPaid = "Dividends Paid"
	SummaryExchangeFees  = "Exchange Fees"
	SummaryPTMLevy       = "PTM Levy"
	SummaryCFDInterest   = "CFD funding Interest Paid"
	SummaryBorrowCosts   = "Stock Borrowing Costs"
	SummaryTransfers     = "Inter Account Transfers"
)

// SummaryFlags classifies a transaction summary into the three groups the
// reconstruction cares about.
type SummaryFlags struct {
	IsBankTransfer bool
	IsClosingTrade bool
	IsFee          bool
}

func flagsOf(summary string) SummaryFlags {
	switch summary {
	case SummaryCashIn, SummaryCashOut:
		return SummaryFlags{IsBankTransfer: true}
	case SummaryConsideration, SummaryClosingTrades:
		return SummaryFlags{IsClosingTrade: true}
	case SummaryCommissions, SummarySDRT, SummaryDividend, SummaryDividendsPaid,
		SummaryExchangeFees, SummaryPTMLevy, SummaryCFDInterest, SummaryBorrowCosts:
		return SummaryFlags{IsFee: true}
	}
	return SummaryFlags{}
}

// RawTransaction mirrors one entry of the transaction history payload.
type RawTransaction struct {
	Date            string `json:"date"`
	Summary         string `json:"summary"`
	MarketName      string `json:"marketName"`
	Period          string `json:"period"`
	ProfitAndLoss   string `json:"profitAndLoss"`
	TransactionType string `json:"transactionType"`
	Reference       string `json:"reference"`
	OpenLevel       string `json:"openLevel"`
	CloseLevel      string `json:"closeLevel"`
	Size            string `json:"size"`
	Currency        string `json:"currency"`
	PlAmount        string `json:"plAmount"`
	CashTransaction bool   `json:"cashTransaction"`
	DateUTC         string `json:"dateUtc"`
	OpenDateUTC     string `json:"openDateUtc"`
	CurrencyISOCode string `json:"currencyIsoCode"`
}

// Flags classifies the transaction by its summary label.
func (t RawTransaction) Flags() SummaryFlags { return flagsOf(t.Summary) }

// transaction history code filters. The fromcodes endpoint wants numeric
// codes, not the summary labels.
const (
	codesAll     = "ALL"
	codesFunding = "20001,20002" // deposits and withdrawals
)

// LoadTransactions fetches the raw transaction history of one account
// between two dates, filtered to the given codes.
func (c *Client) LoadTransactions(account Account, from, to time.Time, codes string) ([]RawTransaction, error) {
	addr := fmt.Sprintf("%s/deal/v2/history/transactions/%s/%s/fromcodes?pageSize=10000000&pageNumber=1&codes=%s",
		c.BaseURI, from.Format(pathDateFormat), to.Format(pathDateFormat), url.QueryEscape(codes))

	header := c.Session.headers()
	header.Set("Version", "1")
	header.Set("IG-Account-ID", account.ID)

	var body struct {
		Transactions []RawTransaction `json:"transactions"`
	}
	if err := c.jwget(addr, header, &body); err != nil {
		return nil, fmt.Errorf("cannot load transactions for account %s: %w", account.ID, err)
	}
	return body.Transactions, nil
}

// LoadFunding fetches the deposits and withdrawals of one account and
// converts them into signed funding events.
func (c *Client) LoadFunding(account Account, from, to time.Time) ([]ighist.FundingEvent, error) {
	transactions, err := c.LoadTransactions(account, from, to, codesFunding)
	if err != nil {
		return nil, err
	}

	var events []ighist.FundingEvent
	for _, t := range transactions {
		amount, ok := ighist.ParseAmount(t.ProfitAndLoss)
		if !ok {
			continue
		}
		when, err := parseUTCDate(t.DateUTC)
		if err != nil {
			return nil, fmt.Errorf("funding %s: %w", t.Reference, err)
		}
		events = append(events, ighist.FundingEvent{
			Time:      when,
			AccountID: account.ID,
			Kind:      ighist.FundingKind(t.Summary),
			Amount:    ighist.M(amount, t.Currency),
		})
	}
	return events, nil
}

// parseUTCDate parses the dateUtc field, which comes with or without a
// zone designator depending on the endpoint version.
func parseUTCDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid utc date %q: %w", value, err)
	}
	return t, nil
}
