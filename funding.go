package ighist

import "time"

// FundingKind classifies an account cash movement by the broker's own
// summary taxonomy. Transfers between accounts of the same holder show up
// as a withdrawal on one side and a deposit on the other.
type FundingKind string

const (
	CashIn         FundingKind = "Cash In"
	CashOut        FundingKind = "Cash Out"
	TransferIn     FundingKind = "Transfer In"
	TransferOut    FundingKind = "Transfer Out"
	InterestCharge FundingKind = "Interest"
)

// FundingEvent is a deposit or withdrawal on an account. Amount is signed:
// deposits positive, withdrawals negative.
type FundingEvent struct {
	Time      time.Time   `json:"time"`
	AccountID string      `json:"accountId"`
	Kind      FundingKind `json:"kind"`
	Amount    Money       `json:"amount"`
}

// BetPnl is the realized profit and loss of one day of leveraged betting
// on an account. Leveraged accounts report no per-position ledger, only
// this daily aggregate, so it flows straight into cash.
type BetPnl struct {
	Time                time.Time `json:"time"`
	AccountID           string    `json:"accountId"`
	Value               Money     `json:"value"`
	ClosedPositions     int       `json:"closedPositions"`
	ProfitablePositions int       `json:"profitablePositions"`
}
