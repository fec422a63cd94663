package ig

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/etnz/ighist"
)

const ledgerPayload = `{
	"success": true,
	"payload": {
		"accountID": "AAA",
		"startDate": "__",
		"endDate": "__",
		"pagination": {"page": 1, "pageCount": 1, "recordsPerPage": 1000, "totalRecordCount": 2},
		"txnHistory": [
			{
				"accountId": "AAA",
				"convertOnCloseRate": "1.0000000",
				"currency": "GBP",
				"direction": "-",
				"epic": "KA.D.EQQQLN.CASH.IP",
				"formalInstrumentName": "Invesco EQQQ NASDAQ-100 UCITS ETF",
				"instrumentDesc": "Invesco EQQQ NASDAQ-100 UCITS ETF",
				"orderID": "ORDER2",
				"orderSize": "-0.12",
				"price": "22373.88",
				"scaledSize": "-12",
				"amounts": [
					{"value": 2684.87, "currency": "GBP", "amountType": "CONSIDERATION"},
					{"value": -3, "currency": "GBP", "amountType": "COMMISSION"},
					{"value": 0, "currency": "GBP", "amountType": "TOTAL_CHARGE"},
					{"value": -2681.87, "currency": "GBP", "amountType": "TOTAL_AMOUNT"}
				],
				"tradeDate": "23/02/2019",
				"tradeTime": "14:45:48",
				"tradeValue": "-2684.8656",
				"tradeType": "TRADE"
			},
			{
				"accountId": "AAA",
				"convertOnCloseRate": "0.7352395",
				"currency": "USD",
				"direction": "+",
				"epic": "SA.D.AMD.CASH.IP",
				"formalInstrumentName": "Advanced Micro Devices Inc",
				"instrumentDesc": "Advanced Micro Devices Inc (All Sessions)",
				"orderID": "ORDER1",
				"orderSize": "0.08",
				"price": "84.91",
				"scaledSize": "8",
				"amounts": [
					{"value": -679.28, "currency": "USD", "amountType": "CONSIDERATION"},
					{"value": -3, "currency": "USD", "amountType": "COMMISSION"},
					{"value": 0, "currency": "USD", "amountType": "TOTAL_CHARGE"},
					{"value": -499.43, "currency": "GBP", "amountType": "TOTAL_AMOUNT"}
				],
				"tradeDate": "01/02/2019",
				"tradeTime": "14:57:12",
				"tradeValue": "6.7928",
				"tradeType": "TRADE"
			}
		]
	}
}`

func TestLoadTrades(t *testing.T) {
	var gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Write([]byte(ledgerPayload))
	})

	account := Account{ID: "AAA", Type: AccountStocks}
	from := time.Date(2019, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2019, time.February, 28, 0, 0, 0, 0, time.UTC)
	trades, err := client.LoadTrades(account, from, to)
	if err != nil {
		t.Fatalf("LoadTrades() error = %v", err)
	}

	if !strings.Contains(gotPath, "/deal/ledgerhistory/list?startDate=01-02-2019&endDate=28-02-2019") {
		t.Errorf("path = %q, want the ledger history route", gotPath)
	}

	if len(trades) != 2 {
		t.Fatalf("got %d trades, want 2", len(trades))
	}
	// the payload lists the sell first, sanitized trades come back in
	// time order.
	if trades[0].OrderID != "ORDER1" {
		t.Errorf("first trade = %s, want ORDER1", trades[0].OrderID)
	}
	if want := ighist.M(62.43, "GBP"); !trades[0].Price.Equal(want) {
		t.Errorf("Price = %v, want %v", trades[0].Price, want)
	}
	if trades[1].Direction != ighist.Sell {
		t.Errorf("Direction = %v, want sell", trades[1].Direction)
	}
	if want := ighist.M(2681.87, "GBP"); !trades[1].Amounts.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", trades[1].Amounts.Total, want)
	}
}

func TestLoadTrades_Failure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "payload": {}, "error": "no ledger"}`))
	})

	_, err := client.LoadTrades(Account{ID: "AAA"}, time.Now(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "no ledger") {
		t.Errorf("error = %v, want the upstream failure surfaced", err)
	}
}
