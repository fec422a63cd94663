package ig

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/etnz/ighist"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	session := &Session{CST: "cst", XSecurityToken: "xst"}
	return NewClient(server.URL, session)
}

func TestLoadFunding(t *testing.T) {
	var gotPath, gotAccount string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAccount = r.Header.Get("IG-Account-ID")
		w.Write([]byte(`{
			"transactions": [
				{"summary": "Cash In", "profitAndLoss": "E5,000.00", "currency": "GBP",
				 "reference": "ref1", "dateUtc": "2020-06-15T00:00:00", "cashTransaction": true},
				{"summary": "Cash Out", "profitAndLoss": "-2600", "currency": "GBP",
				 "reference": "ref2", "dateUtc": "2020-06-16T00:00:00", "cashTransaction": true},
				{"summary": "Cash In", "profitAndLoss": "-", "currency": "GBP",
				 "reference": "ref3", "dateUtc": "2020-06-17T00:00:00", "cashTransaction": true}
			],
			"pageData": {"pageSize": 10000000, "pageNumber": 1, "totalCount": 3, "numberPages": 1}
		}`))
	})

	account := Account{ID: "AAA", Type: AccountStocks}
	from := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, time.June, 30, 0, 0, 0, 0, time.UTC)
	events, err := client.LoadFunding(account, from, to)
	if err != nil {
		t.Fatalf("LoadFunding() error = %v", err)
	}

	if !strings.Contains(gotPath, "/deal/v2/history/transactions/01-06-2020/30-06-2020/fromcodes") {
		t.Errorf("path = %q, want the dd-MM-yyyy transactions route", gotPath)
	}
	if !strings.Contains(gotPath, "codes=20001%2C20002") {
		t.Errorf("path = %q, want the deposit and withdrawal codes", gotPath)
	}
	if gotAccount != "AAA" {
		t.Errorf("IG-Account-ID header = %q, want AAA", gotAccount)
	}

	// the third entry has no amount and is dropped.
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if want := ighist.M(5000, "GBP"); !events[0].Amount.Equal(want) {
		t.Errorf("Amount = %v, want %v", events[0].Amount, want)
	}
	if events[0].Kind != ighist.CashIn {
		t.Errorf("Kind = %q, want %q", events[0].Kind, ighist.CashIn)
	}
	if want := time.Date(2020, time.June, 16, 0, 0, 0, 0, time.UTC); !events[1].Time.Equal(want) {
		t.Errorf("Time = %v, want %v", events[1].Time, want)
	}
	if want := ighist.M(-2600, "GBP"); !events[1].Amount.Equal(want) {
		t.Errorf("Amount = %v, want %v", events[1].Amount, want)
	}
}

func TestSummaryFlags(t *testing.T) {
	tests := []struct {
		summary string
		want    SummaryFlags
	}{
		{SummaryCashIn, SummaryFlags{IsBankTransfer: true}},
		{SummaryCashOut, SummaryFlags{IsBankTransfer: true}},
		{SummaryClosingTrades, SummaryFlags{IsClosingTrade: true}},
		{SummaryCommissions, SummaryFlags{IsFee: true}},
		{SummaryPTMLevy, SummaryFlags{IsFee: true}},
		{SummaryTransfers, SummaryFlags{}},
	}
	for _, tc := range tests {
		if got := flagsOf(tc.summary); got != tc.want {
			t.Errorf("flagsOf(%q) = %+v, want %+v", tc.summary, got, tc.want)
		}
	}
}
