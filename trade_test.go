package ighist

import (
	"testing"
	"time"
)

// rawLedgerFixture reproduces two real ledger entries: a buy settled from
// USD, and a sell whose orderSize/scaledSize scaling contradicts the
// reported price and whose consideration sign is flipped upstream.
var rawLedgerFixture = []RawTrade{
	{
		AccountID:            "1",
		ConvertOnCloseRate:   "0.7352395",
		Currency:             "USD",
		Direction:            "+",
		Epic:                 "SA.D.AMD.CASH.IP",
		FormalInstrumentName: "Advanced Micro Devices Inc",
		InstrumentDesc:       "Advanced Micro Devices Inc (All Sessions)",
		OrderID:              "ORDER_ID_FIELD",
		OrderSize:            "0.08",
		Price:                "84.91",
		ScaledSize:           "8",
		Amounts: []RawAmount{
			{Value: -679.28, Currency: "USD", Kind: AmountConsideration},
			{Value: -3, Currency: "USD", Kind: AmountCommission},
			{Value: 0, Currency: "USD", Kind: AmountCharges},
			{Value: -499.43, Currency: "GBP", Kind: AmountTotal},
		},
		TradeDate: "01/02/2019",
		TradeTime: "14:57:12",
		TradeType: "TRADE",
	},
	{
		AccountID:            "1",
		ConvertOnCloseRate:   "1.0000000",
		Currency:             "GBP",
		Direction:            "-",
		Epic:                 "KA.D.EQQQLN.CASH.IP",
		FormalInstrumentName: "Invesco EQQQ NASDAQ-100 UCITS ETF",
		InstrumentDesc:       "Invesco EQQQ NASDAQ-100 UCITS ETF",
		OrderID:              "NASDAQ_ORDERID",
		OrderSize:            "-0.12",
		Price:                "22373.88",
		ScaledSize:           "-12",
		Amounts: []RawAmount{
			{Value: 2684.87, Currency: "GBP", Kind: AmountConsideration},
			{Value: -3, Currency: "GBP", Kind: AmountCommission},
			{Value: 0, Currency: "GBP", Kind: AmountCharges},
			{Value: -2681.87, Currency: "GBP", Kind: AmountTotal},
		},
		TradeDate: "23/02/2019",
		TradeTime: "14:45:48",
		TradeType: "TRADE",
	},
}

func TestSanitizeTrade_Buy(t *testing.T) {
	got, err := SanitizeTrade(rawLedgerFixture[0], "1", false)
	if err != nil {
		t.Fatalf("SanitizeTrade() error = %v", err)
	}

	if got.Direction != Buy {
		t.Errorf("Direction = %v, want %v", got.Direction, Buy)
	}
	if got.Currency != "GBP" {
		t.Errorf("Currency = %q, want GBP", got.Currency)
	}
	if !got.Size.Equal(Q(8)) {
		t.Errorf("Size = %v, want 8", got.Size)
	}
	// the reported price follows the orderSize scaling, so it must be
	// recomputed from the settled consideration.
	if want := GBP(62.43); !got.Price.Equal(want) {
		t.Errorf("Price = %v, want %v", got.Price, want)
	}
	if want := GBP(-499.43348756); !got.Amounts.Consideration.Equal(want) {
		t.Errorf("Consideration = %v, want %v", got.Amounts.Consideration, want)
	}
	want := time.Date(2019, time.February, 1, 14, 57, 12, 0, time.UTC)
	if !got.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", got.Time, want)
	}
	if got.Raw != nil {
		t.Error("Raw should not be retained by default")
	}
}

func TestSanitizeTrade_Sell(t *testing.T) {
	got, err := SanitizeTrade(rawLedgerFixture[1], "1", false)
	if err != nil {
		t.Fatalf("SanitizeTrade() error = %v", err)
	}

	if got.Direction != Sell {
		t.Errorf("Direction = %v, want %v", got.Direction, Sell)
	}
	if !got.Size.Equal(Q(-12)) {
		t.Errorf("Size = %v, want -12", got.Size)
	}
	if want := GBP(223.74); !got.Price.Equal(want) {
		t.Errorf("Price = %v, want %v", got.Price, want)
	}
	if want := GBP(2684.87); !got.Amounts.Consideration.Equal(want) {
		t.Errorf("Consideration = %v, want %v", got.Amounts.Consideration, want)
	}
	if want := GBP(2681.87); !got.Amounts.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", got.Amounts.Total, want)
	}
}

func TestSanitizeTrade_KeepRaw(t *testing.T) {
	got, err := SanitizeTrade(rawLedgerFixture[0], "1", true)
	if err != nil {
		t.Fatalf("SanitizeTrade() error = %v", err)
	}
	if got.Raw == nil || got.Raw.OrderID != "ORDER_ID_FIELD" {
		t.Errorf("Raw = %+v, want the original record retained", got.Raw)
	}
}

func TestSanitizeTrade_BadDate(t *testing.T) {
	raw := rawLedgerFixture[0]
	raw.TradeDate = "not a date"
	if _, err := SanitizeTrade(raw, "1", false); err == nil {
		t.Error("SanitizeTrade() should fail on an unparseable trade date")
	}
}
