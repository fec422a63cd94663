package ighist

import (
	"fmt"
	"time"
)

// Direction of a trade. Derived from the signed size, never from the raw
// record's direction flag, which is not reliable across instrument types.
type Direction string

const (
	Buy  Direction = "buy"
	Sell Direction = "sell"
)

// TradeType tags the nature of a ledger entry.
//
// CORPORATE_ACTION entries are account corrections on stock mergers and
// ticker changes; they flow through the ledger like trades but are kept
// identifiable because they typically distort per-unit price calculations.
const (
	TradeTypeTrade           = "TRADE"
	TradeTypeCorporateAction = "CORPORATE_ACTION"
)

// RawTrade mirrors one entry of the broker's ledger history payload.
// Every numeric field is a string and none of them can be trusted blindly.
type RawTrade struct {
	AccountID            string      `json:"accountId"`
	ConvertOnCloseRate   string      `json:"convertOnCloseRate"`
	Currency             string      `json:"currency"`
	Direction            string      `json:"direction"`
	Epic                 string      `json:"epic"`
	FormalInstrumentName string      `json:"formalInstrumentName"`
	InstrumentDesc       string      `json:"instrumentDesc"`
	OrderID              string      `json:"orderID"`
	OrderSize            string      `json:"orderSize"`
	Price                string      `json:"price"`
	ScaledSize           string      `json:"scaledSize"`
	Amounts              []RawAmount `json:"amounts"`
	TradeDate            string      `json:"tradeDate"`
	TradeTime            string      `json:"tradeTime"`
	TradeValue           string      `json:"tradeValue"`
	TradeType            string      `json:"tradeType"`
}

// Trade is a sanitized ledger entry: numbers parsed, direction corrected,
// price recomputed, and amounts consolidated into the settlement currency.
type Trade struct {
	OrderID           string    `json:"orderId"`
	AccountID         string    `json:"accountId"`
	InstrumentID      string    `json:"instrumentId"`
	InstrumentName    string    `json:"instrumentName"`
	InstrumentAltName string    `json:"instrumentAltName"`
	Direction         Direction `json:"direction"`
	Size              Quantity  `json:"size"` // signed, buys positive
	Price             Money     `json:"price"`
	Currency          string    `json:"currency"`
	Time              time.Time `json:"time"`
	Amounts           Amounts   `json:"amounts"`
	ConversionRate    Quantity  `json:"conversionRate"`
	TradeType         string    `json:"tradeType"`

	// Raw is the record the trade was sanitized from. Only retained when
	// the loader runs with raw-data retention enabled, for auditing the
	// lenient parse decisions.
	Raw *RawTrade `json:"raw,omitempty"`
}

// SanitizeTrade converts a raw ledger entry into a canonical Trade.
//
// The scaled size is the only usable size field: the upstream scaling
// between orderSize and scaledSize is inconsistent across instrument types,
// so the per-unit price is recomputed from the consideration instead of
// trusting the reported price. keepRaw retains the raw record on the result.
func SanitizeTrade(raw RawTrade, accountID string, keepRaw bool) (Trade, error) {
	when, err := TimestampFromComponents(raw.TradeDate, raw.TradeTime)
	if err != nil {
		return Trade{}, fmt.Errorf("trade %s: %w", raw.OrderID, err)
	}

	size, _ := ParseAmount(raw.ScaledSize)
	direction := Sell
	if !size.IsNegative() {
		direction = Buy
	}

	// A missing or zero conversion rate means "already in the settlement
	// currency". The default is made explicit here so no downstream code
	// has to special-case it.
	rate := Q(1)
	if d, ok := ParseAmount(raw.ConvertOnCloseRate); ok && !d.IsZero() {
		rate = Q(d)
	}

	amounts := NormalizeAmounts(raw.Amounts, raw.Currency, direction, rate)

	currency := amounts.Total.Currency()
	if currency == "" {
		currency = raw.Currency
	}

	// Recompute the per-unit price from the consideration. The raw price
	// field follows the orderSize scaling, not the scaledSize one.
	price := M(0, currency)
	if !size.IsZero() {
		price = M(amounts.Consideration.Decimal().Div(size).Abs(), currency).Round()
	}

	t := Trade{
		OrderID:           raw.OrderID,
		AccountID:         accountID,
		InstrumentID:      raw.Epic,
		InstrumentName:    raw.FormalInstrumentName,
		InstrumentAltName: raw.InstrumentDesc,
		Direction:         direction,
		Size:              Q(size),
		Price:             price,
		Currency:          currency,
		Time:              when,
		Amounts:           amounts,
		ConversionRate:    rate,
		TradeType:         raw.TradeType,
	}
	if keepRaw {
		r := raw
		t.Raw = &r
	}
	return t, nil
}
