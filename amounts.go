package ighist

import "github.com/shopspring/decimal"

// AmountKind tags one entry of a raw trade's amount breakdown.
type AmountKind string

const (
	AmountConsideration AmountKind = "CONSIDERATION"
	AmountCommission    AmountKind = "COMMISSION"
	AmountCharges       AmountKind = "TOTAL_CHARGE"
	AmountTotal         AmountKind = "TOTAL_AMOUNT"
)

// RawAmount is one tagged entry of the flat amount list attached to a raw
// trade record. Entries can be missing, and individual entries can be in a
// currency different from the account's settlement currency.
type RawAmount struct {
	Value    float64    `json:"value"`
	Currency string     `json:"currency"`
	Kind     AmountKind `json:"amountType"`
}

// Amounts is the normalized amount breakdown of a trade: exactly four named
// buckets, always present, all in the trade's settlement currency.
type Amounts struct {
	Consideration Money `json:"consideration"`
	Commission    Money `json:"commission"`
	Charges       Money `json:"charges"`
	Total         Money `json:"total"`
}

// NormalizeAmounts converts the flat tagged list of a raw trade into the
// four fixed buckets. Missing kinds default to zero in accountCurrency.
//
// When the consideration is reported in a different currency than the total,
// the consideration, commission and charges are converted with the trade's
// conversion rate and adopt the total's currency: the total is the only
// entry the upstream reliably reports in the settlement currency.
func NormalizeAmounts(raw []RawAmount, accountCurrency string, direction Direction, conversionRate Quantity) Amounts {
	a := Amounts{
		Consideration: pickAmount(raw, AmountConsideration, accountCurrency),
		Commission:    pickAmount(raw, AmountCommission, accountCurrency),
		Charges:       pickAmount(raw, AmountCharges, accountCurrency),
		Total:         pickAmount(raw, AmountTotal, accountCurrency),
	}

	a.Consideration = repairAmountSign(a.Consideration, direction)
	a.Total = repairAmountSign(a.Total, direction)

	if a.Consideration.Currency() != a.Total.Currency() {
		settlement := a.Total.Currency()
		a.Consideration = convertTo(a.Consideration, settlement, conversionRate)
		a.Commission = convertTo(a.Commission, settlement, conversionRate)
		a.Charges = convertTo(a.Charges, settlement, conversionRate)
	}
	return a
}

// pickAmount finds the entry of the given kind, defaulting to a zero value
// in the account currency when the upstream record omits it.
func pickAmount(raw []RawAmount, kind AmountKind, accountCurrency string) Money {
	for _, r := range raw {
		if r.Kind == kind {
			currency := r.Currency
			if currency == "" {
				currency = accountCurrency
			}
			return M(decimal.NewFromFloat(r.Value), currency)
		}
	}
	return M(0, accountCurrency)
}

// repairAmountSign corrects a known upstream defect: the ledger history
// sometimes reports the consideration (and occasionally the total) with the
// wrong sign. By the settlement convention a buy is a cash cost (negative)
// and a sell a cash credit (positive), so the sign is forced from the trade
// direction.
//
// This is a workaround for a specific observed API defect, not a general
// rule; it is kept isolated here so it can be adjusted or disabled without
// touching the accounting logic.
func repairAmountSign(m Money, direction Direction) Money {
	if direction == Buy {
		return m.Abs().Neg()
	}
	return m.Abs()
}

func convertTo(m Money, currency string, rate Quantity) Money {
	return M(m.Decimal().Mul(rate.Decimal()), currency)
}
