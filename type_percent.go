package ighist

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Percent is a percentage value (e.g. Pct(1.94) is 1.94%).
// It is decimal-backed so snapshot P&L percentages stay exact.
type Percent struct {
	value decimal.Decimal
}

func Pct[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }
func (p Percent) IsZero() bool         { return p.value.IsZero() }

func (p Percent) String() string { return p.value.StringFixed(2) + "%" }

func (p Percent) SignedString() string {
	if p.value.IsZero() {
		return "-"
	}
	if p.value.IsPositive() {
		return "+" + p.String()
	}
	return p.String()
}

// MarshalJSON implements the json.Marshaler interface.
func (p Percent) MarshalJSON() ([]byte, error) { return p.value.MarshalJSON() }

func (p *Percent) UnmarshalJSON(data []byte) error { return p.value.UnmarshalJSON(data) }

var _ json.Marshaler = (*Percent)(nil)
var _ json.Unmarshaler = (*Percent)(nil)
