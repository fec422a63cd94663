package ighist

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The broker reports numeric fields as display strings: thousands
// separators, currency symbols, sometimes a bare "-" for "no value".
var nonNumericRE = regexp.MustCompile(`[^0-9.-]`)

// ParseAmount parses a numeric field from a raw broker record.
//
// The contract is deliberately lenient and asymmetric:
//   - an empty string or a bare "-" means the field is absent: ok is false;
//   - a value that still fails to parse after stripping decoration is
//     treated as zero, with ok true.
//
// Callers that need to distinguish "no size reported" from "size zero"
// rely on this asymmetry.
func ParseAmount(value string) (d decimal.Decimal, ok bool) {
	if value == "" || strings.TrimSpace(value) == "-" {
		return decimal.Decimal{}, false
	}
	sane := nonNumericRE.ReplaceAllString(value, "")
	d, err := decimal.NewFromString(sane)
	if err != nil {
		return decimal.Decimal{}, true
	}
	return d, true
}

// brokerDateFormat is the dd/MM/yyyy layout used by ledger and transaction
// history payloads.
const brokerDateFormat = "02/01/2006"

// ParseBrokerDate parses a dd/MM/yyyy date at midnight UTC.
func ParseBrokerDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(brokerDateFormat, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid broker date %q, want %q: %w", value, brokerDateFormat, err)
	}
	return t, nil
}

// TimestampFromComponents combines the split date and time fields of a raw
// trade record into a single UTC timestamp. An empty time value means
// midnight.
func TimestampFromComponents(dateValue, timeValue string) (time.Time, error) {
	day, err := ParseBrokerDate(dateValue)
	if err != nil {
		return time.Time{}, err
	}
	if timeValue == "" {
		return day, nil
	}
	clock, err := time.Parse("15:04:05", timeValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid broker time %q: %w", timeValue, err)
	}
	return day.Add(time.Duration(clock.Hour())*time.Hour +
		time.Duration(clock.Minute())*time.Minute +
		time.Duration(clock.Second())*time.Second), nil
}
