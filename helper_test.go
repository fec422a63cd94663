package ighist

import "time"

// GBP is a helper for tests to create sterling money from const
func GBP(v float64) Money { return M(v, "GBP") }

// USD is a helper for tests to create dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for tests to create a midnight UTC timestamp
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
