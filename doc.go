// Package ighist reconstructs a time-sliced portfolio valuation history from
// brokerage trade, funding, and price-history data.
//
// The core is an incremental state machine: it walks chronologically ordered
// funding events, sanitized trades, and margin-bet P&L adjustments, merges
// them into a sequence of immutable per-window snapshots, and enriches
// historical snapshots with back-filled market price ranges. Each snapshot
// carries cash, per-instrument positions, book cost, and valuation bands
// (last trade / high / low / median) with derived P&L metrics.
//
// Upstream access (session handling, pagination, endpoint quirks) lives in
// the ig subpackage; this package only consumes sorted event collections.
package ighist
