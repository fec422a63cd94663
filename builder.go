package ighist

import (
	"fmt"
	"sort"
	"time"
)

// ErrMixedCurrencies is returned when a single account's events settle in
// more than one currency. Reconstruction would silently add apples to
// oranges, so it aborts instead.
var ErrMixedCurrencies = fmt.Errorf("account events settle in mixed currencies")

// Band holds one valuation under the four price views of a window: the last
// price the account dealt at, and the market's high, median and low.
type Band struct {
	LastTrade Money `json:"lastTrade"`
	High      Money `json:"high"`
	Median    Money `json:"median"`
	Low       Money `json:"low"`
}

// PercentBand is a Band expressed as percentages.
type PercentBand struct {
	LastTrade Percent `json:"lastTrade"`
	High      Percent `json:"high"`
	Median    Percent `json:"median"`
	Low       Percent `json:"low"`
}

// PortfolioSnapshot is the full state of an account at the start of one
// cursor window: running cash and positions, plus the events that landed
// in the window and the valuations derived from them.
type PortfolioSnapshot struct {
	Start    time.Time `json:"start"`
	Currency string    `json:"currency"`

	Cash       Money `json:"cash"`
	NetFunding Money `json:"netFunding"`
	FeesPaid   Money `json:"feesPaid"`
	BookCost   Money `json:"bookCost"`

	Positions map[string]Position `json:"positions"`

	BookValue     Band        `json:"bookValue"`
	AccountValue  Band        `json:"accountValue"`
	NetPl         Band        `json:"netPl"`
	BookPl        Band        `json:"bookPl"`
	NetPlPercent  PercentBand `json:"netPlPercent"`
	BookPlPercent PercentBand `json:"bookPlPercent"`

	Funding []FundingEvent `json:"funding,omitempty"`
	Trades  []Trade        `json:"trades,omitempty"`
	BetPnls []BetPnl       `json:"betPnls,omitempty"`
}

// BuildPortfolioHistory replays funding, trades and bet results in time
// order and returns one snapshot per cursor window from the first event up
// to end, inclusive.
//
// Events are merged per window in a fixed order: funding first, then
// trades, then a market price refresh of untouched positions, then bet
// results. Each snapshot starts as a clone of the previous one, so a slice
// element is immutable once appended.
func BuildPortfolioHistory(funding []FundingEvent, trades []Trade, bets []BetPnl, prices *PriceCache, end time.Time, grain time.Duration) ([]PortfolioSnapshot, error) {
	if len(funding) == 0 && len(trades) == 0 {
		return nil, nil
	}

	funding = sortedFunding(funding)
	trades = sortedTrades(trades)
	bets = sortedBets(bets)

	currency, err := settlementCurrency(funding, trades, bets)
	if err != nil {
		return nil, err
	}

	start := firstEventTime(funding, trades)

	cash := M(0, currency)
	netFunding := M(0, currency)
	feesPaid := M(0, currency)
	positions := make(map[string]Position)

	var history []PortfolioSnapshot
	var fi, ti, bi int

	cursor := NewCursor(start, end, grain)
	for cursor.Next() {
		right := cursor.Right()
		snap := PortfolioSnapshot{
			Start:    cursor.Left(),
			Currency: currency,
		}

		for fi < len(funding) && funding[fi].Time.Before(right) {
			f := funding[fi]
			cash = cash.Add(f.Amount)
			netFunding = netFunding.Add(f.Amount)
			snap.Funding = append(snap.Funding, f)
			fi++
		}

		touched := make(map[string]bool)
		for ti < len(trades) && trades[ti].Time.Before(right) {
			t := trades[ti]
			cash = cash.Add(t.Amounts.Total)
			feesPaid = feesPaid.Add(t.Amounts.Charges).Add(t.Amounts.Commission)

			p, ok := positions[t.InstrumentID]
			if !ok {
				p = newPosition(t)
			}
			p.applyTrade(t)
			if bar, ok := prices.EffectivePrice(t.InstrumentID, t.Time); ok {
				p.applyDailyPrice(bar)
			}
			positions[t.InstrumentID] = p
			touched[t.InstrumentID] = true

			snap.Trades = append(snap.Trades, t)
			ti++
		}

		// positions untouched this window still move with the market.
		for id, p := range positions {
			if touched[id] || p.Size.IsZero() {
				continue
			}
			if bar, ok := prices.EffectivePrice(id, cursor.Left()); ok {
				p.applyDailyPrice(bar)
				positions[id] = p
			}
		}

		for bi < len(bets) && bets[bi].Time.Before(right) {
			b := bets[bi]
			cash = cash.Add(b.Value)
			snap.BetPnls = append(snap.BetPnls, b)
			bi++
		}

		snap.Cash = cash.Round()
		snap.NetFunding = netFunding.Round()
		snap.FeesPaid = feesPaid.Round()
		snap.Positions = clonePositions(positions)
		finalizeValuations(&snap)

		history = append(history, snap)
	}
	return history, nil
}

func clonePositions(positions map[string]Position) map[string]Position {
	c := make(map[string]Position, len(positions))
	for id, p := range positions {
		c[id] = p
	}
	return c
}

// finalizeValuations derives the valuation bands of a snapshot from its
// cash and positions. A position with no market band yet is valued at its
// last trade price in every view.
func finalizeValuations(s *PortfolioSnapshot) {
	bookCost := M(0, s.Currency)
	var bookValue Band
	for _, p := range s.Positions {
		bookCost = bookCost.Add(p.BookCost)
		bookValue.LastTrade = bookValue.LastTrade.Add(p.LatestTradePrice.Mul(p.Size))
		bookValue.High = bookValue.High.Add(bandPrice(p.DailyHigh, p.LatestTradePrice).Mul(p.Size))
		bookValue.Median = bookValue.Median.Add(bandPrice(p.DailyMedian, p.LatestTradePrice).Mul(p.Size))
		bookValue.Low = bookValue.Low.Add(bandPrice(p.DailyLow, p.LatestTradePrice).Mul(p.Size))
	}

	s.BookCost = bookCost.Round()
	s.BookValue = roundBand(withCurrency(bookValue, s.Currency))
	s.AccountValue = roundBand(addToBand(s.BookValue, s.Cash))
	s.NetPl = roundBand(addToBand(s.AccountValue, s.NetFunding.Neg()))
	s.BookPl = roundBand(addToBand(s.BookValue, s.BookCost.Neg()))
	s.NetPlPercent = percentOf(s.NetPl, s.BookCost)
	s.BookPlPercent = percentOf(s.BookPl, s.BookCost)
}

func bandPrice(market, lastTrade Money) Money {
	if market.IsZero() {
		return lastTrade
	}
	return market
}

func withCurrency(b Band, currency string) Band {
	zero := M(0, currency)
	b.LastTrade = zero.Add(b.LastTrade)
	b.High = zero.Add(b.High)
	b.Median = zero.Add(b.Median)
	b.Low = zero.Add(b.Low)
	return b
}

func addToBand(b Band, m Money) Band {
	b.LastTrade = b.LastTrade.Add(m)
	b.High = b.High.Add(m)
	b.Median = b.Median.Add(m)
	b.Low = b.Low.Add(m)
	return b
}

func roundBand(b Band) Band {
	b.LastTrade = b.LastTrade.Round()
	b.High = b.High.Round()
	b.Median = b.Median.Round()
	b.Low = b.Low.Round()
	return b
}

// percentOf expresses each view of b as a percentage of base, 0 when the
// base is zero.
func percentOf(b Band, base Money) PercentBand {
	if base.IsZero() {
		return PercentBand{}
	}
	ratio := func(m Money) Percent { return Pct(m.Decimal().Div(base.Decimal()).Mul(newDecimal(100))) }
	return PercentBand{
		LastTrade: ratio(b.LastTrade),
		High:      ratio(b.High),
		Median:    ratio(b.Median),
		Low:       ratio(b.Low),
	}
}

// settlementCurrency returns the single currency all events settle in.
func settlementCurrency(funding []FundingEvent, trades []Trade, bets []BetPnl) (string, error) {
	currency := ""
	note := func(kind, cur string, when time.Time) error {
		if cur == "" {
			return nil
		}
		if currency == "" {
			currency = cur
			return nil
		}
		if cur != currency {
			return fmt.Errorf("%w: %s on %s settles in %s, account settles in %s", ErrMixedCurrencies, kind, when.Format("2006-01-02"), cur, currency)
		}
		return nil
	}
	for _, f := range funding {
		if err := note("funding", f.Amount.Currency(), f.Time); err != nil {
			return "", err
		}
	}
	for _, t := range trades {
		if err := note("trade", t.Currency, t.Time); err != nil {
			return "", err
		}
	}
	for _, b := range bets {
		if err := note("bet result", b.Value.Currency(), b.Time); err != nil {
			return "", err
		}
	}
	return currency, nil
}

// firstEventTime is the earliest funding or trade time. Bet results never
// start a history on their own.
func firstEventTime(funding []FundingEvent, trades []Trade) time.Time {
	switch {
	case len(funding) == 0:
		return trades[0].Time
	case len(trades) == 0:
		return funding[0].Time
	case trades[0].Time.Before(funding[0].Time):
		return trades[0].Time
	default:
		return funding[0].Time
	}
}

func sortedFunding(events []FundingEvent) []FundingEvent {
	s := append([]FundingEvent(nil), events...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s
}

func sortedTrades(trades []Trade) []Trade {
	s := append([]Trade(nil), trades...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s
}

func sortedBets(bets []BetPnl) []BetPnl {
	s := append([]BetPnl(nil), bets...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Time.Before(s[j].Time) })
	return s
}
