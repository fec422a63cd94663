package ighist

import (
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one aggregated candle of an instrument's price history, in
// the instrument's quote currency.
type PriceBar struct {
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Open  decimal.Decimal `json:"open"`
	High  decimal.Decimal `json:"high"`
	Low   decimal.Decimal `json:"low"`
	Close decimal.Decimal `json:"close"`
}

// PriceSource loads daily price history for an instrument over a time range.
type PriceSource interface {
	LoadPriceHistory(instrument string, from, to time.Time) ([]PriceBar, error)
}

// PriceCache fetches each instrument's history at most once for the whole
// reconstruction range and answers point-in-time lookups from memory.
//
// A failed fetch is logged and memoized as an empty history: positions in
// that instrument simply keep their last trade price, which is better than
// aborting a multi-year reconstruction over one delisted ticker.
type PriceCache struct {
	src      PriceSource
	from, to time.Time
	bars     map[string][]PriceBar
}

func NewPriceCache(src PriceSource, from, to time.Time) *PriceCache {
	return &PriceCache{src: src, from: from, to: to, bars: make(map[string][]PriceBar)}
}

// EffectivePrice returns the last bar starting at or before asOf, false
// when the instrument has no bar that early.
func (c *PriceCache) EffectivePrice(instrument string, asOf time.Time) (PriceBar, bool) {
	bars, ok := c.bars[instrument]
	if !ok {
		var err error
		bars, err = c.src.LoadPriceHistory(instrument, c.from, c.to)
		if err != nil {
			log.Printf("warning: price history for %s unavailable: %v", instrument, err)
			bars = nil
		}
		sort.Slice(bars, func(i, j int) bool { return bars[i].Start.Before(bars[j].Start) })
		c.bars[instrument] = bars
	}
	// first bar strictly after asOf, then step back one.
	i := sort.Search(len(bars), func(i int) bool { return bars[i].Start.After(asOf) })
	if i == 0 {
		return PriceBar{}, false
	}
	return bars[i-1], true
}
