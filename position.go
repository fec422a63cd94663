package ighist

// Position is the running state of one instrument holding.
//
// BookCost and AveragePrice track what the holding cost to acquire, in the
// account currency. LatestTradePrice is the last per-unit price the account
// actually dealt at; the Daily* fields are the market's view, refreshed
// from price history, and may lag or be absent for delisted instruments.
type Position struct {
	InstrumentID      string `json:"instrumentId"`
	InstrumentName    string `json:"instrumentName"`
	InstrumentAltName string `json:"instrumentAltName"`

	Size             Quantity `json:"size"`
	BookCost         Money    `json:"bookCost"`
	AveragePrice     Money    `json:"averagePrice"`
	LatestTradePrice Money    `json:"latestTradePrice"`

	DailyHigh   Money `json:"dailyHigh"`
	DailyLow    Money `json:"dailyLow"`
	DailyMedian Money `json:"dailyMedian"`

	// ConversionRate converts the instrument's quote currency into the
	// account currency. 1 for instruments quoted in the account currency.
	ConversionRate Quantity `json:"conversionRate"`
}

func newPosition(t Trade) Position {
	return Position{
		InstrumentID:      t.InstrumentID,
		InstrumentName:    t.InstrumentName,
		InstrumentAltName: t.InstrumentAltName,
		Size:              Q(0),
		BookCost:          M(0, t.Currency),
		AveragePrice:      M(0, t.Currency),
		LatestTradePrice:  M(0, t.Currency),
		ConversionRate:    Q(1),
	}
}

// applyTrade folds one trade into the position.
//
// Buys grow the book cost by the full amount paid, fees included, so the
// average price absorbs the cost of acquiring the holding. Sells shrink it
// at the running average price, leaving realized gains out of the book;
// selling to zero clears any residual so rounding never strands a phantom
// book cost on an empty position.
func (p *Position) applyTrade(t Trade) {
	next := p.Size.Add(t.Size)
	if t.Direction == Buy {
		// amounts are signed, a buy total is negative.
		p.BookCost = p.BookCost.Sub(t.Amounts.Total)
	} else if next.IsZero() {
		p.BookCost = M(0, p.BookCost.Currency())
	} else {
		p.BookCost = p.BookCost.Add(p.AveragePrice.Mul(t.Size))
	}
	p.Size = next
	if p.Size.IsZero() {
		p.AveragePrice = M(0, p.BookCost.Currency())
	} else {
		p.AveragePrice = p.BookCost.Div(p.Size).Round()
	}
	p.LatestTradePrice = t.Price
	p.ConversionRate = t.ConversionRate
}

// applyDailyPrice refreshes the market price bands from a price bar,
// converting from the quote currency into the account currency. Empty
// positions are left alone.
func (p *Position) applyDailyPrice(bar PriceBar) {
	if p.Size.IsZero() {
		return
	}
	rate := p.ConversionRate
	if rate.IsZero() {
		rate = Q(1)
	}
	cur := p.BookCost.Currency()
	p.DailyHigh = M(bar.High, cur).Mul(rate).Round()
	p.DailyLow = M(bar.Low, cur).Mul(rate).Round()
	p.DailyMedian = p.DailyHigh.Add(p.DailyLow).Div(Q(2)).Round()
}
