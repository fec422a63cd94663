package ig

import (
	"fmt"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/ighist"
	"github.com/shopspring/decimal"
)

// PriceType selects which side of the spread the price history reports.
type PriceType string

const (
	PriceBuy  PriceType = "buy"  // ask side
	PriceSell PriceType = "sell" // bid side
)

// priceKey maps the price type to the JSON key of the chart payload.
func (p PriceType) priceKey() string {
	if p == PriceSell {
		return "bid"
	}
	return "ask"
}

// chartYearsPerBatch bounds one chart snapshot request. The endpoint
// truncates silently beyond a couple of years of daily candles.
const chartYearsPerBatch = 2

// PriceService loads daily instrument price history from the chart
// snapshot endpoint. It implements ighist.PriceSource.
type PriceService struct {
	Client *Client
	Type   PriceType
}

// LoadPriceHistory fetches the daily candles of one instrument between two
// dates, batch by batch, and returns them in time order.
func (s *PriceService) LoadPriceHistory(instrument string, from, to time.Time) ([]ighist.PriceBar, error) {
	var bars []ighist.PriceBar
	startYear := from.UTC().Year()
	endYear := to.UTC().Year() + 1
	for year := endYear; year >= startYear; year -= chartYearsPerBatch {
		batch, err := s.loadChartBatch(instrument, year-chartYearsPerBatch, year)
		if err != nil {
			return nil, err
		}
		bars = append(bars, batch...)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Start.Before(bars[j].Start) })
	// consecutive batches share a boundary year, drop the duplicated bars.
	deduped := bars[:0]
	for i, b := range bars {
		if i > 0 && b.Start.Equal(bars[i-1].Start) {
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped, nil
}

func (s *PriceService) loadChartBatch(instrument string, yearStart, yearEnd int) ([]ighist.PriceBar, error) {
	addr := fmt.Sprintf("%s/chart/snapshot/%s/1/DAY/batch/start/%d/1/1/1/0/0/0/end/%d/1/1/1/0/0/0?format=json&version=3",
		s.Client.BaseURI, instrument, yearStart, yearEnd)

	header := s.Client.Session.headers()

	var jobj any
	if err := s.Client.jwget(addr, header, &jobj); err != nil {
		return nil, fmt.Errorf("cannot load chart for %s: %w", instrument, err)
	}

	jval, err := jsonpath.Get("$.intervalsDataPoints[*]", jobj)
	if err != nil {
		return nil, fmt.Errorf("unexpected chart payload for %s: %w", instrument, err)
	}
	intervals, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected chart payload for %s: intervalsDataPoints is not a list", instrument)
	}

	key := s.Type.priceKey()
	var bars []ighist.PriceBar
	for _, interval := range intervals {
		bar, ok := s.intervalBar(interval, key)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// intervalBar extracts one daily bar from an interval of the chart
// payload. Intervals without data points, weekends and holidays, are
// reported empty and skipped.
func (s *PriceService) intervalBar(interval any, key string) (ighist.PriceBar, bool) {
	price := func(field string) (decimal.Decimal, bool) {
		path := fmt.Sprintf("$.dataPoints[0].%sPrice.%s", field, key)
		jval, err := jsonpath.Get(path, interval)
		if err != nil {
			return decimal.Decimal{}, false
		}
		v, ok := jval.(float64)
		if !ok {
			return decimal.Decimal{}, false
		}
		// chart prices come in minor units.
		return decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)), true
	}

	open, ok := price("open")
	if !ok {
		return ighist.PriceBar{}, false
	}
	high, ok := price("high")
	if !ok {
		return ighist.PriceBar{}, false
	}
	low, ok := price("low")
	if !ok {
		return ighist.PriceBar{}, false
	}
	closep, ok := price("close")
	if !ok {
		return ighist.PriceBar{}, false
	}

	start, sok := epochMilli(interval, "$.startTimestamp")
	end, eok := epochMilli(interval, "$.endTimestamp")
	if !sok || !eok {
		return ighist.PriceBar{}, false
	}

	return ighist.PriceBar{
		Start: start,
		End:   end,
		Open:  open,
		High:  high,
		Low:   low,
		Close: closep,
	}, true
}

func epochMilli(interval any, path string) (time.Time, bool) {
	jval, err := jsonpath.Get(path, interval)
	if err != nil {
		return time.Time{}, false
	}
	ms, ok := jval.(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
