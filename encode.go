package ighist

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EventLog is the fetched history of one account: every funding movement,
// trade and bet result, in no particular order. It is the unit of
// persistence between a fetch and a reconstruction.
type EventLog struct {
	AccountID string
	Funding   []FundingEvent
	Trades    []Trade
	BetPnls   []BetPnl
}

// FirstEvent returns the earliest funding or trade time of the log, zero
// when the log holds neither. Bet results never anchor a history on their
// own, so they do not extend the range backwards.
func (l *EventLog) FirstEvent() time.Time {
	var first time.Time
	for _, f := range l.Funding {
		if first.IsZero() || f.Time.Before(first) {
			first = f.Time
		}
	}
	for _, t := range l.Trades {
		if first.IsZero() || t.Time.Before(first) {
			first = t.Time
		}
	}
	return first
}

// event kind tags for the JSONL stream.
const (
	eventFunding = "funding"
	eventTrade   = "trade"
	eventBetPnl  = "betPnl"
)

// EncodeEventLog persists an event log as JSONL, one tagged event per line.
func EncodeEventLog(w io.Writer, log *EventLog) error {
	for _, f := range log.Funding {
		if err := encodeEvent(w, eventFunding, f); err != nil {
			return err
		}
	}
	for _, t := range log.Trades {
		if err := encodeEvent(w, eventTrade, t); err != nil {
			return err
		}
	}
	for _, b := range log.BetPnls {
		if err := encodeEvent(w, eventBetPnl, b); err != nil {
			return err
		}
	}
	return nil
}

func encodeEvent(w io.Writer, kind string, payload any) error {
	var line jsonObjectWriter
	line.Append("event", kind)
	line.EmbedFrom(payload)
	out, err := line.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", kind, err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("failed to write %s event: %w", kind, err)
	}
	return nil
}

// DecodeEventLog reads a JSONL event stream back into an event log.
// Empty lines are skipped; an unknown event tag is an error.
func DecodeEventLog(r io.Reader) (*EventLog, error) {
	log := &EventLog{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var identifier struct {
			Event string `json:"event"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify event in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Event {
		case eventFunding:
			var f FundingEvent
			if err := json.Unmarshal(lineBytes, &f); err != nil {
				return nil, err
			}
			log.Funding = append(log.Funding, f)
			if log.AccountID == "" {
				log.AccountID = f.AccountID
			}
		case eventTrade:
			var t Trade
			if err := json.Unmarshal(lineBytes, &t); err != nil {
				return nil, err
			}
			log.Trades = append(log.Trades, t)
			if log.AccountID == "" {
				log.AccountID = t.AccountID
			}
		case eventBetPnl:
			var b BetPnl
			if err := json.Unmarshal(lineBytes, &b); err != nil {
				return nil, err
			}
			log.BetPnls = append(log.BetPnls, b)
			if log.AccountID == "" {
				log.AccountID = b.AccountID
			}
		default:
			return nil, fmt.Errorf("unknown event kind: %q", identifier.Event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return log, nil
}

// EncodeHistory persists reconstructed snapshots as JSONL, one per line.
func EncodeHistory(w io.Writer, history []PortfolioSnapshot) error {
	for _, s := range history {
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot %s: %w", s.Start.Format("2006-01-02"), err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}
	return nil
}

// DecodeHistory reads a JSONL snapshot stream.
func DecodeHistory(r io.Reader) ([]PortfolioSnapshot, error) {
	var history []PortfolioSnapshot
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}
		var s PortfolioSnapshot
		if err := json.Unmarshal(lineBytes, &s); err != nil {
			return nil, fmt.Errorf("could not decode snapshot line %q: %w", string(lineBytes), err)
		}
		history = append(history, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return history, nil
}
