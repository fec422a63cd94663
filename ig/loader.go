package ig

import (
	"fmt"
	"log"
	"time"

	"github.com/etnz/ighist"
)

// maxBatchFailures is how many times one batch is retried before the
// loader gives up on its date range.
const maxBatchFailures = 3

// Loader drives a full history backfill: it cuts the backdate range into
// calendar batches the API will answer, fetches every event stream batch
// by batch, and keeps enough state to resume after a failure.
type Loader struct {
	Client *Client

	// Backdate is the RFC 3339 start of history. Events before it are
	// never fetched.
	Backdate string

	// BatchMonths is the calendar length of one fetch batch.
	BatchMonths int
}

// FetchAccount runs one backfill pass over the pending batches of one
// account. prior resumes an earlier interrupted run; nil starts fresh from
// the backdate. Each pending batch is attempted once: failures are
// requeued on the returned rehydration for the next pass, and a batch that
// failed too many passes is dropped with a hole in the history.
func (l *Loader) FetchAccount(account Account, prior *ighist.Rehydration, now time.Time) (*ighist.EventLog, *ighist.Rehydration, error) {
	r := &ighist.Rehydration{}
	pending := []ighist.Batch(nil)
	if prior != nil {
		r.LastCompleted = prior.LastCompleted
		pending = prior.Pending
	} else {
		batches, err := ighist.GenerateBatches(l.Backdate, now.UTC().Format(time.RFC3339), l.BatchMonths)
		if err != nil {
			return nil, nil, err
		}
		pending = batches
	}

	events := &ighist.EventLog{AccountID: account.ID}
	for _, batch := range pending {
		if batch.FailCount >= maxBatchFailures {
			log.Printf("giving up on range %s to %s for account %s after %d attempts",
				batch.From.Format("2006-01-02"), batch.To.Format("2006-01-02"), account.ID, batch.FailCount)
			continue
		}
		if err := l.fetchBatch(account, batch, events); err != nil {
			log.Printf("warning: range %s to %s for account %s failed: %v",
				batch.From.Format("2006-01-02"), batch.To.Format("2006-01-02"), account.ID, err)
			r.Requeue(batch)
			continue
		}
		if batch.To.After(r.LastCompleted) {
			r.LastCompleted = batch.To
		}
	}
	return events, r, nil
}

func (l *Loader) fetchBatch(account Account, batch ighist.Batch, events *ighist.EventLog) error {
	funding, err := l.Client.LoadFunding(account, batch.From, batch.To)
	if err != nil {
		return fmt.Errorf("funding: %w", err)
	}
	trades, err := l.Client.LoadTrades(account, batch.From, batch.To)
	if err != nil {
		return fmt.Errorf("trades: %w", err)
	}
	bets, err := l.Client.LoadBetPnls(account, batch.From, batch.To)
	if err != nil {
		return fmt.Errorf("bet results: %w", err)
	}

	events.Funding = append(events.Funding, funding...)
	events.Trades = append(events.Trades, trades...)
	events.BetPnls = append(events.BetPnls, bets...)
	return nil
}

// FetchAll backfills every account of the session, keyed by account ID.
func (l *Loader) FetchAll(now time.Time) (map[string]*ighist.EventLog, error) {
	logs := make(map[string]*ighist.EventLog)
	for _, account := range l.Client.Session.Accounts {
		events, r, err := l.FetchAccount(account, nil, now)
		if err != nil {
			return nil, err
		}
		if len(r.Pending) > 0 {
			log.Printf("warning: account %s history has %d unfetched ranges", account.ID, len(r.Pending))
		}
		logs[account.ID] = events
	}
	return logs, nil
}
