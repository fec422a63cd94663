package ighist

import (
	"fmt"
	"time"
)

// Batch is one date range of a long backfill, small enough for the broker
// API to answer without truncating. FailCount records how many fetch
// attempts the batch has survived, so a persistently broken range can be
// given up on instead of wedging the whole backfill.
type Batch struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	FailCount int       `json:"failCount"`
}

// GenerateBatches splits [from, to] into consecutive calendar ranges of
// the given number of months, the last one clipped at to. Bounds are
// RFC 3339 timestamps.
func GenerateBatches(from, to string, months int) ([]Batch, error) {
	start, err := time.Parse(time.RFC3339, from)
	if err != nil {
		return nil, fmt.Errorf("invalid batch start %q: %w", from, err)
	}
	end, err := time.Parse(time.RFC3339, to)
	if err != nil {
		return nil, fmt.Errorf("invalid batch end %q: %w", to, err)
	}
	if months <= 0 {
		return nil, fmt.Errorf("invalid batch size %d months", months)
	}

	var batches []Batch
	for cur := start; cur.Before(end); {
		next := cur.AddDate(0, months, 0)
		if next.After(end) {
			next = end
		}
		batches = append(batches, Batch{From: cur, To: next})
		cur = next
	}
	return batches, nil
}

// Rehydration is the persisted progress of an interrupted backfill:
// which batch last completed, and which ones still need fetching.
type Rehydration struct {
	LastCompleted time.Time `json:"lastCompleted"`
	Pending       []Batch   `json:"pending,omitempty"`
}

// Requeue puts a failed batch back at the end of the pending queue with
// its failure count bumped.
func (r *Rehydration) Requeue(b Batch) {
	b.FailCount++
	r.Pending = append(r.Pending, b)
}

// Complete marks a batch done, dropping it from the pending queue and
// advancing the completion watermark.
func (r *Rehydration) Complete(b Batch) {
	pending := r.Pending[:0]
	for _, p := range r.Pending {
		if p.From.Equal(b.From) && p.To.Equal(b.To) {
			continue
		}
		pending = append(pending, p)
	}
	r.Pending = pending
	if b.To.After(r.LastCompleted) {
		r.LastCompleted = b.To
	}
}
