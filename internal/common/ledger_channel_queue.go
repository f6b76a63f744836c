package common

import (
	"context"
	"log"
)

// ChannelLedgerQueue is the single-process fallback used when Redis is
// not configured. The buffer is bounded; when the worker cannot keep up,
// entries are dropped with a warning rather than stalling approvals. The
// database stays the source of truth, so a dropped mirror row is
// recoverable by hand.
type ChannelLedgerQueue struct {
	ch     chan *LedgerEntry
	onDrop func()
}

// Ensure ChannelLedgerQueue implements LedgerQueue
var _ LedgerQueue = (*ChannelLedgerQueue)(nil)

// NewChannelLedgerQueue builds the queue. onDrop, when non-nil, is called
// once per dropped entry so callers can count losses.
func NewChannelLedgerQueue(buffer int, onDrop func()) *ChannelLedgerQueue {
	if buffer <= 0 {
		buffer = 100
	}
	return &ChannelLedgerQueue{
		ch:     make(chan *LedgerEntry, buffer),
		onDrop: onDrop,
	}
}

// Enqueue hands the entry to the worker without ever blocking the caller.
func (q *ChannelLedgerQueue) Enqueue(ctx context.Context, entry *LedgerEntry) error {
	select {
	case q.ch <- entry:
	default:
		log.Printf("[LedgerQueue] Warning: buffer full, dropping entry for report %s", entry.ReportID)
		if q.onDrop != nil {
			q.onDrop()
		}
	}
	return nil
}

// Entries exposes the consumer side for the in-process worker.
func (q *ChannelLedgerQueue) Entries() <-chan *LedgerEntry {
	return q.ch
}
