package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/metrics"
)

const (
	ledgerConsumerGroup = "ledger-workers"

	// ledgerMaxStreamLen bounds the Redis stream; appended entries older
	// than the window only matter for audit and live in the sheet itself.
	ledgerMaxStreamLen = 10000

	ledgerStaleAfter = 5 * time.Minute
)

// LedgerWorker drains approved-report entries and appends them to the
// airline's ledger spreadsheet. Intake is the Redis stream when one is
// configured, otherwise the in-process channel buffer. Append failures in
// Redis mode stay pending and get retried through the reclaim loop; in
// channel mode the entry is logged and dropped, the mirror is best-effort.
type LedgerWorker struct {
	sheets        *common.SheetsClient
	spreadsheetID string
	sheetName     string
	consumerName  string
	redisQueue    *common.RedisLedgerQueue
	channelQueue  *common.ChannelLedgerQueue
	metricsReg    *metrics.MetricsRegistry
}

// NewLedgerWorker creates a new ledger worker. Exactly one of redisQueue
// and channelQueue should be non-nil.
func NewLedgerWorker(
	sheets *common.SheetsClient,
	spreadsheetID string,
	sheetName string,
	redisQueue *common.RedisLedgerQueue,
	channelQueue *common.ChannelLedgerQueue,
	metricsReg *metrics.MetricsRegistry,
) *LedgerWorker {
	return &LedgerWorker{
		sheets:        sheets,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		consumerName:  fmt.Sprintf("ledger-%s", uuid.NewString()[:8]),
		redisQueue:    redisQueue,
		channelQueue:  channelQueue,
		metricsReg:    metricsReg,
	}
}

// Start runs the worker until the context ends.
func (w *LedgerWorker) Start(ctx context.Context) {
	if w.redisQueue != nil {
		w.runRedis(ctx)
		return
	}
	w.runChannel(ctx)
}

func (w *LedgerWorker) runRedis(ctx context.Context) {
	if err := w.redisQueue.CreateConsumerGroup(ctx, ledgerConsumerGroup); err != nil {
		log.Printf("[LedgerWorker] Warning - failed to create consumer group: %v", err)
	}

	go w.monitorDepth(ctx, 30*time.Second)
	go w.reclaimLoop(ctx, time.Minute)
	go w.trimLoop(ctx, time.Hour)

	log.Printf("[LedgerWorker] Consuming stream %s as %s", common.LedgerStreamName, w.consumerName)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[LedgerWorker] Shutting down")
			return
		default:
			entry, messageID, err := w.redisQueue.Dequeue(ctx, ledgerConsumerGroup, w.consumerName, 5*time.Second)
			if err != nil {
				log.Printf("[LedgerWorker] Dequeue error: %v", err)
				time.Sleep(2 * time.Second)
				continue
			}
			if entry == nil {
				continue
			}

			if err := w.appendEntry(ctx, entry); err != nil {
				// Not acked; the reclaim loop retries it once it goes stale.
				log.Printf("[LedgerWorker] Append failed for report %s: %v", entry.ReportID, err)
				w.metricsReg.LedgerAppendsTotal.WithLabelValues("failure").Inc()
				continue
			}

			if err := w.redisQueue.Ack(ctx, ledgerConsumerGroup, messageID); err != nil {
				log.Printf("[LedgerWorker] Ack failed for %s: %v", messageID, err)
			}
			w.metricsReg.LedgerAppendsTotal.WithLabelValues("success").Inc()
		}
	}
}

func (w *LedgerWorker) runChannel(ctx context.Context) {
	entries := w.channelQueue.Entries()
	log.Printf("[LedgerWorker] Consuming in-process ledger buffer")

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[LedgerWorker] Shutting down")
			return
		case <-ticker.C:
			w.metricsReg.LedgerQueueDepth.Set(float64(len(entries)))
		case entry := <-entries:
			if err := w.appendEntry(ctx, entry); err != nil {
				log.Printf("[LedgerWorker] Append failed for report %s, entry dropped: %v", entry.ReportID, err)
				w.metricsReg.LedgerAppendsTotal.WithLabelValues("failure").Inc()
				continue
			}
			w.metricsReg.LedgerAppendsTotal.WithLabelValues("success").Inc()
		}
	}
}

// reclaimLoop picks up entries another consumer dequeued but never acked,
// typically after a crash mid-append.
func (w *LedgerWorker) reclaimLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			entries, messageIDs, err := w.redisQueue.ClaimStale(ctx, ledgerConsumerGroup, w.consumerName, ledgerStaleAfter)
			if err != nil {
				log.Printf("[LedgerWorker] Stale claim error: %v", err)
				continue
			}

			for i, entry := range entries {
				if err := w.appendEntry(ctx, entry); err != nil {
					log.Printf("[LedgerWorker] Reclaimed append failed for report %s: %v", entry.ReportID, err)
					w.metricsReg.LedgerAppendsTotal.WithLabelValues("failure").Inc()
					continue
				}
				if err := w.redisQueue.Ack(ctx, ledgerConsumerGroup, messageIDs[i]); err != nil {
					log.Printf("[LedgerWorker] Ack failed for %s: %v", messageIDs[i], err)
				}
				w.metricsReg.LedgerAppendsTotal.WithLabelValues("success").Inc()
			}
		}
	}
}

func (w *LedgerWorker) trimLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.redisQueue.Trim(ctx, ledgerMaxStreamLen); err != nil {
				log.Printf("[LedgerWorker] Trim error: %v", err)
			}
		}
	}
}

func (w *LedgerWorker) monitorDepth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			length, err := w.redisQueue.QueueLength(ctx)
			if err != nil {
				log.Printf("[LedgerWorker] Depth check error: %v", err)
				continue
			}
			w.metricsReg.LedgerQueueDepth.Set(float64(length))
		}
	}
}

func (w *LedgerWorker) appendEntry(ctx context.Context, entry *common.LedgerEntry) error {
	row := []interface{}{
		entry.ApprovedAt.UTC().Format(time.RFC3339),
		entry.Callsign,
		entry.FlightNumber,
		fmt.Sprintf("%s-%s", entry.Departure, entry.Arrival),
		fmt.Sprintf("%.2f", entry.AwardedHours),
		entry.ReviewerID,
		entry.ReportID,
	}
	return w.sheets.AppendRow(ctx, w.spreadsheetID, w.sheetName, row)
}
