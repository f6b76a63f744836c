package workers

import (
	"context"
	"log"

	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/metrics"
)

type WorkersContainer struct {
	Ledger *LedgerWorker
}

// InitWorkers starts the background workers. The ledger worker only runs
// when a sheets client and target spreadsheet are configured; without them
// the review flow never enqueues, so there is nothing to drain.
func InitWorkers(
	ctx context.Context,
	sheets *common.SheetsClient,
	ledgerSpreadsheetID string,
	ledgerSheetName string,
	redisQueue *common.RedisLedgerQueue,
	channelQueue *common.ChannelLedgerQueue,
	metricsReg *metrics.MetricsRegistry,
) *WorkersContainer {
	if sheets == nil || ledgerSpreadsheetID == "" {
		log.Printf("[Workers] Ledger mirror disabled, no sheets credentials configured")
		return &WorkersContainer{}
	}

	ledger := NewLedgerWorker(sheets, ledgerSpreadsheetID, ledgerSheetName, redisQueue, channelQueue, metricsReg)
	go ledger.Start(ctx)

	return &WorkersContainer{
		Ledger: ledger,
	}
}
