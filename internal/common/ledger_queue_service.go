package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// LedgerStreamName is the Redis stream carrying approved reports to the
// spreadsheet ledger worker.
const LedgerStreamName = "opsdesk:ledger"

// LedgerEntry is one approved report bound for the spreadsheet ledger.
// Everything the sheet row needs travels in the entry; the worker never
// reads the database.
type LedgerEntry struct {
	ReportID     string    `json:"report_id"`
	PilotID      string    `json:"pilot_id"`
	Callsign     string    `json:"callsign"`
	FlightNumber string    `json:"flight_number"`
	Departure    string    `json:"departure"`
	Arrival      string    `json:"arrival"`
	AwardedHours float64   `json:"awarded_hours"`
	ReviewerID   string    `json:"reviewer_id"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// LedgerQueue is the producer side of the ledger mirror. Both the Redis
// stream and the in-process channel implementation satisfy it; approval
// never learns which one is wired.
type LedgerQueue interface {
	Enqueue(ctx context.Context, entry *LedgerEntry) error
}

// RedisLedgerQueue provides the ledger queue on Redis Streams, surviving
// process restarts and sharing work across replicas.
type RedisLedgerQueue struct {
	client *redis.Client
}

// NewRedisLedgerQueue creates a new Redis-backed ledger queue
func NewRedisLedgerQueue(client *redis.Client) *RedisLedgerQueue {
	return &RedisLedgerQueue{
		client: client,
	}
}

// Ensure RedisLedgerQueue implements LedgerQueue
var _ LedgerQueue = (*RedisLedgerQueue)(nil)

// Enqueue adds an entry to the stream.
// XADD stream_name * data <json>
func (s *RedisLedgerQueue) Enqueue(ctx context.Context, entry *LedgerEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: LedgerStreamName,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}

	_, err = s.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to add to stream: %w", err)
	}

	return nil
}

// Dequeue reads one entry via the consumer group.
// Returns (entry, messageID, error); both nil/"" on timeout.
func (s *RedisLedgerQueue) Dequeue(ctx context.Context, groupName, consumerName string, blockTime time.Duration) (*LedgerEntry, string, error) {
	// XREADGROUP GROUP group consumer BLOCK milliseconds COUNT 1 STREAMS stream >
	args := &redis.XReadGroupArgs{
		Group:    groupName,
		Consumer: consumerName,
		Streams:  []string{LedgerStreamName, ">"}, // ">" means new messages only
		Count:    1,
		Block:    blockTime,
	}

	streams, err := s.client.XReadGroup(ctx, args).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	msg := streams[0].Messages[0]

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		return nil, "", fmt.Errorf("invalid message format: data field missing")
	}

	var entry LedgerEntry
	if err := json.Unmarshal([]byte(dataStr), &entry); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal ledger entry: %w", err)
	}

	return &entry, msg.ID, nil
}

// Ack acknowledges successful processing of a message
func (s *RedisLedgerQueue) Ack(ctx context.Context, groupName, messageID string) error {
	return s.client.XAck(ctx, LedgerStreamName, groupName, messageID).Err()
}

// CreateConsumerGroup creates the consumer group if it doesn't exist.
// XGROUP CREATE stream group 0 MKSTREAM
func (s *RedisLedgerQueue) CreateConsumerGroup(ctx context.Context, groupName string) error {
	err := s.client.XGroupCreateMkStream(ctx, LedgerStreamName, groupName, "0").Err()
	if err != nil && err.Error() == "BUSYGROUP Consumer Group name already exists" {
		return nil
	}
	return err
}

// QueueLength returns the number of messages in the stream
func (s *RedisLedgerQueue) QueueLength(ctx context.Context) (int64, error) {
	length, err := s.client.XLen(ctx, LedgerStreamName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}

// PendingCount returns the number of delivered but unacknowledged messages
func (s *RedisLedgerQueue) PendingCount(ctx context.Context, groupName string) (int64, error) {
	pending, err := s.client.XPending(ctx, LedgerStreamName, groupName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return pending.Count, nil
}

// Trim removes old processed messages, keeping the most recent maxLen
func (s *RedisLedgerQueue) Trim(ctx context.Context, maxLen int64) error {
	return s.client.XTrimMaxLen(ctx, LedgerStreamName, maxLen).Err()
}

// ClaimStale claims messages another consumer took but never acked, so a
// dead worker's entries still reach the sheet.
func (s *RedisLedgerQueue) ClaimStale(ctx context.Context, groupName, consumerName string, minIdleTime time.Duration) ([]*LedgerEntry, []string, error) {
	pending, err := s.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: LedgerStreamName,
		Group:  groupName,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	if len(pending) == 0 {
		return nil, nil, nil
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdleTime {
			staleIDs = append(staleIDs, p.ID)
		}
	}

	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	messages, err := s.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   LedgerStreamName,
		Group:    groupName,
		Consumer: consumerName,
		MinIdle:  minIdleTime,
		Messages: staleIDs,
	}).Result()

	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	var entries []*LedgerEntry
	var messageIDs []string
	for _, msg := range messages {
		dataStr, ok := msg.Values["data"].(string)
		if !ok {
			continue
		}

		var entry LedgerEntry
		if err := json.Unmarshal([]byte(dataStr), &entry); err != nil {
			log.Printf("[LedgerQueue] Warning: failed to unmarshal claimed message: %v", err)
			continue
		}

		entries = append(entries, &entry)
		messageIDs = append(messageIDs, msg.ID)
	}

	return entries, messageIDs, nil
}
