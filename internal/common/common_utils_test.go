package common

import (
	"context"
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{3.14159, 3.14},
		{2.718, 2.72},
		{2.0 / 3.0, 0.67},
		{3.0, 3.0},
		{1.994, 1.99},
		{0, 0},
	}

	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Errorf("Round2(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestRemainingRestMinutes_FullyRested(t *testing.T) {
	now := time.Now().UTC()
	since := now.Add(-11 * time.Hour)

	if got := RemainingRestMinutes(since, now, 10*time.Hour); got != 0 {
		t.Errorf("Expected 0 remaining, got %d", got)
	}
}

func TestRemainingRestMinutes_ExactBoundary(t *testing.T) {
	now := time.Now().UTC()
	since := now.Add(-10 * time.Hour)

	if got := RemainingRestMinutes(since, now, 10*time.Hour); got != 0 {
		t.Errorf("Expected 0 remaining at the boundary, got %d", got)
	}
}

func TestRemainingRestMinutes_RoundsUp(t *testing.T) {
	now := time.Now().UTC()
	since := now.Add(-9*time.Hour - 59*time.Minute - 30*time.Second)

	// 30 seconds short still owes a whole minute.
	if got := RemainingRestMinutes(since, now, 10*time.Hour); got != 1 {
		t.Errorf("Expected 1 minute remaining, got %d", got)
	}
}

func TestRemainingRestMinutes_FreshOffDuty(t *testing.T) {
	now := time.Now().UTC()

	if got := RemainingRestMinutes(now, now, 10*time.Hour); got != 600 {
		t.Errorf("Expected 600 minutes remaining, got %d", got)
	}
}

func TestChannelLedgerQueue_DeliversInOrder(t *testing.T) {
	q := NewChannelLedgerQueue(4, nil)

	for _, id := range []string{"r1", "r2", "r3"} {
		if err := q.Enqueue(context.Background(), &LedgerEntry{ReportID: id}); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	for _, want := range []string{"r1", "r2", "r3"} {
		got := <-q.Entries()
		if got.ReportID != want {
			t.Errorf("Expected %s, got %s", want, got.ReportID)
		}
	}
}

func TestChannelLedgerQueue_DropsWhenFullWithoutBlocking(t *testing.T) {
	drops := 0
	q := NewChannelLedgerQueue(2, func() { drops++ })

	for i := 0; i < 5; i++ {
		if err := q.Enqueue(context.Background(), &LedgerEntry{ReportID: "r"}); err != nil {
			t.Fatalf("Enqueue must never fail: %v", err)
		}
	}

	if drops != 3 {
		t.Errorf("Expected 3 dropped entries past the buffer, got %d", drops)
	}
	if len(q.Entries()) != 2 {
		t.Errorf("Expected 2 buffered entries, got %d", len(q.Entries()))
	}
}
