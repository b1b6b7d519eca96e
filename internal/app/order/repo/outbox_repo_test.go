package repo

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/order-service/internal/app/order/contracts"
	"github.com/light-bringer/order-service/internal/models/m_outbox"
	"github.com/light-bringer/order-service/internal/pkg/backoff"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		Delay:       backoff.Exponential(200*time.Millisecond, 30*time.Second),
		ClaimTTL:    30 * time.Second,
	}
}

func TestFailureUpdates_RequeuesWithBackoff(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := &contracts.OutboxEntry{EntryID: "entry-1", Attempts: 0}

	updates, terminal := failureUpdates(entry, errors.New("broker unavailable"), now, testPolicy())

	assert.False(t, terminal)
	assert.Equal(t, m_outbox.StatusPending, updates[m_outbox.Status])
	assert.Equal(t, int64(1), updates[m_outbox.Attempts])
	assert.Equal(t, now, updates[m_outbox.LastAttemptAt])
	assert.Equal(t, "broker unavailable", updates[m_outbox.ErrorMessage])
	assert.Equal(t, spanner.NullTime{}, updates[m_outbox.ClaimedAt])

	// First failure schedules the retry one base delay out
	assert.Equal(t, now.Add(200*time.Millisecond), updates[m_outbox.ScheduledAt])
}

func TestFailureUpdates_BackoffGrowsPerAttempt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	policy := testPolicy()

	expected := []time.Duration{
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
	}
	for i, want := range expected {
		entry := &contracts.OutboxEntry{EntryID: "entry-1", Attempts: int64(i)}
		updates, terminal := failureUpdates(entry, errors.New("boom"), now, policy)

		require.False(t, terminal, "attempt %d should not be terminal", i+1)
		assert.Equal(t, now.Add(want), updates[m_outbox.ScheduledAt])
	}
}

func TestFailureUpdates_TerminalPastMaxAttempts(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Fifth recorded failure reaches the limit but is still retried
	entry := &contracts.OutboxEntry{EntryID: "entry-1", Attempts: 4}
	updates, terminal := failureUpdates(entry, errors.New("boom"), now, testPolicy())
	assert.False(t, terminal)
	assert.Equal(t, m_outbox.StatusPending, updates[m_outbox.Status])
	assert.Equal(t, int64(5), updates[m_outbox.Attempts])

	// The sixth failure exceeds the limit and parks the entry
	entry = &contracts.OutboxEntry{EntryID: "entry-1", Attempts: 5}
	updates, terminal = failureUpdates(entry, errors.New("boom"), now, testPolicy())
	assert.True(t, terminal)
	assert.Equal(t, m_outbox.StatusFailed, updates[m_outbox.Status])
	assert.Equal(t, int64(6), updates[m_outbox.Attempts])

	// Terminal entries are never rescheduled
	_, hasSchedule := updates[m_outbox.ScheduledAt]
	assert.False(t, hasSchedule)
}

func TestFailureUpdates_ReleasesClaim(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := &contracts.OutboxEntry{EntryID: "entry-1", Attempts: 2, Status: m_outbox.StatusProcessing}

	updates, _ := failureUpdates(entry, errors.New("boom"), now, testPolicy())

	assert.Equal(t, spanner.NullTime{}, updates[m_outbox.ClaimedAt])
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()

	assert.Equal(t, int64(5), policy.MaxAttempts)
	assert.Equal(t, 30*time.Second, policy.ClaimTTL)
	assert.Equal(t, 200*time.Millisecond, policy.Delay(1))
	assert.Equal(t, 30*time.Second, policy.Delay(20))
}
