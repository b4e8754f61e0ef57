package history

import (
	"log"
	"sort"
	"sync"
	"time"
)

// Sample is a single live power-draw reading for an account.
type Sample struct {
	AccountID string    `json:"accountId"`
	Timestamp time.Time `json:"timestamp"`
	Watts     float64   `json:"watts"`
}

// Buffer is a bounded in-memory store of recent live-usage samples.
//
// Samples older than maxAge are evicted lazily on every Record and Query;
// there is no background timer. The buffer exists only to feed the
// dashboard's rolling sparkline, so nothing is persisted — after a restart
// history simply rebuilds from fresh live readings.
type Buffer struct {
	mu      sync.Mutex
	maxAge  time.Duration
	samples []Sample
	now     func() time.Time
}

// New creates an empty buffer that retains samples for maxAge.
func New(maxAge time.Duration) *Buffer {
	return &Buffer{
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Record appends a sample for accountID stamped with the current UTC time,
// then evicts expired samples across all accounts.
func (b *Buffer) Record(accountID string, watts float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC()
	b.samples = append(b.samples, Sample{
		AccountID: accountID,
		Timestamp: now,
		Watts:     watts,
	})
	b.evictLocked(now)
}

// Query returns the retained samples for accountID in ascending timestamp
// order. The result is a fresh slice, never a live view; it is empty (not
// nil) when the account has no samples.
func (b *Buffer) Query(accountID string) []Sample {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.evictLocked(b.now().UTC())

	out := make([]Sample, 0, len(b.samples))
	for _, s := range b.samples {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// evictLocked drops every sample older than maxAge relative to now. The TTL
// check is per-sample and account-agnostic. Caller must hold b.mu.
func (b *Buffer) evictLocked(now time.Time) {
	kept := b.samples[:0]
	for _, s := range b.samples {
		if now.Sub(s.Timestamp) <= b.maxAge {
			kept = append(kept, s)
		}
	}
	purged := len(b.samples) - len(kept)
	b.samples = kept
	if purged > 0 {
		log.Printf("[History] Purged %d expired samples (max age %s)", purged, b.maxAge)
	}
}
