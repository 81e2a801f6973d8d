package cache

import (
	"encoding/json"
	"time"
)

// Entry is one cached payload.
type Entry struct {
	// Key is the digest the entry is stored under.
	Key string `json:"key"`

	// Source describes where the payload came from, usually a URL.
	Source string `json:"source"`

	// Data is the raw payload.
	Data json.RawMessage `json:"data"`

	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExpiredAt reports whether e is stale at now.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Age returns how long e had been stored at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Remaining returns the time left before e expires, or zero.
func (e *Entry) Remaining(now time.Time) time.Duration {
	return max(e.ExpiresAt.Sub(now), 0)
}
