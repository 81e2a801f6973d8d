package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL bounds and defaults.
const (
	DefaultTTL = 10 * time.Minute
	MinTTL     = time.Second
	MaxTTL     = 7 * 24 * time.Hour

	// EnvTTL overrides the configured TTL.
	EnvTTL = "RESINHOOK_CACHE_TTL"

	// EnvDisabled turns the cache off when set to a true value.
	EnvDisabled = "RESINHOOK_NO_CACHE"

	hoursPerDay = 24
)

// ErrInvalidTTL is returned for a TTL outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)

// ParseTTL accepts integer seconds ("600") or a Go duration ("10m").
func ParseTTL(s string) (time.Duration, error) {
	var d time.Duration
	if secs, err := strconv.Atoi(s); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid TTL %q: %w", s, err)
		}
	}

	if d < MinTTL || d > MaxTTL {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return d, nil
}

// TTLFromEnv returns the TTL from EnvTTL, or fallback when it is unset or
// invalid.
func TTLFromEnv(fallback time.Duration) time.Duration {
	v := os.Getenv(EnvTTL)
	if v == "" {
		return fallback
	}
	d, err := ParseTTL(v)
	if err != nil {
		return fallback
	}
	return d
}

// DisabledByEnv reports whether EnvDisabled asks for no caching.
func DisabledByEnv() bool {
	off, err := strconv.ParseBool(os.Getenv(EnvDisabled))
	return err == nil && off
}

// FormatDuration renders d compactly, e.g. "45s", "5m", "2h30m", "3d2h".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < hoursPerDay*time.Hour:
		h, m := int(d.Hours()), int(d.Minutes())%60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	default:
		days, h := int(d.Hours())/hoursPerDay, int(d.Hours())%hoursPerDay
		if h == 0 {
			return fmt.Sprintf("%dd", days)
		}
		return fmt.Sprintf("%dd%dh", days, h)
	}
}
