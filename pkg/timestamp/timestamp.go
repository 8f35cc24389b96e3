// Package timestamp provides standardized Unix timestamp handling utilities.
//
// Envelopes and push notifications carry creation instants as int64
// milliseconds since the Unix epoch (UTC). This package is the single place
// that converts between that canonical representation, time.Time, and the
// looser values (seconds, floats, RFC3339 strings) that arrive off the wire.
//
// Zero Value Semantics:
//   - A timestamp value of 0 means "not set" or "unknown"
//   - Functions handle zero values gracefully, returning appropriate defaults
package timestamp

import (
	"strconv"
	"time"
)

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to time.Time.
// Returns zero time if the timestamp is 0.
func FromUnixMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Format converts Unix milliseconds to an RFC3339 string for display.
// Returns empty string if the timestamp is 0.
func Format(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// Parse converts various timestamp representations to Unix milliseconds.
//
// Deserializers hand back different numeric types depending on the wire
// format: JSON produces float64, msgpack produces int64/uint64, and older
// producers emit second-resolution values or RFC3339 strings. Values above
// 1e12 are treated as milliseconds, below as seconds.
//
// Returns 0 for nil, zero, or unparseable input.
func Parse(input any) int64 {
	switch v := input.(type) {
	case nil:
		return 0

	case int64:
		return normalize(v)

	case uint64:
		return normalize(int64(v))

	case int:
		return normalize(int64(v))

	case int32:
		return normalize(int64(v))

	case float64:
		if v == 0 {
			return 0
		}
		if v > 1e12 {
			return int64(v)
		}
		return int64(v * 1000)

	case string:
		if v == "" {
			return 0
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return ToUnixMs(t)
		}
		if ts, err := strconv.ParseInt(v, 10, 64); err == nil {
			return normalize(ts)
		}
		if ts, err := strconv.ParseFloat(v, 64); err == nil {
			return Parse(ts)
		}
		return 0

	case time.Time:
		return ToUnixMs(v)

	default:
		return 0
	}
}

func normalize(v int64) int64 {
	if v == 0 {
		return 0
	}
	// Above 1e12 (year 2001 in seconds) the value is already milliseconds.
	if v > 1e12 {
		return v
	}
	return v * 1000
}

// IsZero checks if a timestamp is unset.
func IsZero(ms int64) bool {
	return ms == 0
}

// Since returns the duration elapsed since the given timestamp.
// Returns 0 if the timestamp is zero.
func Since(ms int64) time.Duration {
	if ms == 0 {
		return 0
	}
	return time.Since(time.UnixMilli(ms))
}
