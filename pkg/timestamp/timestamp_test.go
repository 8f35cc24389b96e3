package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNow(t *testing.T) {
	before := time.Now().UnixMilli()
	ts := Now()
	after := time.Now().UnixMilli()

	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}

func TestToUnixMs_ZeroTime(t *testing.T) {
	assert.Equal(t, int64(0), ToUnixMs(time.Time{}))
}

func TestRoundTrip(t *testing.T) {
	now := time.Now()
	ms := ToUnixMs(now)
	back := FromUnixMs(ms)

	// Millisecond storage drops sub-millisecond precision.
	assert.WithinDuration(t, now, back, time.Millisecond)
}

func TestFromUnixMs_Zero(t *testing.T) {
	assert.True(t, FromUnixMs(0).IsZero())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(0))
	assert.Equal(t, "2023-01-01T12:00:00Z", Format(1672574400000))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
	}{
		{"nil", nil, 0},
		{"int64 milliseconds", int64(1672574400000), 1672574400000},
		{"int64 seconds", int64(1672574400), 1672574400000},
		{"uint64 milliseconds", uint64(1672574400000), 1672574400000},
		{"float64 milliseconds", float64(1672574400000), 1672574400000},
		{"float64 seconds", float64(1672574400), 1672574400000},
		{"rfc3339 string", "2023-01-01T12:00:00Z", 1672574400000},
		{"unix string", "1672574400", 1672574400000},
		{"empty string", "", 0},
		{"garbage string", "not-a-time", 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.input))
		})
	}
}

func TestParse_TimeValue(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now.UnixMilli(), Parse(now))
}

func TestSince(t *testing.T) {
	assert.Equal(t, time.Duration(0), Since(0))

	past := Now() - 1000
	assert.InDelta(t, time.Second, Since(past), float64(100*time.Millisecond))
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(0))
	assert.False(t, IsZero(Now()))
}
