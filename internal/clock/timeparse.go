package clock

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// epochMillisThreshold separates epoch seconds from epoch milliseconds: any
// magnitude above it is read as milliseconds.
const epochMillisThreshold = 10_000_000_000

// fallbackLayouts cover servers that emit zone-less textual dates. They are
// read as UTC; a zone-less layout never fails in UTC and then succeeds in
// another location, so no local-zone pass is made.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
}

// ParseInstant reads a deadline or timestamp string. Accepted encodings, in
// order: epoch seconds or milliseconds, RFC 3339 with and without fractional
// seconds, then the zone-less fallback layouts in UTC.
func ParseInstant(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}

	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return epochFromInt(i), true
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return epochFromFloat(f)
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EpochTime converts a numeric epoch value using the same seconds/millis
// heuristic as ParseInstant.
func EpochTime(v float64) (time.Time, bool) {
	if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
		return epochFromInt(int64(v)), true
	}
	return epochFromFloat(v)
}

func epochFromInt(i int64) time.Time {
	if i > epochMillisThreshold || i < -epochMillisThreshold {
		return time.UnixMilli(i)
	}
	return time.Unix(i, 0)
}

// maxEpochSeconds keeps float conversions inside time.Duration range.
const maxEpochSeconds = 1 << 33

func epochFromFloat(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	seconds := f
	if math.Abs(f) > epochMillisThreshold {
		seconds = f / 1000
	}
	if math.Abs(seconds) > maxEpochSeconds {
		return time.Time{}, false
	}
	whole := math.Floor(seconds)
	nanos := math.Round((seconds - whole) * 1e9)
	return time.Unix(int64(whole), int64(nanos)), true
}
