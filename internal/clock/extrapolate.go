package clock

import "time"

// skewTolerance is how far timeStamp and serverTime may disagree before the
// difference is treated as server clock skew.
const skewTolerance = time.Second

// Normalize rewrites the remaining time of an active countdown from its
// deadline. Records that are not counting down, or whose deadline cannot be
// parsed, are returned unchanged.
func Normalize(s Status, now time.Time) Status {
	remaining, ok := Remaining(s, now)
	if !ok {
		return s
	}
	total := int(remaining / time.Second)
	s.Minutes = total / 60
	s.Seconds = total % 60
	return s.WithFields(FieldMinutes, FieldSeconds)
}

// Remaining returns the whole-second time left on the countdown described by
// s, never negative. The boolean is false when s is not counting down or has
// no usable deadline.
func Remaining(s Status, now time.Time) (time.Duration, bool) {
	if !s.CountingDown() || !s.HasDeadline() {
		return 0, false
	}
	deadline, ok := ParseInstant(s.EndTime)
	if !ok {
		return 0, false
	}

	emission, hasEmission := emissionTime(s)
	if hasEmission && s.ServerTime != 0 {
		if server, ok := EpochTime(s.ServerTime); ok {
			// A constant shift; sustained drift compounds across updates.
			if skew := server.Sub(emission); skew > skewTolerance || skew < -skewTolerance {
				deadline = deadline.Add(skew)
			}
		}
	}

	if s.NTPSyncEnabled && s.NTPOffset != 0 {
		now = now.Add(time.Duration(s.NTPOffset) * time.Millisecond)
	}

	var remaining time.Duration
	if hasEmission {
		remaining = deadline.Sub(emission) - now.Sub(emission)
	} else {
		remaining = deadline.Sub(now)
	}
	if remaining <= 0 {
		return 0, true
	}
	return remaining.Truncate(time.Second), true
}

func emissionTime(s Status) (time.Time, bool) {
	if s.TimeStamp == "" {
		return time.Time{}, false
	}
	return ParseInstant(s.TimeStamp)
}
