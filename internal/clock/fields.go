package clock

import (
	"strings"
)

// Field identifies one status attribute for presence tracking.
type Field uint8

const (
	FieldMinutes Field = iota
	FieldSeconds
	FieldCurrentRound
	FieldTotalRounds
	FieldIsRunning
	FieldIsPaused
	FieldElapsedMinutes
	FieldElapsedSeconds
	FieldIsBetweenRounds
	FieldBetweenRoundsMinutes
	FieldBetweenRoundsSeconds
	FieldBetweenRoundsEnabled
	FieldBetweenRoundsTime
	FieldWarningLeadTime
	FieldWarningSoundPath
	FieldEndSoundPath
	FieldNTPSyncEnabled
	FieldNTPOffset
	FieldEndTime
	FieldTimeStamp
	FieldServerTime
	FieldAPIVersion
	FieldConnectionProtocol
	FieldInitialTime
	FieldStartTime
	FieldPauseStartTime
	FieldTotalPausedTime
	FieldCurrentPauseDuration
	FieldLastUpdateTime

	fieldCount
)

// fieldNames holds the canonical wire name of every field.
var fieldNames = [fieldCount]string{
	FieldMinutes:              "minutes",
	FieldSeconds:              "seconds",
	FieldCurrentRound:         "currentRound",
	FieldTotalRounds:          "totalRounds",
	FieldIsRunning:            "isRunning",
	FieldIsPaused:             "isPaused",
	FieldElapsedMinutes:       "elapsedMinutes",
	FieldElapsedSeconds:       "elapsedSeconds",
	FieldIsBetweenRounds:      "isBetweenRounds",
	FieldBetweenRoundsMinutes: "betweenRoundsMinutes",
	FieldBetweenRoundsSeconds: "betweenRoundsSeconds",
	FieldBetweenRoundsEnabled: "betweenRoundsEnabled",
	FieldBetweenRoundsTime:    "betweenRoundsTime",
	FieldWarningLeadTime:      "warningLeadTime",
	FieldWarningSoundPath:     "warningSoundPath",
	FieldEndSoundPath:         "endSoundPath",
	FieldNTPSyncEnabled:       "ntpSyncEnabled",
	FieldNTPOffset:            "ntpOffset",
	FieldEndTime:              "endTime",
	FieldTimeStamp:            "timeStamp",
	FieldServerTime:           "serverTime",
	FieldAPIVersion:           "api_version",
	FieldConnectionProtocol:   "connection_protocol",
	FieldInitialTime:          "initialTime",
	FieldStartTime:            "startTime",
	FieldPauseStartTime:       "pauseStartTime",
	FieldTotalPausedTime:      "totalPausedTime",
	FieldCurrentPauseDuration: "currentPauseDuration",
	FieldLastUpdateTime:       "lastUpdateTime",
}

// fieldsByKey maps a normalized key (see normalizeKey) to its field.
var fieldsByKey = func() map[string]Field {
	m := make(map[string]Field, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		m[normalizeKey(fieldNames[f])] = f
	}
	return m
}()

// String returns the canonical wire name.
func (f Field) String() string {
	if f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// LookupField resolves a JSON key in snake_case or camelCase to a Field.
func LookupField(key string) (Field, bool) {
	f, ok := fieldsByKey[normalizeKey(key)]
	return f, ok
}

// normalizeKey drops underscores and lowercases so that "is_running",
// "isRunning" and "IsRunning" collapse to the same key.
func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", ""))
}

// FieldSet is a bitset of fields explicitly carried by a payload.
type FieldSet uint64

// NewFieldSet builds a set from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	var set FieldSet
	for _, f := range fields {
		set = set.With(f)
	}
	return set
}

// Has reports whether f is in the set.
func (s FieldSet) Has(f Field) bool {
	return f < fieldCount && s&(1<<f) != 0
}

// With returns the set with f added.
func (s FieldSet) With(f Field) FieldSet {
	if f >= fieldCount {
		return s
	}
	return s | 1<<f
}

// Union returns the fields present in either set.
func (s FieldSet) Union(other FieldSet) FieldSet {
	return s | other
}

// Empty reports whether no field is present.
func (s FieldSet) Empty() bool {
	return s == 0
}

// Len returns the number of fields in the set.
func (s FieldSet) Len() int {
	n := 0
	for f := Field(0); f < fieldCount; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// Fields lists the members in declaration order.
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, s.Len())
	for f := Field(0); f < fieldCount; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s FieldSet) String() string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
