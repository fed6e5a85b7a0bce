package clock

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrMalformedPayload means the bytes are not a JSON document.
	ErrMalformedPayload = errors.New("malformed status payload")
	// ErrStatusNotFound means the document is valid JSON but holds nothing
	// that looks like a status record.
	ErrStatusNotFound = errors.New("no status record in payload")
)

// Shape names the payload convention a status was found under.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeEnvelope
	ShapeMessage
	ShapeFlat
	ShapeNested
)

func (s Shape) String() string {
	switch s {
	case ShapeEnvelope:
		return "envelope"
	case ShapeMessage:
		return "message"
	case ShapeFlat:
		return "flat"
	case ShapeNested:
		return "nested"
	default:
		return "none"
	}
}

// Payload is the result of decoding one response body or stream frame.
type Payload struct {
	Shape  Shape
	Type   string // message discriminator, empty unless Shape is ShapeMessage
	Status Status
}

// maxSearchDepth bounds the nested fallback search.
const maxSearchDepth = 32

var (
	discriminatorKeys  = []string{"type", "event"}
	messagePayloadKeys = []string{"data", "payload", "status"}
)

type matcher func(root any) (Payload, bool)

// matchers run in precedence order; the first hit wins.
var matchers = []matcher{
	matchEnvelope,
	matchMessage,
	matchFlat,
	matchNested,
}

// Extract locates and decodes a status record in raw. It never fails on a
// single bad field; only unparsable JSON or a document without any status
// shape produce an error.
func Extract(raw []byte) (Status, error) {
	payload, err := Decode(raw)
	if err != nil {
		return Status{}, err
	}
	return payload.Status, nil
}

// Decode is Extract with the matched shape and discriminator attached.
func Decode(raw []byte) (Payload, error) {
	root, err := parseTree(raw)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	for _, match := range matchers {
		if payload, ok := match(root); ok {
			return payload, nil
		}
	}
	return Payload{}, ErrStatusNotFound
}

// matchEnvelope accepts {"<key>": {...status...}}. An empty object under
// "status" is an explicit no-op update rather than a miss.
func matchEnvelope(root any) (Payload, bool) {
	obj, ok := root.(*jsonObject)
	if !ok || obj.len() != 1 {
		return Payload{}, false
	}
	key := obj.keys[0]
	if _, isField := LookupField(key); isField {
		// {"startTime": {...}} is a flat record holding a nested value.
		return Payload{}, false
	}
	inner, ok := obj.values[0].(*jsonObject)
	if !ok {
		return Payload{}, false
	}
	explicitEmpty := inner.len() == 0 && normalizeKey(key) == "status"
	if !explicitEmpty && !inner.statusShaped() {
		return Payload{}, false
	}
	return Payload{Shape: ShapeEnvelope, Status: decodeObject(inner)}, true
}

// matchMessage accepts {"type": "...", "data"|"payload"|"status": {...}}.
// The discriminator is optional and its value is not interpreted.
func matchMessage(root any) (Payload, bool) {
	obj, ok := root.(*jsonObject)
	if !ok {
		return Payload{}, false
	}
	for _, key := range messagePayloadKeys {
		value, ok := obj.get(key)
		if !ok {
			continue
		}
		inner, ok := value.(*jsonObject)
		if !ok {
			continue
		}
		if inner.len() > 0 && !inner.statusShaped() {
			continue
		}
		return Payload{
			Shape:  ShapeMessage,
			Type:   discriminator(obj),
			Status: decodeObject(inner),
		}, true
	}
	return Payload{}, false
}

func discriminator(obj *jsonObject) string {
	for _, key := range discriminatorKeys {
		if value, ok := obj.get(key); ok {
			if s, ok := value.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func matchFlat(root any) (Payload, bool) {
	obj, ok := root.(*jsonObject)
	if !ok || !obj.statusShaped() {
		return Payload{}, false
	}
	return Payload{Shape: ShapeFlat, Status: decodeObject(obj)}, true
}

func matchNested(root any) (Payload, bool) {
	status, ok := findNested(root, 0)
	if !ok {
		return Payload{}, false
	}
	return Payload{Shape: ShapeNested, Status: status}, true
}

// findNested walks objects and arrays depth-first in document order and
// returns the first status-shaped object that decodes to real content.
func findNested(node any, depth int) (Status, bool) {
	if depth > maxSearchDepth {
		return Status{}, false
	}
	switch n := node.(type) {
	case *jsonObject:
		if n.statusShaped() {
			if status := decodeObject(n); status.HasMeaningfulContent() {
				return status, true
			}
		}
		for _, value := range n.values {
			if status, ok := findNested(value, depth+1); ok {
				return status, true
			}
		}
	case []any:
		for _, value := range n {
			if status, ok := findNested(value, depth+1); ok {
				return status, true
			}
		}
	}
	return Status{}, false
}

// decodeObject copies every recognised, well-typed key into a tracked record.
// Later duplicates win, matching encoding/json.
func decodeObject(obj *jsonObject) Status {
	status := Status{tracked: true}
	for i, key := range obj.keys {
		field, ok := LookupField(key)
		if !ok {
			continue
		}
		if decodeField(&status, field, obj.values[i]) {
			status.present = status.present.With(field)
		}
	}
	return status
}

// decodeField stores value into field and reports whether it was usable.
// JSON null clears nullable fields and is ignored for numbers and booleans.
func decodeField(s *Status, field Field, value any) bool {
	switch field {
	case FieldMinutes:
		return setInt(&s.Minutes, value)
	case FieldSeconds:
		return setInt(&s.Seconds, value)
	case FieldCurrentRound:
		return setInt(&s.CurrentRound, value)
	case FieldTotalRounds:
		return setInt(&s.TotalRounds, value)
	case FieldIsRunning:
		return setBool(&s.IsRunning, value)
	case FieldIsPaused:
		return setBool(&s.IsPaused, value)
	case FieldElapsedMinutes:
		return setInt(&s.ElapsedMinutes, value)
	case FieldElapsedSeconds:
		return setInt(&s.ElapsedSeconds, value)
	case FieldIsBetweenRounds:
		return setBool(&s.IsBetweenRounds, value)
	case FieldBetweenRoundsMinutes:
		return setInt(&s.BetweenRoundsMinutes, value)
	case FieldBetweenRoundsSeconds:
		return setInt(&s.BetweenRoundsSeconds, value)
	case FieldBetweenRoundsEnabled:
		return setBool(&s.BetweenRoundsEnabled, value)
	case FieldBetweenRoundsTime:
		return setInt(&s.BetweenRoundsTime, value)
	case FieldWarningLeadTime:
		return setInt(&s.WarningLeadTime, value)
	case FieldWarningSoundPath:
		return setString(&s.WarningSoundPath, value)
	case FieldEndSoundPath:
		return setString(&s.EndSoundPath, value)
	case FieldNTPSyncEnabled:
		return setBool(&s.NTPSyncEnabled, value)
	case FieldNTPOffset:
		return setInt(&s.NTPOffset, value)
	case FieldEndTime:
		return setInstant(&s.EndTime, value)
	case FieldTimeStamp:
		return setInstant(&s.TimeStamp, value)
	case FieldServerTime:
		return setFloat(&s.ServerTime, value)
	case FieldAPIVersion:
		return setString(&s.APIVersion, value)
	case FieldConnectionProtocol:
		return setString(&s.ConnectionProtocol, value)
	case FieldInitialTime:
		return setTimeValue(&s.InitialTime, value)
	case FieldStartTime:
		return setTimeValue(&s.StartTime, value)
	case FieldPauseStartTime:
		return setFloat(&s.PauseStartTime, value)
	case FieldTotalPausedTime:
		return setFloat(&s.TotalPausedTime, value)
	case FieldCurrentPauseDuration:
		return setFloat(&s.CurrentPauseDuration, value)
	case FieldLastUpdateTime:
		return setFloat(&s.LastUpdateTime, value)
	}
	return false
}

func setInt(dst *int, value any) bool {
	n, ok := value.(json.Number)
	if !ok {
		return false
	}
	if i, err := n.Int64(); err == nil {
		if i < math.MinInt || i > math.MaxInt {
			return false
		}
		*dst = int(i)
		return true
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return false
	}
	// -float64(math.MinInt) is the first integer past math.MaxInt and is exact.
	if f < math.MinInt || f >= -float64(math.MinInt) {
		return false
	}
	*dst = int(f)
	return true
}

func setBool(dst *bool, value any) bool {
	b, ok := value.(bool)
	if !ok {
		return false
	}
	*dst = b
	return true
}

func setString(dst *string, value any) bool {
	switch v := value.(type) {
	case nil:
		*dst = ""
		return true
	case string:
		*dst = v
		return true
	}
	return false
}

// setInstant keeps deadline inputs opaque; numbers keep their literal text.
func setInstant(dst *string, value any) bool {
	switch v := value.(type) {
	case nil:
		*dst = ""
		return true
	case string:
		*dst = strings.TrimSpace(v)
		return true
	case json.Number:
		*dst = v.String()
		return true
	}
	return false
}

func setFloat(dst *float64, value any) bool {
	switch v := value.(type) {
	case nil:
		*dst = 0
		return true
	case json.Number:
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) {
			return false
		}
		*dst = f
		return true
	}
	return false
}

func setTimeValue(dst *TimeValue, value any) bool {
	if value == nil {
		*dst = TimeValue{}
		return true
	}
	obj, ok := value.(*jsonObject)
	if !ok {
		return false
	}
	minutes, hasMinutes := obj.get("minutes")
	seconds, hasSeconds := obj.get("seconds")
	if !hasMinutes || !hasSeconds {
		return false
	}
	var tv TimeValue
	if !setInt(&tv.Minutes, minutes) || !setInt(&tv.Seconds, seconds) {
		return false
	}
	*dst = tv
	return true
}
