package clock

// TimeValue is a minutes/seconds pair used by the nested time fields.
type TimeValue struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Status is one point-in-time, possibly partial, view of the remote clock.
//
// Records produced by Extract carry the set of fields that were explicitly
// present in the payload. Records built in code carry no presence
// information until WithFields is called; for those, content is judged by
// comparing against the zero value.
type Status struct {
	Minutes      int
	Seconds      int
	CurrentRound int
	TotalRounds  int
	IsRunning    bool
	IsPaused     bool

	ElapsedMinutes int
	ElapsedSeconds int

	IsBetweenRounds      bool
	BetweenRoundsMinutes int
	BetweenRoundsSeconds int
	BetweenRoundsEnabled bool
	BetweenRoundsTime    int

	WarningLeadTime  int
	WarningSoundPath string
	EndSoundPath     string

	NTPSyncEnabled bool
	NTPOffset      int // milliseconds

	EndTime    string
	TimeStamp  string
	ServerTime float64

	APIVersion         string
	ConnectionProtocol string

	InitialTime          TimeValue
	StartTime            TimeValue
	PauseStartTime       float64
	TotalPausedTime      float64
	CurrentPauseDuration float64
	LastUpdateTime       float64

	present FieldSet
	tracked bool
}

// Present returns the fields explicitly carried by the payload that produced s.
func (s Status) Present() FieldSet {
	return s.present
}

// Tracked reports whether s carries presence information.
func (s Status) Tracked() bool {
	return s.tracked
}

// Has reports whether f was explicitly present.
func (s Status) Has(f Field) bool {
	return s.present.Has(f)
}

// WithFields returns a copy of s that records the given fields as present.
func (s Status) WithFields(fields ...Field) Status {
	s.tracked = true
	for _, f := range fields {
		s.present = s.present.With(f)
	}
	return s
}

// HasMeaningfulContent reports whether s would change anything if merged.
// A zero Status never has content.
func (s Status) HasMeaningfulContent() bool {
	if s.tracked {
		return !s.present.Empty()
	}
	return !s.Equal(Status{})
}

// Equal compares every status field. Presence is ignored: two records with
// the same values decoded from different payload shapes are equal.
func (s Status) Equal(other Status) bool {
	s.present, s.tracked = 0, false
	other.present, other.tracked = 0, false
	return s == other
}

// HasDeadline reports whether s carries a non-empty end time.
func (s Status) HasDeadline() bool {
	return s.EndTime != ""
}

// CountingDown reports whether s denotes an active main countdown.
func (s Status) CountingDown() bool {
	return s.IsRunning && !s.IsPaused && !s.IsBetweenRounds
}

// RemainingSeconds returns the main timer as whole seconds.
func (s Status) RemainingSeconds() int {
	return s.Minutes*60 + s.Seconds
}
