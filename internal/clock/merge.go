package clock

// Merge applies patch on top of base. A nil base means no snapshot has been
// received yet, in which case the patch becomes the snapshot.
func Merge(base *Status, patch Status) Status {
	if base == nil {
		return patch
	}
	return base.Merge(patch)
}

// Merge returns s overlaid with the fields patch explicitly carries. Fields
// missing from the patch keep their value in s even when the patch holds a
// different zero value for them.
func (s Status) Merge(patch Status) Status {
	if !patch.HasMeaningfulContent() {
		return s
	}
	if !patch.tracked {
		// Built in code: there is nothing to tell which fields are real.
		return patch
	}

	merged := s
	for f := Field(0); f < fieldCount; f++ {
		if patch.present.Has(f) {
			copyField(&merged, &patch, f)
		}
	}
	merged.present = s.present.Union(patch.present)
	merged.tracked = true
	return merged
}

func copyField(dst, src *Status, f Field) {
	switch f {
	case FieldMinutes:
		dst.Minutes = src.Minutes
	case FieldSeconds:
		dst.Seconds = src.Seconds
	case FieldCurrentRound:
		dst.CurrentRound = src.CurrentRound
	case FieldTotalRounds:
		dst.TotalRounds = src.TotalRounds
	case FieldIsRunning:
		dst.IsRunning = src.IsRunning
	case FieldIsPaused:
		dst.IsPaused = src.IsPaused
	case FieldElapsedMinutes:
		dst.ElapsedMinutes = src.ElapsedMinutes
	case FieldElapsedSeconds:
		dst.ElapsedSeconds = src.ElapsedSeconds
	case FieldIsBetweenRounds:
		dst.IsBetweenRounds = src.IsBetweenRounds
	case FieldBetweenRoundsMinutes:
		dst.BetweenRoundsMinutes = src.BetweenRoundsMinutes
	case FieldBetweenRoundsSeconds:
		dst.BetweenRoundsSeconds = src.BetweenRoundsSeconds
	case FieldBetweenRoundsEnabled:
		dst.BetweenRoundsEnabled = src.BetweenRoundsEnabled
	case FieldBetweenRoundsTime:
		dst.BetweenRoundsTime = src.BetweenRoundsTime
	case FieldWarningLeadTime:
		dst.WarningLeadTime = src.WarningLeadTime
	case FieldWarningSoundPath:
		dst.WarningSoundPath = src.WarningSoundPath
	case FieldEndSoundPath:
		dst.EndSoundPath = src.EndSoundPath
	case FieldNTPSyncEnabled:
		dst.NTPSyncEnabled = src.NTPSyncEnabled
	case FieldNTPOffset:
		dst.NTPOffset = src.NTPOffset
	case FieldEndTime:
		dst.EndTime = src.EndTime
	case FieldTimeStamp:
		dst.TimeStamp = src.TimeStamp
	case FieldServerTime:
		dst.ServerTime = src.ServerTime
	case FieldAPIVersion:
		dst.APIVersion = src.APIVersion
	case FieldConnectionProtocol:
		dst.ConnectionProtocol = src.ConnectionProtocol
	case FieldInitialTime:
		dst.InitialTime = src.InitialTime
	case FieldStartTime:
		dst.StartTime = src.StartTime
	case FieldPauseStartTime:
		dst.PauseStartTime = src.PauseStartTime
	case FieldTotalPausedTime:
		dst.TotalPausedTime = src.TotalPausedTime
	case FieldCurrentPauseDuration:
		dst.CurrentPauseDuration = src.CurrentPauseDuration
	case FieldLastUpdateTime:
		dst.LastUpdateTime = src.LastUpdateTime
	}
}
