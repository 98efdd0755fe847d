package pipeline

// Stage identifies a step of the pipeline state machine. Stages run
// strictly in order; Cancelled and Failed are reachable from any
// non-terminal stage.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageExtractingAudio Stage = "extracting_audio"
	StageDetectingVoice  Stage = "detecting_voice"
	StageTranscribing    Stage = "transcribing"
	StageMerging         Stage = "merging_segments"
	StageStyling         Stage = "applying_style"
	StageExporting       Stage = "exporting"
	StageDone            Stage = "done"
	StageCancelled       Stage = "cancelled"
	StageFailed          Stage = "failed"
)

// Label returns the human-readable progress label for the stage.
func (s Stage) Label() string {
	switch s {
	case StageExtractingAudio:
		return "extracting audio"
	case StageDetectingVoice:
		return "detecting voice activity"
	case StageTranscribing:
		return "transcribing speech"
	case StageMerging:
		return "merging segments"
	case StageStyling:
		return "applying style"
	case StageExporting:
		return "exporting subtitles"
	case StageDone:
		return "done"
	case StageCancelled:
		return "cancelled"
	case StageFailed:
		return "failed"
	default:
		return string(s)
	}
}

// Terminal reports whether the stage ends a run.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageCancelled || s == StageFailed
}
