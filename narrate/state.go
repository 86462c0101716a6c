package narrate

// Stage represents the pipeline's position while processing one content unit.
type Stage int

const (
	// StagePending indicates the unit has not started processing.
	StagePending Stage = iota
	// StageResolved indicates the narrator voice has been resolved.
	StageResolved
	// StageSegmented indicates the content has been split into segments.
	StageSegmented
	// StageSynthesizing indicates segments are being synthesized.
	StageSynthesizing
	// StageAssembling indicates waveforms are being stitched together.
	StageAssembling
	// StageEncoding indicates the assembled waveform is being encoded.
	StageEncoding
	// StageDone indicates the output artifact has been written.
	StageDone
	// StageFailed indicates the unit was aborted.
	StageFailed
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StageResolved:
		return "resolved"
	case StageSegmented:
		return "segmented"
	case StageSynthesizing:
		return "synthesizing"
	case StageAssembling:
		return "assembling"
	case StageEncoding:
		return "encoding"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// stageMachine enforces the per-unit stage order. Failed is reachable from
// any non-terminal stage; Done only from Encoding.
type stageMachine struct {
	current     Stage
	transitions map[Stage][]Stage
}

func newStageMachine() *stageMachine {
	return &stageMachine{
		current: StagePending,
		transitions: map[Stage][]Stage{
			StagePending:      {StageResolved, StageFailed},
			StageResolved:     {StageSegmented, StageFailed},
			StageSegmented:    {StageSynthesizing, StageFailed},
			StageSynthesizing: {StageAssembling, StageFailed},
			StageAssembling:   {StageEncoding, StageFailed},
			StageEncoding:     {StageDone, StageFailed},
		},
	}
}

// transition attempts to move to the given stage.
func (m *stageMachine) transition(to Stage) bool {
	for _, next := range m.transitions[m.current] {
		if next == to {
			m.current = to
			return true
		}
	}
	return false
}

// Current returns the current stage.
func (m *stageMachine) Current() Stage { return m.current }
