package narrate

import "testing"

func TestStageMachineHappyPath(t *testing.T) {
	m := newStageMachine()

	order := []Stage{StageResolved, StageSegmented, StageSynthesizing, StageAssembling, StageEncoding, StageDone}
	for _, next := range order {
		if !m.transition(next) {
			t.Fatalf("Expected transition %s -> %s to succeed", m.Current(), next)
		}
	}
	if m.Current() != StageDone {
		t.Errorf("Expected final stage done, got %s", m.Current())
	}
}

func TestStageMachineRejectsSkips(t *testing.T) {
	tests := []struct {
		name string
		walk []Stage
		to   Stage
	}{
		{"pending cannot jump to synthesizing", nil, StageSynthesizing},
		{"pending cannot jump to done", nil, StageDone},
		{"resolved cannot jump to encoding", []Stage{StageResolved}, StageEncoding},
		{"no transition out of done", []Stage{StageResolved, StageSegmented, StageSynthesizing, StageAssembling, StageEncoding, StageDone}, StageFailed},
		{"no transition out of failed", []Stage{StageFailed}, StageResolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newStageMachine()
			for _, s := range tt.walk {
				if !m.transition(s) {
					t.Fatalf("Setup transition to %s failed", s)
				}
			}
			if m.transition(tt.to) {
				t.Errorf("Expected transition %s -> %s to be rejected", m.Current(), tt.to)
			}
		})
	}
}

func TestStageMachineFailedFromAnyActiveStage(t *testing.T) {
	walks := [][]Stage{
		{},
		{StageResolved},
		{StageResolved, StageSegmented},
		{StageResolved, StageSegmented, StageSynthesizing},
		{StageResolved, StageSegmented, StageSynthesizing, StageAssembling},
		{StageResolved, StageSegmented, StageSynthesizing, StageAssembling, StageEncoding},
	}

	for _, walk := range walks {
		m := newStageMachine()
		for _, s := range walk {
			m.transition(s)
		}
		from := m.Current()
		if !m.transition(StageFailed) {
			t.Errorf("Expected %s -> failed to succeed", from)
		}
	}
}

func TestStageStrings(t *testing.T) {
	tests := []struct {
		stage    Stage
		expected string
	}{
		{StagePending, "pending"},
		{StageResolved, "resolved"},
		{StageSegmented, "segmented"},
		{StageSynthesizing, "synthesizing"},
		{StageAssembling, "assembling"},
		{StageEncoding, "encoding"},
		{StageDone, "done"},
		{StageFailed, "failed"},
		{Stage(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.expected {
			t.Errorf("Stage %d: expected %q, got %q", tt.stage, tt.expected, got)
		}
	}
}
