package entity

import "testing"

func TestNextStage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{StageMixing, StageExtruder},
		{StageExtruder, StageVulcanising},
		{StagePacking, StageStoreReceiving},
		{StageStoreReceiving, ProcessCompleted},
		{"UNKNOWN", ProcessCompleted},
	}
	for _, c := range cases {
		if got := NextStage(c.in); got != c.want {
			t.Errorf("NextStage(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestStageIndex(t *testing.T) {
	if got := StageIndex(StageMixing); got != 0 {
		t.Errorf("StageIndex(MIXING) = %d, want 0", got)
	}
	if got := StageIndex(StageStoreReceiving); got != 6 {
		t.Errorf("StageIndex(STORE_RECEIVING) = %d, want 6", got)
	}
	if got := StageIndex("QC"); got != -1 {
		t.Errorf("StageIndex(QC) = %d, want -1", got)
	}
}

func TestStageProgressPct(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{StageMixing, 14},
		{StageExtruder, 28},
		{StageVulcanising, 42},
		{StageCutting, 57},
		{StageFinishing, 71},
		{StagePacking, 85},
		{StageStoreReceiving, 100},
		{"UNKNOWN", 0},
	}
	for _, c := range cases {
		if got := StageProgressPct(c.in); got != c.want {
			t.Errorf("StageProgressPct(%s) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestIsNextAction(t *testing.T) {
	for _, a := range []string{ActionMoveNext, ActionRejected, ActionRework} {
		if !IsNextAction(a) {
			t.Errorf("IsNextAction(%s) = false", a)
		}
	}
	if IsNextAction("DONE") {
		t.Error("IsNextAction(DONE) = true")
	}
}
