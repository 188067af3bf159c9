package deals

import "testing"

func TestStageProbabilities(t *testing.T) {
	cases := []struct {
		stage string
		want  int
	}{
		{StagePrequalified, 10},
		{StageQualified, 25},
		{StageProposalDev, 40},
		{StageProposalDelivered, 60},
		{StageLegal, 75},
		{StageOutForSignature, 90},
		{StageSigned, 95},
		{StageWon, 100},
		{StageLost, 0},
	}
	for _, tc := range cases {
		if got := StageProbability(tc.stage); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.stage, tc.want, got)
		}
	}
}

func TestStageProbabilityUnknownStage(t *testing.T) {
	if got := StageProbability("bogus"); got != 10 {
		t.Fatalf("expected prequalified fallback 10, got %d", got)
	}
}

func TestStageOrderComplete(t *testing.T) {
	if len(StageOrder) != 9 {
		t.Fatalf("expected 9 stages, got %d", len(StageOrder))
	}
	for _, stage := range StageOrder {
		if !IsValidStage(stage) {
			t.Fatalf("stage %s missing probability", stage)
		}
	}
}

func TestIsClosed(t *testing.T) {
	if !IsClosed(StageWon) || !IsClosed(StageLost) {
		t.Fatal("won and lost should be closed")
	}
	if IsClosed(StageSigned) {
		t.Fatal("signed should not be closed")
	}
}

func TestClampProbability(t *testing.T) {
	if ClampProbability(-5) != 0 || ClampProbability(150) != 100 || ClampProbability(42) != 42 {
		t.Fatal("probability clamp broken")
	}
}
