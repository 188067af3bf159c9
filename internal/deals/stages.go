package deals

import "github.com/mattlince/aws-partner-tracker-sub000/internal/models"

const (
	StagePrequalified      = models.StagePrequalified
	StageQualified         = models.StageQualified
	StageProposalDev       = models.StageProposalDev
	StageProposalDelivered = models.StageProposalDelivered
	StageLegal             = models.StageLegal
	StageOutForSignature   = models.StageOutForSignature
	StageSigned            = models.StageSigned
	StageWon               = models.StageWon
	StageLost              = models.StageLost
)

// StageOrder lists the pipeline stages in progression order. Any transition is
// permitted; the order only matters for display.
var StageOrder = models.DealStages

var stageProbabilities = map[string]int{
	StagePrequalified:      10,
	StageQualified:         25,
	StageProposalDev:       40,
	StageProposalDelivered: 60,
	StageLegal:             75,
	StageOutForSignature:   90,
	StageSigned:            95,
	StageWon:               100,
	StageLost:              0,
}

func IsValidStage(stage string) bool {
	_, ok := stageProbabilities[stage]
	return ok
}

// StageProbability returns the fixed default win probability for a stage.
// Unknown stages fall back to the prequalified default.
func StageProbability(stage string) int {
	if p, ok := stageProbabilities[stage]; ok {
		return p
	}
	return stageProbabilities[StagePrequalified]
}

// IsClosed reports whether the stage is terminal for attribution bucketing.
// Closed deals are never auto-archived; deletion stays an explicit action.
func IsClosed(stage string) bool {
	return stage == StageWon || stage == StageLost
}

func ClampProbability(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
