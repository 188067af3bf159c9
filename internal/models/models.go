package models

import "time"

const (
	TouchpointCall    = "call"
	TouchpointEmail   = "email"
	TouchpointMeeting = "meeting"
	TouchpointText    = "text"
	TouchpointEvent   = "event"
	TouchpointOther   = "other"

	OutcomePositive    = "positive"
	OutcomeNeutral     = "neutral"
	OutcomeNeedsFollow = "needs-follow-up"
	OutcomeNegative    = "negative"

	ReferralDirect    = "direct"
	ReferralWarmIntro = "warm_intro"
	ReferralEvent     = "event"
	ReferralCold      = "cold"

	StagePrequalified      = "prequalified"
	StageQualified         = "qualified"
	StageProposalDev       = "proposal-development"
	StageProposalDelivered = "proposal-delivered"
	StageLegal             = "legal"
	StageOutForSignature   = "out-for-signature"
	StageSigned            = "signed"
	StageWon               = "deal-won"
	StageLost              = "deal-lost"

	RoleLoL = "LoL"
	RoleDM  = "DM"
	RolePSM = "PSM"
	RoleAM  = "AM"
	RoleSA  = "SA"

	UserRoleAdmin = "admin"

	// DefaultTier is applied whenever a tier is unset or outside {1,2,3}.
	DefaultTier = 3
)

var TouchpointTypes = []string{
	TouchpointCall, TouchpointEmail, TouchpointMeeting,
	TouchpointText, TouchpointEvent, TouchpointOther,
}

var TouchpointOutcomes = []string{
	OutcomePositive, OutcomeNeutral, OutcomeNeedsFollow, OutcomeNegative,
}

var ReferralTypes = []string{
	ReferralDirect, ReferralWarmIntro, ReferralEvent, ReferralCold,
}

var MemberRoles = []string{RoleLoL, RoleDM, RolePSM, RoleAM, RoleSA}

// DealStages lists the pipeline stages in progression order.
var DealStages = []string{
	StagePrequalified,
	StageQualified,
	StageProposalDev,
	StageProposalDelivered,
	StageLegal,
	StageOutForSignature,
	StageSigned,
	StageWon,
	StageLost,
}

// NormalizeTier maps out-of-range tiers to DefaultTier instead of rejecting.
func NormalizeTier(tier int) int {
	if tier < 1 || tier > 3 {
		return DefaultTier
	}
	return tier
}

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Settings is a single document merged shallowly with DefaultSettings on read,
// so fields added later pick up defaults without a migration.
type Settings struct {
	ID                string `bson:"_id,omitempty" json:"-"`
	DashboardRefresh  int    `bson:"dashboardRefreshSec" json:"dashboardRefreshSec"`
	DefaultDealStage  string `bson:"defaultDealStage" json:"defaultDealStage"`
	FollowUpReminders bool   `bson:"followUpReminders" json:"followUpReminders"`
	CurrencyCode      string `bson:"currencyCode" json:"currencyCode"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                "settings",
		DashboardRefresh:  60,
		DefaultDealStage:  "prequalified",
		FollowUpReminders: true,
		CurrencyCode:      "USD",
	}
}
