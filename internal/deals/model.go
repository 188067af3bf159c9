package deals

import "time"

type Deal struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Value          float64   `bson:"value" json:"value"`
	Stage          string    `bson:"stage" json:"stage"`
	Probability    int       `bson:"probability" json:"probability"`
	CloseDate      time.Time `bson:"closeDate" json:"closeDate"`
	ContactID      string    `bson:"contactId,omitempty" json:"contactId,omitempty"`
	ReferralSource string    `bson:"referralSource,omitempty" json:"referralSource,omitempty"`
	ReferralTeam   string    `bson:"referralTeam,omitempty" json:"referralTeam,omitempty"`
	ReferralType   string    `bson:"referralType,omitempty" json:"referralType,omitempty"`
	ReferralNotes  string    `bson:"referralNotes,omitempty" json:"referralNotes,omitempty"`
	ReferralDate   time.Time `bson:"referralDate,omitempty" json:"referralDate,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Name           string  `json:"name" validate:"required"`
	Value          float64 `json:"value" validate:"gte=0"`
	Stage          string  `json:"stage" validate:"omitempty,dealstage"`
	Probability    *int    `json:"probability" validate:"omitempty,gte=0,lte=100"`
	CloseDate      string  `json:"closeDate" validate:"required,date"`
	ContactID      string  `json:"contactId"`
	ReferralSource string  `json:"referralSource"`
	ReferralTeam   string  `json:"referralTeam"`
	ReferralType   string  `json:"referralType" validate:"omitempty,referraltype"`
	ReferralNotes  string  `json:"referralNotes"`
	ReferralDate   string  `json:"referralDate" validate:"omitempty,date"`
}

type StageChangeRequest struct {
	Stage       string `json:"stage" validate:"required,dealstage"`
	Probability *int   `json:"probability" validate:"omitempty,gte=0,lte=100"`
}

type ListFilter struct {
	Stage     string
	ContactID string
}
