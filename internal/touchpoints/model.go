package touchpoints

import "time"

// Touchpoint records one interaction. At least one of ContactID, DealID and
// MemberID must be set; identity is immutable once logged, while notes,
// outcome and the importance flag stay editable.
type Touchpoint struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	ContactID  string    `bson:"contactId,omitempty" json:"contactId,omitempty"`
	DealID     string    `bson:"dealId,omitempty" json:"dealId,omitempty"`
	MemberID   string    `bson:"memberId,omitempty" json:"memberId,omitempty"`
	Type       string    `bson:"type" json:"type"`
	Outcome    string    `bson:"outcome" json:"outcome"`
	Notes      string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Date       time.Time `bson:"date" json:"date"`
	Important  bool      `bson:"important,omitempty" json:"important,omitempty"`
	ScoreDelta *int      `bson:"scoreDelta,omitempty" json:"scoreDelta,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	ContactID  string `json:"contactId"`
	DealID     string `json:"dealId"`
	MemberID   string `json:"memberId"`
	Type       string `json:"type" validate:"required,touchpointtype"`
	Outcome    string `json:"outcome" validate:"required,touchoutcome"`
	Notes      string `json:"notes"`
	Date       string `json:"date" validate:"required,date"`
	Important  bool   `json:"important"`
	ScoreDelta *int   `json:"scoreDelta" validate:"omitempty,gte=-10,lte=10"`
}

type UpdateRequest struct {
	Outcome   string `json:"outcome" validate:"required,touchoutcome"`
	Notes     string `json:"notes"`
	Important bool   `json:"important"`
}

type ListFilter struct {
	ContactID string
	DealID    string
	MemberID  string
	Type      string
}
