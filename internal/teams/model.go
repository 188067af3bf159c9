package teams

import "time"

type Team struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	Region    string    `bson:"region,omitempty" json:"region,omitempty"`
	Color     string    `bson:"color,omitempty" json:"color,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Member belongs to exactly one team.
type Member struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	TeamID    string    `bson:"teamId" json:"teamId"`
	Name      string    `bson:"name" json:"name"`
	Role      string    `bson:"role" json:"role"`
	Tier      int       `bson:"tier" json:"tier"`
	Geo       string    `bson:"geo,omitempty" json:"geo,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type TeamUpsertRequest struct {
	Name   string `json:"name" validate:"required"`
	Region string `json:"region"`
	Color  string `json:"color" validate:"omitempty,hexcolor"`
}

type MemberUpsertRequest struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required,memberrole"`
	Tier  int    `json:"tier" validate:"omitempty,tier"`
	Geo   string `json:"geo"`
	Email string `json:"email" validate:"omitempty,email"`
}
