package contacts

import "time"

type Contact struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Company   string    `bson:"company" json:"company"`
	Title     string    `bson:"title,omitempty" json:"title,omitempty"`
	Tier      int       `bson:"tier" json:"tier"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	TeamID    string    `bson:"teamId,omitempty" json:"teamId,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type UpsertRequest struct {
	Name    string `json:"name" validate:"required"`
	Company string `json:"company" validate:"required"`
	Title   string `json:"title"`
	Tier    int    `json:"tier" validate:"omitempty,tier"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	TeamID  string `json:"teamId"`
}

type ListFilter struct {
	TeamID string
	Tier   int
}
