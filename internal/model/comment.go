package model

import "time"

// Comment is a user's note on a model.
type Comment struct {
	ID        string    `json:"id"      validate:"required"`
	Text      string    `json:"text"    validate:"required,max=5000"`
	UserID    string    `json:"userId"  validate:"required"`
	ModelID   string    `json:"modelId" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
