package model

import "time"

// Image is uploaded picture content attached to a model.
// Data is a data URL ("data:image/png;base64,...").
type Image struct {
	ID        string    `json:"id"      validate:"required"`
	Data      string    `json:"data"    validate:"required,dataurl"`
	ModelID   string    `json:"modelId" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
