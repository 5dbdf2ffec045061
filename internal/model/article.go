package model

import "time"

// Article is a news feed entry. Articles are not persisted in the record
// store; see the news package.
type Article struct {
	ID        string    `json:"id"      validate:"required"`
	Title     string    `json:"title"   validate:"required,min=3"`
	Content   string    `json:"content"` // HTML
	Author    string    `json:"author"`
	Summary   string    `json:"summary"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *Article) ApplyDefaults() {
	if a.Images == nil {
		a.Images = []string{}
	}
}
