package model

import "time"

// Model is a shared model entry in the gallery.
//
// Creator holds a username, not a user id. It is not checked against the
// users table; see the reference policy in DESIGN.md.
//
// Downloads and Likes only grow through service.ModelService. The
// repository itself accepts any non-negative value.
type Model struct {
	ID           string    `json:"id"                     validate:"required"`
	Name         string    `json:"name"                   validate:"required,min=3,max=100"`
	Description  string    `json:"description"            validate:"required,min=10"`
	ImageURL     string    `json:"imageUrl"               validate:"required,url"`
	DownloadURL  string    `json:"downloadUrl,omitempty"  validate:"omitempty,url"`
	Creator      string    `json:"creator"`
	Downloads    int       `json:"downloads"              validate:"gte=0"`
	Likes        int       `json:"likes"                  validate:"gte=0"`
	Tags         []string  `json:"tags"`
	Version      string    `json:"version"`
	BaseModel    string    `json:"baseModel"`
	Images       []string  `json:"images"                 validate:"dive,url,imageref"`
	TriggerWords []string  `json:"triggerWords"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ApplyDefaults fills the list fields a caller left out so that they
// persist as [] rather than null.
func (m *Model) ApplyDefaults() {
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Images == nil {
		m.Images = []string{}
	}
	if m.TriggerWords == nil {
		m.TriggerWords = []string{}
	}
}
