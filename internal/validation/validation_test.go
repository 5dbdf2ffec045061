package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/modelshare/internal/apperror"
	"github.com/sakif/modelshare/internal/model"
)

func validModel() model.Model {
	now := time.Now()
	return model.Model{
		ID:          "m1",
		Name:        "Test Model",
		Description: "A valid description here",
		ImageURL:    "https://x/y.png",
		BaseModel:   "SD1.5",
		Version:     "1.0",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validUser() model.User {
	return model.User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$04$hash",
	}
}

func TestParse_ModelDefaults(t *testing.T) {
	v := New()
	in := validModel()

	out, err := Parse(v, in)
	require.NoError(t, err)

	assert.Equal(t, []string{}, out.Tags)
	assert.Equal(t, []string{}, out.Images)
	assert.Equal(t, []string{}, out.TriggerWords)
	assert.Equal(t, 0, out.Downloads)
	assert.Equal(t, 0, out.Likes)

	// The caller's value is untouched.
	assert.Nil(t, in.Tags)
	assert.Nil(t, in.Images)
}

func TestParse_KeepsProvidedLists(t *testing.T) {
	v := New()
	in := validModel()
	in.Tags = []string{"portrait", "realistic"}
	in.Images = []string{"https://example.com/a.png"}

	out, err := Parse(v, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"portrait", "realistic"}, out.Tags)
	assert.Equal(t, []string{"https://example.com/a.png"}, out.Images)
}

func TestParse_ModelViolations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(m *model.Model)
		wantField string
		wantMsg   string
	}{
		{"name too short", func(m *model.Model) { m.Name = "ab" }, "name", "name must be at least 3 characters"},
		{"name too long", func(m *model.Model) { m.Name = strings.Repeat("n", 101) }, "name", "name must be at most 100 characters"},
		{"description too short", func(m *model.Model) { m.Description = "short" }, "description", "description must be at least 10 characters"},
		{"missing image url", func(m *model.Model) { m.ImageURL = "" }, "imageUrl", "imageUrl is required"},
		{"bad image url", func(m *model.Model) { m.ImageURL = "not a url" }, "imageUrl", "imageUrl must be a valid URL"},
		{"bad download url", func(m *model.Model) { m.DownloadURL = "nope" }, "downloadUrl", "downloadUrl must be a valid URL"},
		{"negative likes", func(m *model.Model) { m.Likes = -1 }, "likes", "likes must not be negative"},
		{"bad gallery url", func(m *model.Model) { m.Images = []string{"https://ok.example/a.png", "nope"} }, "images[1]", "images[1] must be a valid URL"},
		{"broken inline image", func(m *model.Model) {
			m.Images = []string{"data:image/png;base64,iVBORw0KGgo=", "data:image/png;base64,!!!"}
		}, "images[1]", "images[1] must be a well-formed data URL"},
		{"inline image without payload", func(m *model.Model) { m.Images = []string{"data:image/png"} }, "images[0]", "images[0] must be a well-formed data URL"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validModel()
			tt.mutate(&m)

			_, err := Parse(v, m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
			assert.Equal(t, tt.wantField, apperror.FieldOf(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestParse_FirstViolationWins(t *testing.T) {
	v := New()
	m := validModel()
	m.Name = "ab"
	m.Description = "short"

	_, err := Parse(v, m)
	require.Error(t, err)
	assert.Equal(t, "name", apperror.FieldOf(err))
}

func TestParse_User(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(u *model.User)
		wantField string
	}{
		{"valid", func(u *model.User) {}, ""},
		{"username too short", func(u *model.User) { u.Username = "al" }, "username"},
		{"username too long", func(u *model.User) { u.Username = strings.Repeat("a", 51) }, "username"},
		{"bad email", func(u *model.User) { u.Email = "not-an-email" }, "email"},
		{"missing hash", func(u *model.User) { u.PasswordHash = "" }, "passwordHash"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)

			_, err := Parse(v, u)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantField, apperror.FieldOf(err))
		})
	}
}

func TestParse_ImageDataURL(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"base64 png", "data:image/png;base64,iVBORw0KGgo=", false},
		{"plain text", "data:,hello", false},
		{"missing prefix", "image/png;base64,iVBORw0KGgo=", true},
		{"missing comma", "data:image/png;base64", true},
		{"broken base64", "data:image/png;base64,***", true},
		{"https url", "https://example.com/a.png", true},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(v, model.Image{ID: "i1", ModelID: "m1", Data: tt.data})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "data", apperror.FieldOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsDataURL(t *testing.T) {
	assert.True(t, IsDataURL("data:image/png;base64,iVBORw0KGgo="))
	assert.True(t, IsDataURL("data:,hello"))
	assert.False(t, IsDataURL("data:image/png;base64,!!!"))
	assert.False(t, IsDataURL("data:image/png"))
	assert.False(t, IsDataURL("https://example.com/a.png"))
}

func TestParse_ModelMixedImages(t *testing.T) {
	in := validModel()
	in.Images = []string{"https://example.com/a.png", "data:image/png;base64,iVBORw0KGgo="}

	out, err := Parse(New(), in)
	require.NoError(t, err)
	assert.Equal(t, in.Images, out.Images)
}

func TestCheck_EqField(t *testing.T) {
	type form struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
	}

	err := New().Check(form{Password: "secret1", ConfirmPassword: "secret2"})
	require.Error(t, err)
	assert.Equal(t, "confirmPassword", apperror.FieldOf(err))
	assert.Equal(t, "confirmPassword must match password", err.Error())
}

func TestCheck_NotAStruct(t *testing.T) {
	err := New().Check("just a string")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrValidation))
}
