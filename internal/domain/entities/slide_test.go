package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlide_Validate(t *testing.T) {
	tests := []struct {
		name    string
		slide   Slide
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid slide",
			slide:   Slide{Title: "Intro to solar", Order: 0},
			wantErr: false,
		},
		{
			name:    "title only",
			slide:   Slide{Title: "Questions", Order: 4},
			wantErr: false,
		},
		{
			name:    "empty title",
			slide:   Slide{Title: "", Order: 0},
			wantErr: true,
			errMsg:  "slide title cannot be empty",
		},
		{
			name:    "whitespace title",
			slide:   Slide{Title: " \t ", Order: 0},
			wantErr: true,
			errMsg:  "slide title cannot be empty",
		},
		{
			name:    "negative order",
			slide:   Slide{Title: "Valid", Order: -1},
			wantErr: true,
			errMsg:  "slide order must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slide.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlide_Content(t *testing.T) {
	s := Slide{Points: []string{"First", "Second"}}
	assert.Equal(t, "First\nSecond", s.Content())

	empty := Slide{}
	assert.Equal(t, "", empty.Content())
}

func TestSlide_SetContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain lines", "First\nSecond", []string{"First", "Second"}},
		{"bullets are stripped", "- First\n-   Second", []string{"First", "Second"}},
		{"blank lines dropped", "First\n\n   \nSecond\n", []string{"First", "Second"}},
		{"lone dash dropped", "-\nFirst", []string{"First"}},
		{"empty content", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Slide{Points: []string{"old"}}
			s.SetContent(tt.content)
			assert.Equal(t, tt.want, s.Points)
		})
	}
}

func TestSlide_HasNotes(t *testing.T) {
	assert.True(t, (&Slide{Notes: "Say hello"}).HasNotes())
	assert.False(t, (&Slide{Notes: ""}).HasNotes())
	assert.False(t, (&Slide{Notes: " \n\t"}).HasNotes())
}

func TestSlide_Image(t *testing.T) {
	tests := []struct {
		name     string
		path     *string
		hasImage bool
		want     string
	}{
		{"nil path", nil, false, ""},
		{"empty path", StringPtr(""), false, ""},
		{"set path", StringPtr("images/city_night.jpg"), true, "images/city_night.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Slide{LocalImagePath: tt.path}
			assert.Equal(t, tt.hasImage, s.HasImage())
			assert.Equal(t, tt.want, s.ImagePath())
		})
	}
}

func TestRenumber(t *testing.T) {
	slides := []Slide{{Order: 7}, {Order: 3}, {Order: 3}}

	Renumber(slides)

	for i, s := range slides {
		assert.Equal(t, i, s.Order)
	}
	assert.NotPanics(t, func() { Renumber(nil) })
}

func TestSlide_JSON(t *testing.T) {
	t.Run("absent image serializes as null", func(t *testing.T) {
		data, err := json.Marshal(Slide{Title: "T", Points: []string{}, VisualKeywords: []string{}})
		require.NoError(t, err)

		assert.JSONEq(t, `{"order":0,"title":"T","points":[],"notes":"","visual_keywords":[],"local_image_path":null}`, string(data))
	})

	t.Run("image path is a string", func(t *testing.T) {
		data, err := json.Marshal(Slide{ID: "s1", Title: "T", LocalImagePath: StringPtr("images/a.jpg")})
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "s1", decoded["id"])
		assert.Equal(t, "images/a.jpg", decoded["local_image_path"])
	})
}
