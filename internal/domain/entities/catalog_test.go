package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCatalog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		entries []CatalogEntry
		wantErr string
	}{
		{"empty catalog", nil, ""},
		{"valid", []CatalogEntry{{File: "a.jpg", Keywords: []string{"a"}}, {File: "sub/b.jpg"}}, ""},
		{"missing file", []CatalogEntry{{File: " "}}, "file is required"},
		{"escapes the images dir", []CatalogEntry{{File: "../secret.jpg"}}, "must not leave the images directory"},
		{"duplicate file", []CatalogEntry{{File: "a.jpg"}, {File: "a.jpg"}}, "duplicate file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ImageCatalog{Entries: tt.entries}).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImageCatalog_Len(t *testing.T) {
	var nilCatalog *ImageCatalog
	assert.Equal(t, 0, nilCatalog.Len())
	assert.Equal(t, 6, DefaultImageCatalog().Len())
}

func TestDefaultImageCatalog(t *testing.T) {
	catalog := DefaultImageCatalog()

	require.NoError(t, catalog.Validate())
	for _, e := range catalog.Entries {
		assert.NotEmpty(t, e.Keywords, e.File)
	}

	catalog.Entries[0].File = "changed.jpg"
	assert.Equal(t, "city_night.jpg", DefaultImageCatalog().Entries[0].File, "each call returns a fresh catalog")
}

func TestErrors(t *testing.T) {
	t.Run("request error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := &RequestError{Model: "deepseek-chat", Cause: cause}

		assert.Equal(t, "model request to deepseek-chat failed: connection reset", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "model request failed: connection reset", (&RequestError{Cause: cause}).Error())
	})

	t.Run("template load error", func(t *testing.T) {
		cause := errors.New("yaml: line 3")
		err := &TemplateLoadError{TemplateID: "dark_tech", Path: "templates/dark_tech.yaml", Cause: cause}

		assert.Contains(t, err.Error(), `"dark_tech"`)
		assert.Contains(t, err.Error(), "templates/dark_tech.yaml")
		assert.ErrorIs(t, err, cause)
	})
}
