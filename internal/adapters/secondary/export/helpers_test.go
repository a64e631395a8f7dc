package export

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// writeTestPNG creates a w x h PNG and returns its path
func writeTestPNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "picture.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func testDeck(imagePath string) *entities.RenderDeck {
	return &entities.RenderDeck{
		ID:    "4b7c1c7e-1a7e-4a43-9d5e-0d1f4c8f2a10",
		Theme: entities.DefaultTheme(),
		Slides: []entities.RenderSlide{
			{
				Title:     "Cities at night",
				Points:    []string{"Lights shape the skyline", "Energy use & <costs>"},
				Notes:     "Open with a photo.\n\nMention the budget.",
				ImagePath: imagePath,
			},
			{
				Title:  "Next steps",
				Points: []string{"Pilot in one district"},
			},
		},
	}
}
