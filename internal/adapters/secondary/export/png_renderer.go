package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"runtime"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/sync/errgroup"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// PNGRenderer draws one PNG per slide and packages them as a zip archive
type PNGRenderer struct {
	width   int
	height  int
	workers int
	font    *truetype.Font
}

// NewPNGRenderer creates a new PNG renderer at 1920x1080
func NewPNGRenderer() *PNGRenderer {
	// goregular is embedded and always parses
	font, _ := truetype.Parse(goregular.TTF)
	return &PNGRenderer{
		width:   1920,
		height:  1080,
		workers: runtime.NumCPU(),
		font:    font,
	}
}

// Render draws every slide concurrently, then writes slide-001.png... into a zip
func (r *PNGRenderer) Render(ctx context.Context, deck *entities.RenderDeck, w io.Writer) error {
	theme := deck.Theme.WithDefaults()
	images := make([][]byte, len(deck.Slides))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, slide := range deck.Slides {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := r.renderSlide(theme, slide, i+1, len(deck.Slides))
			if err != nil {
				return fmt.Errorf("rendering slide %d: %w", i+1, err)
			}
			images[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for i, data := range images {
		part, err := zw.CreateHeader(&zip.FileHeader{
			Name:   fmt.Sprintf("slide-%03d.png", i+1),
			Method: zip.Store,
		})
		if err != nil {
			return fmt.Errorf("creating zip entry: %w", err)
		}
		if _, err := part.Write(data); err != nil {
			return fmt.Errorf("writing zip entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing zip: %w", err)
	}
	return nil
}

// renderSlide draws a single slide and returns the encoded PNG
func (r *PNGRenderer) renderSlide(theme entities.Theme, slide entities.RenderSlide, number, total int) ([]byte, error) {
	dc := gg.NewContext(r.width, r.height)

	dc.SetColor(hexColor(theme.Background))
	dc.Clear()

	marginX := float64(r.width) * 0.06
	marginY := float64(r.height) * 0.08
	contentWidth := float64(r.width) - 2*marginX

	// Picture on the right
	if img, err := gg.LoadImage(slide.ImagePath); slide.ImagePath != "" && err == nil {
		box := float64(r.width) * 0.36
		contentWidth -= box + marginX/2
		r.drawImage(dc, img, float64(r.width)-marginX-box, marginY*2.4, box)
	}

	// Font sizes scale with the 1080p canvas, 1pt = 2px
	titleSize := float64(theme.TitleSize) * 2
	bodySize := float64(theme.BodySize) * 2

	y := marginY
	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: titleSize}))
	dc.SetColor(hexColor(theme.TitleColor))
	for _, line := range r.wrapText(dc, slide.Title, float64(r.width)-2*marginX) {
		y += titleSize
		dc.DrawString(line, marginX, y)
		y += titleSize * 0.2
	}

	y += titleSize * 0.3
	dc.SetColor(hexColor(theme.AccentColor))
	dc.DrawRectangle(marginX, y, 160, 6)
	dc.Fill()
	y += bodySize * 1.2

	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: bodySize}))
	bottom := float64(r.height) - marginY*1.5
	for _, point := range slide.Points {
		lines := r.wrapText(dc, point, contentWidth-bodySize*1.5)
		if y+bodySize*1.4*float64(len(lines)) > bottom {
			break // Prevent overflow
		}

		dc.SetColor(hexColor(theme.AccentColor))
		dc.DrawCircle(marginX+bodySize*0.4, y-bodySize*0.35, bodySize*0.18)
		dc.Fill()

		dc.SetColor(hexColor(theme.BodyColor))
		for _, line := range lines {
			dc.DrawString(line, marginX+bodySize*1.5, y)
			y += bodySize * 1.4
		}
		y += bodySize * 0.3
	}

	// Slide counter
	dc.SetFontFace(truetype.NewFace(r.font, &truetype.Options{Size: 22}))
	dc.SetColor(hexColor(theme.BodyColor))
	dc.DrawStringAnchored(fmt.Sprintf("%d / %d", number, total), float64(r.width)-marginX, float64(r.height)-marginY/2, 1, 0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawImage scales img into a square box of the given side, keeping its aspect ratio
func (r *PNGRenderer) drawImage(dc *gg.Context, img image.Image, x, y, box float64) {
	b := img.Bounds()
	scale := box / float64(b.Dx())
	if s := box / float64(b.Dy()); s < scale {
		scale = s
	}
	w, h := float64(b.Dx())*scale, float64(b.Dy())*scale

	dc.Push()
	dc.Translate(x+(box-w)/2, y+(box-h)/2)
	dc.Scale(scale, scale)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

// wrapText wraps text to fit within the specified width
func (r *PNGRenderer) wrapText(dc *gg.Context, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		testLine := currentLine.String()
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		width, _ := dc.MeasureString(testLine)
		if width > maxWidth && currentLine.Len() > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		} else if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return lines
}

// Extension returns the file extension for PNG exports
func (r *PNGRenderer) Extension() string {
	return "zip"
}

// GetMimeType returns the MIME type for PNG exports
func (r *PNGRenderer) GetMimeType() string {
	return "application/zip"
}

func hexColor(hex string) color.Color {
	r, g, b, err := entities.ParseHexColor(hex)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
