package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// Page layout in millimetres for A4 landscape
const (
	pdfPageW     = 297.0
	pdfPageH     = 210.0
	pdfMargin    = 15.0
	pdfBodyTop   = 45.0
	pdfImageBox  = 105.0
	pdfNotesTop  = 176.0
	pdfMaxNotes  = 6
	pdfFontScale = 0.8
)

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// PDFRenderer implements export to PDF with gofpdf
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDF renderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render writes one landscape page per slide
func (r *PDFRenderer) Render(ctx context.Context, deck *entities.RenderDeck, w io.Writer) error {
	theme := deck.Theme.WithDefaults()

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("slidegen", true)
	if len(deck.Slides) > 0 {
		pdf.SetTitle(deck.Slides[0].Title, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, slide := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPage()
		if err := r.addSlide(pdf, tr, theme, slide, i); err != nil {
			return fmt.Errorf("adding slide %d to PDF: %w", i+1, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// addSlide draws background, title, bullets, picture and the notes band
func (r *PDFRenderer) addSlide(pdf *gofpdf.Fpdf, tr func(string) string, theme entities.Theme, slide entities.RenderSlide, index int) error {
	setFill(pdf, theme.Background)
	pdf.Rect(0, 0, pdfPageW, pdfPageH, "F")

	bodyWidth := pdfPageW - 2*pdfMargin
	if name, w, h, ok := r.registerImage(pdf, slide.ImagePath, index); ok {
		bodyWidth -= pdfImageBox + 5
		x := pdfPageW - pdfMargin - pdfImageBox + (pdfImageBox-w)/2
		y := pdfBodyTop + (pdfImageBox-h)/2
		pdf.ImageOptions(name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	}

	// Title
	titleSize := float64(theme.TitleSize) * pdfFontScale
	pdf.SetFont("Helvetica", "B", titleSize)
	setText(pdf, theme.TitleColor)
	pdf.SetXY(pdfMargin, pdfMargin)
	pdf.MultiCell(pdfPageW-2*pdfMargin, titleSize*0.45, tr(cleanTextForPDF(slide.Title)), "", "L", false)

	// Accent rule under the title
	setDraw(pdf, theme.AccentColor)
	pdf.SetLineWidth(0.8)
	pdf.Line(pdfMargin, pdfBodyTop-5, pdfMargin+40, pdfBodyTop-5)

	// Bullets
	bodySize := float64(theme.BodySize) * pdfFontScale
	lineH := bodySize * 0.5
	pdf.SetFont("Helvetica", "", bodySize)
	setText(pdf, theme.BodyColor)
	y := pdfBodyTop
	for _, point := range slide.Points {
		lines := pdf.SplitLines([]byte(tr(cleanTextForPDF(point))), bodyWidth-8)
		if y+lineH*float64(len(lines)) > pdfNotesTop-4 {
			break
		}
		pdf.SetXY(pdfMargin, y)
		pdf.CellFormat(8, lineH, tr("•"), "", 0, "L", false, 0, "")
		for _, line := range lines {
			pdf.SetXY(pdfMargin+8, y)
			pdf.CellFormat(bodyWidth-8, lineH, string(line), "", 0, "L", false, 0, "")
			y += lineH
		}
		y += lineH * 0.4
	}

	// Notes band
	if strings.TrimSpace(slide.Notes) != "" {
		setDraw(pdf, theme.BodyColor)
		pdf.SetLineWidth(0.2)
		pdf.Line(pdfMargin, pdfNotesTop, pdfPageW-pdfMargin, pdfNotesTop)

		pdf.SetFont("Helvetica", "I", 9)
		setText(pdf, theme.BodyColor)
		lines := pdf.SplitLines([]byte(tr(slide.Notes)), pdfPageW-2*pdfMargin)
		if len(lines) > pdfMaxNotes {
			lines = append(lines[:pdfMaxNotes-1], []byte("..."))
		}
		ny := pdfNotesTop + 2
		for _, line := range lines {
			pdf.SetXY(pdfMargin, ny)
			pdf.CellFormat(pdfPageW-2*pdfMargin, 4.5, string(line), "", 0, "L", false, 0, "")
			ny += 4.5
		}
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return nil
}

// registerImage re-encodes the picture as baseline JPEG so gofpdf accepts any decodable input
func (r *PDFRenderer) registerImage(pdf *gofpdf.Fpdf, path string, index int) (name string, w, h float64, ok bool) {
	info, ok := probeImage(path)
	if !ok {
		return "", 0, 0, false
	}

	f, err := os.Open(filepath.Clean(path)) // #nosec G304 - path resolved under the static dir
	if err != nil {
		return "", 0, 0, false
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", 0, 0, false
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", 0, 0, false
	}

	name = fmt.Sprintf("slide-image-%d", index)
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "JPG"}, &buf)
	if pdf.Err() {
		return "", 0, 0, false
	}

	w, h = info.fit(pdfImageBox, pdfImageBox)
	return name, w, h, true
}

// Extension returns the file extension for PDF exports
func (r *PDFRenderer) Extension() string {
	return "pdf"
}

// GetMimeType returns the MIME type for PDF exports
func (r *PDFRenderer) GetMimeType() string {
	return "application/pdf"
}

// cleanTextForPDF collapses runs of spaces and drops line breaks inside a bullet
func cleanTextForPDF(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	r, g, b, _ := entities.ParseHexColor(hex)
	pdf.SetFillColor(int(r), int(g), int(b))
}

func setText(pdf *gofpdf.Fpdf, hex string) {
	r, g, b, _ := entities.ParseHexColor(hex)
	pdf.SetTextColor(int(r), int(g), int(b))
}

func setDraw(pdf *gofpdf.Fpdf, hex string) {
	r, g, b, _ := entities.ParseHexColor(hex)
	pdf.SetDrawColor(int(r), int(g), int(b))
}
