package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// HTMLRenderer implements export to a standalone HTML page.
// Slide bodies go through markdown and a sanitizer, pictures are inlined as data URIs.
type HTMLRenderer struct {
	template  *template.Template
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewHTMLRenderer creates a new HTML renderer
func NewHTMLRenderer() *HTMLRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Strikethrough,
			extension.Linkify,
		),
	)

	return &HTMLRenderer{
		template:  template.Must(template.New("export").Parse(staticHTMLTemplate)),
		md:        md,
		sanitizer: createHTMLSanitizer(),
	}
}

type htmlSlide struct {
	Number int
	Title  string
	Body   template.HTML
	Notes  []string
	Image  template.URL
}

// Render writes the deck as a single HTML document
func (r *HTMLRenderer) Render(ctx context.Context, deck *entities.RenderDeck, w io.Writer) error {
	theme := deck.Theme.WithDefaults()

	slides := make([]htmlSlide, 0, len(deck.Slides))
	for i, s := range deck.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := r.renderBody(s.Points)
		if err != nil {
			return fmt.Errorf("rendering slide %d: %w", i+1, err)
		}

		hs := htmlSlide{
			Number: i + 1,
			Title:  s.Title,
			Body:   body,
			Image:  dataURI(s.ImagePath),
		}
		if strings.TrimSpace(s.Notes) != "" {
			hs.Notes = strings.Split(s.Notes, "\n")
		}
		slides = append(slides, hs)
	}

	title := "Presentation"
	if len(deck.Slides) > 0 {
		title = deck.Slides[0].Title
	}

	data := struct {
		Title  string
		Theme  entities.Theme
		Slides []htmlSlide
	}{
		Title:  title,
		Theme:  theme,
		Slides: slides,
	}

	if err := r.template.Execute(w, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// renderBody turns the points into a markdown list and returns sanitized HTML
func (r *HTMLRenderer) renderBody(points []string) (template.HTML, error) {
	if len(points) == 0 {
		return "", nil
	}

	var src strings.Builder
	for _, p := range points {
		src.WriteString("- ")
		src.WriteString(strings.ReplaceAll(p, "\n", " "))
		src.WriteString("\n")
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src.String()), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes())), nil // #nosec G203 - sanitized above
}

// Extension returns the file extension for HTML exports
func (r *HTMLRenderer) Extension() string {
	return "html"
}

// GetMimeType returns the MIME type for HTML exports
func (r *HTMLRenderer) GetMimeType() string {
	return "text/html; charset=utf-8"
}

// createHTMLSanitizer creates a restrictive HTML sanitizer for slide content
func createHTMLSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	// Allow basic text formatting
	p.AllowElements("p", "br")
	p.AllowElements("strong", "b", "em", "i", "u", "s", "del", "mark")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("blockquote", "pre", "code")
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AllowURLSchemes("http", "https", "mailto")

	return p
}

// dataURI inlines a picture; unreadable or unknown files yield no image
func dataURI(path string) template.URL {
	info, ok := probeImage(path)
	if !ok {
		return ""
	}
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - path resolved under the static dir
	if err != nil {
		return ""
	}
	return template.URL("data:image/" + info.format + ";base64," + base64.StdEncoding.EncodeToString(data)) // #nosec G203 - built from a decoded image
}

// Static HTML template for standalone presentations
const staticHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="generator" content="slidegen">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: {{.Theme.Font}}, -apple-system, 'Segoe UI', Roboto, sans-serif;
            background: #111;
        }
        .slide {
            display: none;
            position: relative;
            width: 100vw;
            height: 100vh;
            padding: 5vh 5vw;
            background: {{.Theme.Background}};
            color: {{.Theme.BodyColor}};
        }
        .slide.active { display: grid; grid-template-rows: auto 1fr auto; }
        .slide h1 {
            color: {{.Theme.TitleColor}};
            font-size: {{.Theme.TitleSize}}pt;
            border-bottom: 4px solid {{.Theme.AccentColor}};
            padding-bottom: 0.3em;
            margin-bottom: 0.8em;
        }
        .content { display: flex; gap: 3vw; align-items: flex-start; }
        .body { flex: 1; font-size: {{.Theme.BodySize}}pt; line-height: 1.5; }
        .body li { margin: 0 0 0.5em 1.2em; }
        .body li::marker { color: {{.Theme.AccentColor}}; }
        .content img { max-width: 38vw; max-height: 60vh; object-fit: contain; }
        .notes { display: none; font-size: 11pt; opacity: 0.8; border-top: 1px solid; padding-top: 0.5em; }
        body.show-notes .notes { display: block; }
        .counter { position: absolute; right: 2vw; bottom: 2vh; font-size: 10pt; opacity: 0.6; }
        @media print {
            .slide { display: grid !important; page-break-after: always; }
        }
    </style>
</head>
<body>
{{range .Slides}}<section class="slide{{if eq .Number 1}} active{{end}}" id="slide-{{.Number}}">
    <h1>{{.Title}}</h1>
    <div class="content">
        <div class="body">{{.Body}}</div>
        {{if .Image}}<img src="{{.Image}}" alt="">{{end}}
    </div>
    {{if .Notes}}<aside class="notes">{{range .Notes}}<p>{{.}}</p>{{end}}</aside>{{end}}
    <span class="counter">{{.Number}} / {{len $.Slides}}</span>
</section>
{{end}}<script>
(function () {
    var slides = document.querySelectorAll('.slide');
    var current = 0;
    function show(i) {
        if (i < 0 || i >= slides.length) { return; }
        slides[current].classList.remove('active');
        current = i;
        slides[current].classList.add('active');
    }
    document.addEventListener('keydown', function (e) {
        if (e.key === 'ArrowRight' || e.key === ' ' || e.key === 'PageDown') { show(current + 1); }
        if (e.key === 'ArrowLeft' || e.key === 'PageUp') { show(current - 1); }
        if (e.key === 'n') { document.body.classList.toggle('show-notes'); }
    });
})();
</script>
</body>
</html>
`
