package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// Slide geometry in EMU for a 16:9 deck; the templates below use the same values
const (
	slideWidth   = 12192000
	marginX      = 457200
	bodyTop      = 1554480
	imageBoxSize = 4572000
	imageGap     = 228600
)

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"

	relBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	ctBase  = "application/vnd.openxmlformats-officedocument.presentationml."
)

// PPTXRenderer writes Office Open XML presentations
type PPTXRenderer struct {
	templates *template.Template
	now       func() time.Time
}

// NewPPTXRenderer creates a new PowerPoint renderer
func NewPPTXRenderer() *PPTXRenderer {
	tmpl := template.New("pptx").Funcs(template.FuncMap{
		"esc": xmlEscape,
		"nsA": func() string { return nsA },
		"nsR": func() string { return nsR },
		"nsP": func() string { return nsP },
		"rel": func(kind string) string { return relBase + kind },
		"ct":  func(kind string) string { return ctBase + kind + "+xml" },
		// slide ids start at 256, slide relationships at rId10
		"add255": func(n int) int { return n + 255 },
		"add9":   func(n int) int { return n + 9 },
	})
	template.Must(tmpl.Parse(pptxTemplates))

	return &PPTXRenderer{
		templates: tmpl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// pptxTheme carries the theme colors as OOXML hex values
type pptxTheme struct {
	Name       string
	Background string
	Title      string
	Body       string
	Accent     string
	Font       string
	TitleSize  int
	BodySize   int
}

type pptxImage struct {
	Media string // part name under ppt/media
	X, Y  int64
	CX    int64
	CY    int64
}

type pptxSlide struct {
	Number    int
	Title     string
	Points    []string
	Notes     []string
	HasNotes  bool
	BodyWidth int64
	Image     *pptxImage
	source    string
}

type pptxDeck struct {
	Theme   pptxTheme
	Slides  []pptxSlide
	Title   string
	Created string
	Notes   int
	Media   []string // distinct extensions for content types
}

// Render writes the deck as a .pptx package
func (r *PPTXRenderer) Render(ctx context.Context, deck *entities.RenderDeck, w io.Writer) error {
	data := r.prepare(deck)

	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		tmpl string
	}{
		{"[Content_Types].xml", "content_types"},
		{"_rels/.rels", "root_rels"},
		{"docProps/core.xml", "core"},
		{"docProps/app.xml", "app"},
		{"ppt/presentation.xml", "presentation"},
		{"ppt/_rels/presentation.xml.rels", "presentation_rels"},
		{"ppt/theme/theme1.xml", "theme"},
		{"ppt/theme/theme2.xml", "theme"},
		{"ppt/slideMasters/slideMaster1.xml", "slide_master"},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slide_master_rels"},
		{"ppt/slideLayouts/slideLayout1.xml", "slide_layout"},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slide_layout_rels"},
		{"ppt/notesMasters/notesMaster1.xml", "notes_master"},
		{"ppt/notesMasters/_rels/notesMaster1.xml.rels", "notes_master_rels"},
	}
	for _, part := range parts {
		if err := r.writePart(zw, part.name, part.tmpl, data); err != nil {
			return err
		}
	}

	for i := range data.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}
		slide := &data.Slides[i]
		n := slide.Number

		if err := r.writePart(zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), "slide", struct {
			Theme pptxTheme
			Slide *pptxSlide
		}{data.Theme, slide}); err != nil {
			return err
		}
		if err := r.writePart(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), "slide_rels", slide); err != nil {
			return err
		}

		if slide.Image != nil {
			if err := copyMedia(zw, "ppt/media/"+slide.Image.Media, slide.source); err != nil {
				return fmt.Errorf("embedding image for slide %d: %w", n, err)
			}
		}

		if slide.HasNotes {
			if err := r.writePart(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), "notes_slide", slide); err != nil {
				return err
			}
			if err := r.writePart(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), "notes_slide_rels", slide); err != nil {
				return err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing pptx: %w", err)
	}
	return nil
}

// prepare converts the render deck into template data
func (r *PPTXRenderer) prepare(deck *entities.RenderDeck) *pptxDeck {
	theme := deck.Theme.WithDefaults()
	data := &pptxDeck{
		Theme: pptxTheme{
			Name:       theme.Name,
			Background: ooxmlColor(theme.Background),
			Title:      ooxmlColor(theme.TitleColor),
			Body:       ooxmlColor(theme.BodyColor),
			Accent:     ooxmlColor(theme.AccentColor),
			Font:       theme.Font,
			TitleSize:  theme.TitleSize * 100,
			BodySize:   theme.BodySize * 100,
		},
		Created: r.now().Format(time.RFC3339),
	}

	seenExt := make(map[string]bool)
	for i, s := range deck.Slides {
		slide := pptxSlide{
			Number:    i + 1,
			Title:     s.Title,
			Points:    s.Points,
			BodyWidth: slideWidth - 2*marginX,
		}
		if strings.TrimSpace(s.Notes) != "" {
			slide.HasNotes = true
			slide.Notes = strings.Split(s.Notes, "\n")
			data.Notes++
		}

		if info, ok := probeImage(s.ImagePath); ok {
			cx, cy := info.fit(imageBoxSize, imageBoxSize)
			ext := info.extension()
			slide.Image = &pptxImage{
				Media: fmt.Sprintf("image%d.%s", i+1, ext),
				X:     slideWidth - marginX - int64(cx),
				Y:     bodyTop + (imageBoxSize-int64(cy))/2,
				CX:    int64(cx),
				CY:    int64(cy),
			}
			slide.BodyWidth = slideWidth - 2*marginX - imageBoxSize - imageGap
			slide.source = info.path
			if !seenExt[ext] {
				seenExt[ext] = true
				data.Media = append(data.Media, ext)
			}
		}

		data.Slides = append(data.Slides, slide)
	}
	if len(deck.Slides) > 0 {
		data.Title = deck.Slides[0].Title
	}
	return data
}

func (r *PPTXRenderer) writePart(zw *zip.Writer, name, tmpl string, data interface{}) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := r.templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	part, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// copyMedia stores an already compressed image without deflating it again
func copyMedia(zw *zip.Writer, name, source string) error {
	f, err := os.Open(filepath.Clean(source)) // #nosec G304 - path resolved under the static dir
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	part, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// Extension returns the file extension for PowerPoint exports
func (r *PPTXRenderer) Extension() string {
	return "pptx"
}

// GetMimeType returns the MIME type for PowerPoint exports
func (r *PPTXRenderer) GetMimeType() string {
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}

func xmlEscape(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// ooxmlColor converts #RRGGBB into the RRGGBB form DrawingML expects
func ooxmlColor(hex string) string {
	r, g, b, err := entities.ParseHexColor(hex)
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

const pptxTemplates = `
{{define "content_types"}}<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
{{range .Media}}<Default Extension="{{.}}" ContentType="image/{{.}}"/>
{{end}}<Override PartName="/ppt/presentation.xml" ContentType="{{ct "presentation.main"}}"/>
<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="{{ct "slideMaster"}}"/>
<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="{{ct "slideLayout"}}"/>
<Override PartName="/ppt/notesMasters/notesMaster1.xml" ContentType="{{ct "notesMaster"}}"/>
<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>
<Override PartName="/ppt/theme/theme2.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>
{{range .Slides}}<Override PartName="/ppt/slides/slide{{.Number}}.xml" ContentType="{{ct "slide"}}"/>
{{if .HasNotes}}<Override PartName="/ppt/notesSlides/notesSlide{{.Number}}.xml" ContentType="{{ct "notesSlide"}}"/>
{{end}}{{end}}<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
</Types>{{end}}

{{define "root_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "officeDocument"}}" Target="ppt/presentation.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
<Relationship Id="rId3" Type="{{rel "extended-properties"}}" Target="docProps/app.xml"/>
</Relationships>{{end}}

{{define "core"}}<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>{{esc .Title}}</dc:title>
<dc:creator>slidegen</dc:creator>
<dcterms:created xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:created>
<dcterms:modified xsi:type="dcterms:W3CDTF">{{.Created}}</dcterms:modified>
</cp:coreProperties>{{end}}

{{define "app"}}<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">
<Application>slidegen</Application>
<Slides>{{len .Slides}}</Slides>
<Notes>{{.Notes}}</Notes>
</Properties>{{end}}

{{define "presentation"}}<p:presentation xmlns:a="{{nsA}}" xmlns:r="{{nsR}}" xmlns:p="{{nsP}}" saveSubsetFonts="1">
<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>
<p:notesMasterIdLst><p:notesMasterId r:id="rId2"/></p:notesMasterIdLst>
<p:sldIdLst>{{range .Slides}}<p:sldId id="{{add255 .Number}}" r:id="rId{{add9 .Number}}"/>{{end}}</p:sldIdLst>
<p:sldSz cx="12192000" cy="6858000"/>
<p:notesSz cx="6858000" cy="9144000"/>
</p:presentation>{{end}}

{{define "presentation_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "slideMaster"}}" Target="slideMasters/slideMaster1.xml"/>
<Relationship Id="rId2" Type="{{rel "notesMaster"}}" Target="notesMasters/notesMaster1.xml"/>
<Relationship Id="rId3" Type="{{rel "theme"}}" Target="theme/theme1.xml"/>
{{range .Slides}}<Relationship Id="rId{{add9 .Number}}" Type="{{rel "slide"}}" Target="slides/slide{{.Number}}.xml"/>
{{end}}</Relationships>{{end}}

{{define "solid"}}<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>{{end}}

{{define "theme"}}<a:theme xmlns:a="{{nsA}}" name="{{esc .Theme.Name}}">
<a:themeElements>
<a:clrScheme name="{{esc .Theme.Name}}">
<a:dk1><a:srgbClr val="000000"/></a:dk1>
<a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>
<a:dk2><a:srgbClr val="{{.Theme.Title}}"/></a:dk2>
<a:lt2><a:srgbClr val="{{.Theme.Background}}"/></a:lt2>
<a:accent1><a:srgbClr val="{{.Theme.Accent}}"/></a:accent1>
<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>
<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>
<a:accent4><a:srgbClr val="FFC000"/></a:accent4>
<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>
<a:accent6><a:srgbClr val="70AD47"/></a:accent6>
<a:hlink><a:srgbClr val="{{.Theme.Accent}}"/></a:hlink>
<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>
</a:clrScheme>
<a:fontScheme name="{{esc .Theme.Font}}">
<a:majorFont><a:latin typeface="{{esc .Theme.Font}}"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>
<a:minorFont><a:latin typeface="{{esc .Theme.Font}}"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>
</a:fontScheme>
<a:fmtScheme name="slidegen">
<a:fillStyleLst>{{template "solid"}}{{template "solid"}}{{template "solid"}}</a:fillStyleLst>
<a:lnStyleLst><a:ln w="6350">{{template "solid"}}</a:ln><a:ln w="12700">{{template "solid"}}</a:ln><a:ln w="19050">{{template "solid"}}</a:ln></a:lnStyleLst>
<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>
<a:bgFillStyleLst>{{template "solid"}}{{template "solid"}}{{template "solid"}}</a:bgFillStyleLst>
</a:fmtScheme>
</a:themeElements>
</a:theme>{{end}}

{{define "group"}}<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>{{end}}

{{define "clrmap"}}<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>{{end}}

{{define "slide_master"}}<p:sldMaster xmlns:a="{{nsA}}" xmlns:r="{{nsR}}" xmlns:p="{{nsP}}">
<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="{{.Theme.Background}}"/></a:solidFill><a:effectLst/></p:bgPr></p:bg><p:spTree>{{template "group"}}</p:spTree></p:cSld>
{{template "clrmap"}}
<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>
</p:sldMaster>{{end}}

{{define "slide_master_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "slideLayout"}}" Target="../slideLayouts/slideLayout1.xml"/>
<Relationship Id="rId2" Type="{{rel "theme"}}" Target="../theme/theme1.xml"/>
</Relationships>{{end}}

{{define "slide_layout"}}<p:sldLayout xmlns:a="{{nsA}}" xmlns:r="{{nsR}}" xmlns:p="{{nsP}}" type="blank" preserve="1">
<p:cSld name="Blank"><p:spTree>{{template "group"}}</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sldLayout>{{end}}

{{define "slide_layout_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "slideMaster"}}" Target="../slideMasters/slideMaster1.xml"/>
</Relationships>{{end}}

{{define "notes_master"}}<p:notesMaster xmlns:a="{{nsA}}" xmlns:r="{{nsR}}" xmlns:p="{{nsP}}">
<p:cSld><p:spTree>{{template "group"}}</p:spTree></p:cSld>
{{template "clrmap"}}
</p:notesMaster>{{end}}

{{define "notes_master_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "theme"}}" Target="../theme/theme2.xml"/>
</Relationships>{{end}}

{{define "slide"}}<p:sld xmlns:a="{{nsA}}" xmlns:r="{{nsR}}" xmlns:p="{{nsP}}">
<p:cSld><p:bg><p:bgPr><a:solidFill><a:srgbClr val="{{.Theme.Background}}"/></a:solidFill><a:effectLst/></p:bgPr></p:bg><p:spTree>{{template "group"}}
<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="457200" y="274320"/><a:ext cx="11277600" cy="1143000"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>
<p:txBody><a:bodyPr wrap="square" anchor="b"><a:normAutofit/></a:bodyPr><a:lstStyle/><a:p><a:r><a:rPr lang="en-US" sz="{{.Theme.TitleSize}}" b="1" dirty="0"><a:solidFill><a:srgbClr val="{{.Theme.Title}}"/></a:solidFill><a:latin typeface="{{esc .Theme.Font}}"/></a:rPr><a:t>{{esc .Slide.Title}}</a:t></a:r></a:p></p:txBody></p:sp>
<p:sp><p:nvSpPr><p:cNvPr id="3" name="Body"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="457200" y="1554480"/><a:ext cx="{{.Slide.BodyWidth}}" cy="4846320"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>
<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>{{range .Slide.Points}}<a:p><a:pPr marL="342900" indent="-342900"><a:spcBef><a:spcPts val="600"/></a:spcBef><a:buClr><a:srgbClr val="{{$.Theme.Accent}}"/></a:buClr><a:buFont typeface="Arial"/><a:buChar char="&#8226;"/></a:pPr><a:r><a:rPr lang="en-US" sz="{{$.Theme.BodySize}}" dirty="0"><a:solidFill><a:srgbClr val="{{$.Theme.Body}}"/></a:solidFill><a:latin typeface="{{esc $.Theme.Font}}"/></a:rPr><a:t>{{esc .}}</a:t></a:r></a:p>{{else}}<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>{{end}}</p:txBody></p:sp>
{{with .Slide.Image}}<p:pic><p:nvPicPr><p:cNvPr id="4" name="Picture"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>
<p:blipFill><a:blip r:embed="rId2"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>
<p:spPr><a:xfrm><a:off x="{{.X}}" y="{{.Y}}"/><a:ext cx="{{.CX}}" cy="{{.CY}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>
{{end}}</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:sld>{{end}}

{{define "slide_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "slideLayout"}}" Target="../slideLayouts/slideLayout1.xml"/>
{{with .Image}}<Relationship Id="rId2" Type="{{rel "image"}}" Target="../media/{{.Media}}"/>
{{end}}{{if .HasNotes}}<Relationship Id="rId3" Type="{{rel "notesSlide"}}" Target="../notesSlides/notesSlide{{.Number}}.xml"/>
{{end}}</Relationships>{{end}}

{{define "notes_slide"}}<p:notes xmlns:a="{{nsA}}" xmlns:r="{{nsR}}" xmlns:p="{{nsP}}">
<p:cSld><p:spTree>{{template "group"}}
<p:sp><p:nvSpPr><p:cNvPr id="2" name="Notes Placeholder"/><p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>
<p:txBody><a:bodyPr/><a:lstStyle/>{{range .Notes}}{{if .}}<a:p><a:r><a:rPr lang="en-US" dirty="0"/><a:t>{{esc .}}</a:t></a:r></a:p>{{else}}<a:p><a:endParaRPr lang="en-US" dirty="0"/></a:p>{{end}}{{end}}</p:txBody></p:sp>
</p:spTree></p:cSld>
<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>
</p:notes>{{end}}

{{define "notes_slide_rels"}}<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="{{rel "notesMaster"}}" Target="../notesMasters/notesMaster1.xml"/>
<Relationship Id="rId2" Type="{{rel "slide"}}" Target="../slides/slide{{.Number}}.xml"/>
</Relationships>{{end}}
`
