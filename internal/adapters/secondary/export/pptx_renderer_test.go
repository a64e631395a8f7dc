package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(content)
	}
	return files
}

func TestPPTXRenderer_Render(t *testing.T) {
	renderer := NewPPTXRenderer()
	var buf bytes.Buffer
	require.NoError(t, renderer.Render(context.Background(), testDeck(writeTestPNG(t, 40, 20)), &buf))

	files := readZip(t, buf.Bytes())

	t.Run("package parts", func(t *testing.T) {
		for _, name := range []string{
			"[Content_Types].xml",
			"_rels/.rels",
			"ppt/presentation.xml",
			"ppt/slideMasters/slideMaster1.xml",
			"ppt/slideLayouts/slideLayout1.xml",
			"ppt/notesMasters/notesMaster1.xml",
			"ppt/theme/theme1.xml",
			"ppt/slides/slide1.xml",
			"ppt/slides/slide2.xml",
			"ppt/notesSlides/notesSlide1.xml",
			"ppt/media/image1.png",
		} {
			assert.Contains(t, files, name)
		}
		assert.NotContains(t, files, "ppt/notesSlides/notesSlide2.xml")
		assert.NotContains(t, files, "ppt/media/image2.png")
	})

	t.Run("every xml part is well formed", func(t *testing.T) {
		for name, content := range files {
			if !strings.HasSuffix(name, ".xml") && !strings.HasSuffix(name, ".rels") {
				continue
			}
			dec := xml.NewDecoder(strings.NewReader(content))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				}
				require.NoError(t, err, name)
			}
		}
	})

	t.Run("slide text is escaped", func(t *testing.T) {
		slide := files["ppt/slides/slide1.xml"]
		assert.Contains(t, slide, "<a:t>Cities at night</a:t>")
		assert.Contains(t, slide, "Energy use &amp; &lt;costs&gt;")
		assert.Contains(t, slide, `r:embed="rId2"`)
		assert.Contains(t, slide, `<a:srgbClr val="FFFFFF"/>`)
	})

	t.Run("notes keep their lines", func(t *testing.T) {
		notes := files["ppt/notesSlides/notesSlide1.xml"]
		assert.Contains(t, notes, "<a:t>Open with a photo.</a:t>")
		assert.Contains(t, notes, "<a:t>Mention the budget.</a:t>")
		assert.Contains(t, files["ppt/slides/_rels/slide1.xml.rels"], "notesSlide1.xml")
		assert.NotContains(t, files["ppt/slides/_rels/slide2.xml.rels"], "notesSlide")
	})

	t.Run("presentation lists slides in order", func(t *testing.T) {
		pres := files["ppt/presentation.xml"]
		assert.Contains(t, pres, `<p:sldId id="256" r:id="rId10"/><p:sldId id="257" r:id="rId11"/>`)
		assert.Contains(t, files["[Content_Types].xml"], `Extension="png" ContentType="image/png"`)
	})
}

func TestPPTXRenderer_MissingImage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPPTXRenderer().Render(context.Background(), testDeck("/does/not/exist.png"), &buf))

	files := readZip(t, buf.Bytes())
	assert.NotContains(t, files, "ppt/media/image1.png")
	assert.NotContains(t, files["ppt/slides/slide1.xml"], "r:embed")
}

func TestOOXMLColor(t *testing.T) {
	assert.Equal(t, "0F172A", ooxmlColor("#0f172a"))
	assert.Equal(t, "000000", ooxmlColor("nope"))
}
