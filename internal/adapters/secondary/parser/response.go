package parser

import (
	"strings"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// Wire format markers shared with the prompt template
const (
	SlideDelimiter = "---"
	BulletMarker   = "- "
	NotesMarker    = "NOTES:"
	KeywordsMarker = "VISUAL_KEYWORDS:"
)

// section is the parser state within one block. Transitions only move forward.
type section int

const (
	sectionPoints section = iota
	sectionNotes
	sectionKeywords
)

// ResponseParser recovers slides from the model's semi-structured reply
type ResponseParser struct{}

// NewResponseParser creates a new response parser
func NewResponseParser() *ResponseParser {
	return &ResponseParser{}
}

// Parse splits raw into blocks and parses each into a slide.
// Malformed structure is absorbed; only a reply with no usable block fails.
func (p *ResponseParser) Parse(raw string) ([]entities.Slide, error) {
	blocks := splitBlocks(raw)
	if len(blocks) == 0 {
		return nil, entities.ErrEmptyGeneration
	}

	slides := make([]entities.Slide, 0, len(blocks))
	for i, block := range blocks {
		slide := parseBlock(block)
		slide.Order = i
		slides = append(slides, slide)
	}

	return slides, nil
}

// splitBlocks cuts raw on delimiter lines and drops blocks that are blank
func splitBlocks(raw string) [][]string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var blocks [][]string
	var current []string
	flush := func() {
		if !isBlank(current) {
			blocks = append(blocks, current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == SlideDelimiter {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func isBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// parseBlock runs the section state machine over one block
func parseBlock(lines []string) entities.Slide {
	slide := entities.Slide{
		Points:         []string{},
		VisualKeywords: []string{},
	}

	// Leading blank lines belong to the delimiter, not the slide
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		slide.Title = entities.UntitledSlide
		return slide
	}

	slide.Title = strings.TrimSpace(lines[start])
	if slide.Title == "" {
		slide.Title = entities.UntitledSlide
	}

	state := sectionPoints
	var notes strings.Builder

	for _, raw := range lines[start+1:] {
		line := strings.TrimSpace(raw)

		if rest, ok := cutMarker(line, KeywordsMarker); ok {
			if state != sectionKeywords {
				slide.VisualKeywords = splitKeywords(rest)
				state = sectionKeywords
			}
			continue
		}

		if rest, ok := cutMarker(line, NotesMarker); ok {
			switch state {
			case sectionPoints:
				notes.WriteString(rest)
				state = sectionNotes
			case sectionNotes:
				// a repeated marker starts the notes over
				notes.Reset()
				notes.WriteString(rest)
			}
			continue
		}

		switch state {
		case sectionPoints:
			if point, ok := parsePoint(line); ok {
				slide.Points = append(slide.Points, point)
			}
		case sectionNotes:
			appendNote(&notes, line)
		case sectionKeywords:
			// keywords are bounded to their marker line
		}
	}

	slide.Notes = strings.TrimRight(notes.String(), " \t\n")
	return slide
}

// appendNote adds line on a new line; blank lines survive once notes have started
func appendNote(notes *strings.Builder, line string) {
	if notes.Len() > 0 {
		notes.WriteString("\n")
	}
	notes.WriteString(line)
}

// cutMarker matches marker case-insensitively at the start of line
// and returns the trimmed remainder
func cutMarker(line, marker string) (string, bool) {
	if len(line) < len(marker) || !strings.EqualFold(line[:len(marker)], marker) {
		return "", false
	}
	return strings.TrimSpace(line[len(marker):]), true
}

// parsePoint strips the bullet marker; unmarked text is kept as a point
func parsePoint(line string) (string, bool) {
	if line == "" || line == strings.TrimSpace(BulletMarker) {
		return "", false
	}
	point := strings.TrimSpace(strings.TrimPrefix(line, BulletMarker))
	return point, point != ""
}

// splitKeywords splits on ASCII and full-width commas, dropping empty tokens
func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，'
	})
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		if kw := strings.TrimSpace(f); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Serialize writes slides back in the wire format the parser reads
func Serialize(slides []entities.Slide) string {
	var b strings.Builder
	for i, s := range slides {
		if i > 0 {
			b.WriteString("\n" + SlideDelimiter + "\n")
		}
		b.WriteString(s.Title)
		b.WriteString("\n")
		for _, p := range s.Points {
			b.WriteString(BulletMarker + p + "\n")
		}
		if s.Notes != "" {
			b.WriteString(NotesMarker + " " + s.Notes + "\n")
		}
		if len(s.VisualKeywords) > 0 {
			b.WriteString(KeywordsMarker + " " + strings.Join(s.VisualKeywords, ", ") + "\n")
		}
	}
	return b.String()
}

// Ensure ResponseParser implements ports.ResponseParser
var _ ports.ResponseParser = (*ResponseParser)(nil)
