package services

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// introKeywords mark a slide that talks about the deck rather than the topic
var introKeywords = []string{
	"outline",
	"overview",
	"table of contents",
	"agenda",
	"based on the following",
	"generated",
	"大纲",
	"目录",
	"概览",
	"概述",
	"议程",
	"根据以下",
	"以下内容生成",
	"自动生成",
}

// toLower folds case for any script. A Caser is stateful, so each call gets its own.
func toLower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// DropIntroIfPresent removes a leading outline or meta slide and renumbers the rest.
// A single-slide deck is returned unchanged.
func DropIntroIfPresent(slides []entities.Slide) []entities.Slide {
	if len(slides) <= 1 {
		return slides
	}

	if !IsIntroSlide(slides[0]) {
		return slides
	}

	rest := make([]entities.Slide, len(slides)-1)
	copy(rest, slides[1:])
	entities.Renumber(rest)
	return rest
}

// IsIntroSlide reports whether the slide's title or points contain an intro keyword
func IsIntroSlide(slide entities.Slide) bool {
	scan := toLower(slide.Title + "\n" + strings.Join(slide.Points, "\n"))
	for _, kw := range introKeywords {
		if strings.Contains(scan, kw) {
			return true
		}
	}
	return false
}
