package services

import "strings"

// DefaultSystemPrompt is the role message sent with every generation request
const DefaultSystemPrompt = "You are a helpful assistant that creates presentation outlines and speaker notes."

const inputPlaceholder = "{{input_text}}"

// presentationPromptTemplate fixes the reply format the response parser reads
const presentationPromptTemplate = `Create the outline and content of a slide presentation from the text below. Split it into slides. Every slide contains:
1. A short title on the first line.
2. 3 to 5 key points, each on its own line starting with "- ".
3. Detailed speaker notes after "NOTES:".
4. 2 to 3 comma-separated visual keywords describing a fitting picture after "VISUAL_KEYWORDS:".

Follow this format exactly and put a line containing only "---" between slides:

Slide title 1
- Point 1.1
- Point 1.2
- Point 1.3
NOTES: Detailed speaker notes for slide 1.
VISUAL_KEYWORDS: keyword1, keyword2, keyword3
---
Slide title 2
- Point 2.1
- Point 2.2
- Point 2.3
NOTES: Detailed speaker notes for slide 2.
VISUAL_KEYWORDS: keyword1, keyword2
---
...and so on...

Produce at least 3 slides. Start directly with the first content slide; do not add an outline or agenda slide. Base the content on the following text:

` + inputPlaceholder + `
`

// PromptBuilder renders the generation prompt around the user's text
type PromptBuilder struct {
	systemPrompt string
}

// NewPromptBuilder creates a prompt builder; an empty systemPrompt selects DefaultSystemPrompt
func NewPromptBuilder(systemPrompt string) *PromptBuilder {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &PromptBuilder{systemPrompt: systemPrompt}
}

// Build embeds inputText verbatim into the instruction template
func (b *PromptBuilder) Build(inputText string) string {
	// Replace only the first placeholder so input containing it survives untouched
	return strings.Replace(presentationPromptTemplate, inputPlaceholder, inputText, 1)
}

// SystemPrompt returns the system role message
func (b *PromptBuilder) SystemPrompt() string {
	return b.systemPrompt
}
