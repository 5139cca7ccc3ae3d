package extract

import (
	"regexp"
	"strings"
)

var (
	pageArtifactPattern = regexp.MustCompile(`(?i)Pag(?:e|ina)\s+\d+\s+(?:of|di)\s+\d+`)
	spaceRunPattern     = regexp.MustCompile(`[ \t]+`)
	newlineRunPattern   = regexp.MustCompile(`\n{3,}`)
)

// Preprocess cleans raw report text before pattern matching: form feeds
// become newlines, page artifacts are dropped, unicode box-drawing glyphs
// (table borders) become spaces, and whitespace runs are collapsed within
// each line. Line structure is preserved because several pattern families
// anchor on line starts. Pure; called once at pipeline entry.
func Preprocess(text string) string {
	text = strings.ReplaceAll(text, "\f", "\n")
	text = pageArtifactPattern.ReplaceAllString(text, "")
	text = strings.Map(blankBoxGlyph, text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRunPattern.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")

	return strings.TrimSpace(newlineRunPattern.ReplaceAllString(text, "\n\n"))
}

// blankBoxGlyph maps box-drawing runes (U+2500–U+257F) to spaces so tabular
// rows read as whitespace-separated fields.
func blankBoxGlyph(r rune) rune {
	if r >= 0x2500 && r <= 0x257F {
		return ' '
	}
	return r
}
