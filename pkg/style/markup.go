package style

import (
	"regexp"
)

// tagPattern matches <Name>content</Name>. Tags do not nest.
var tagPattern = regexp.MustCompile(`(?s)<([A-Z][A-Za-z]*)>(.*?)</([A-Z][A-Za-z]*)>`)

// Markup expands style tags such as <Success>done</Success>. Tags naming
// unknown styles and mismatched pairs are left as they are.
func (t *Theme) Markup(text string) string {
	return tagPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := tagPattern.FindStringSubmatch(match)
		if parts[1] != parts[3] || !t.registry.HasStyle(parts[1]) {
			return match
		}
		return t.Render(parts[1], parts[2])
	})
}

// StripTags removes style tags, keeping their content
func StripTags(text string) string {
	return tagPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := tagPattern.FindStringSubmatch(match)
		if parts[1] != parts[3] {
			return match
		}
		return parts[2]
	})
}
