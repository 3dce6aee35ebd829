package caption

import (
	"html"
	"regexp"
	"strings"
)

// markupTagRe matches inline markup tags found in caption payloads
// (<b>, <i>, <c.colorE5E5E5>, <font>, closing tags, and so on).
var markupTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanText strips inline markup tags, decodes character entities (named and
// numeric), and trims surrounding whitespace. The result may be empty, in
// which case the caller drops the cue.
func CleanText(s string) string {
	s = markupTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}
