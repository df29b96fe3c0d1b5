package advice

import (
	"regexp"
	"strings"
)

var (
	// Only real tags: "<" or "</" directly followed by a letter. Comparisons
	// such as "<140 and >90" stay untouched.
	tagPattern     = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>]*)?/?>`)
	headingPattern = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	emphasisMarks  = strings.NewReplacer("**", "", "__", "")
)

// StripMarkup removes tags, emphasis markers and heading markers, then trims.
// It only touches markup and surrounding whitespace and is idempotent.
func StripMarkup(s string) string {
	for {
		next := stripOnce(s)
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

func stripOnce(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = headingPattern.ReplaceAllString(s, "")
	return emphasisMarks.Replace(s)
}
