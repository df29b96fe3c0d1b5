package advice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/futig/medi-assistant/internal/entity"
)

// delimiterPattern matches a delimiter occurrence: the word Doctor at the start
// of a line, optionally after blanks, a heading marker and an opening emphasis
// marker. Group 1 is the consumed prefix. Group 2 is the tail that must follow
// the word (a number, a colon or period, or the end of the line) and stays in
// the body, so "Doctor's note" or "Doctors agree" never open a segment.
var delimiterPattern = regexp.MustCompile(
	`^([ \t]*(?:#{1,6}[ \t]*)?(?:\*\*|__)?[ \t]*` + DelimiterWord + `)` +
		`([ \t]+\d|[ \t]*(?:\*\*|__)?[ \t]*[:.]|[ \t]*(?:\*\*|__)?[ \t]*\r?\n?$)`,
)

type segmenterState int

const (
	stateBeforeFirstDelimiter segmenterState = iota
	stateInSegment
)

type piece struct {
	ordinal int
	header  string
	text    strings.Builder
}

// Segment splits a raw model answer into a leading General Advice segment and
// one segment per delimiter occurrence. Pieces that are empty after markup
// stripping are dropped.
func Segment(raw string) []entity.AdviceSegment {
	var (
		state   = stateBeforeFirstDelimiter
		leading strings.Builder
		pieces  []*piece
	)

	for _, line := range strings.SplitAfter(raw, "\n") {
		if m := delimiterPattern.FindStringSubmatchIndex(line); m != nil {
			state = stateInSegment
			p := &piece{ordinal: len(pieces) + 1, header: line[m[0]:]}
			p.text.WriteString(line[m[3]:])
			pieces = append(pieces, p)
			continue
		}

		switch state {
		case stateBeforeFirstDelimiter:
			leading.WriteString(line)
		case stateInSegment:
			pieces[len(pieces)-1].text.WriteString(line)
		}
	}

	segments := make([]entity.AdviceSegment, 0, len(pieces)+1)

	if body := StripMarkup(leading.String()); body != "" {
		segments = append(segments, entity.AdviceSegment{
			Ordinal: 0,
			Label:   entity.GeneralAdviceLabel,
			Body:    body,
		})
	}

	for _, p := range pieces {
		body := StripMarkup(p.text.String())
		if body == "" {
			continue
		}
		segments = append(segments, entity.AdviceSegment{
			Ordinal: p.ordinal,
			Label:   extractLabel(p.header, p.ordinal),
			Body:    body,
		})
	}

	return segments
}

// CountDelimiters reports how many delimiter occurrences raw contains.
func CountDelimiters(raw string) int {
	n := 0
	for _, line := range strings.SplitAfter(raw, "\n") {
		if delimiterPattern.MatchString(line) {
			n++
		}
	}
	return n
}

// extractLabel takes the text between the first pair of emphasis markers on the
// whole delimiter line, else falls back to "Doctor <ordinal>".
func extractLabel(header string, ordinal int) string {
	header = strings.TrimRight(header, "\r\n")

	if label, ok := betweenFirstEmphasisPair(header); ok {
		return label
	}

	return fmt.Sprintf("%s %d", DelimiterWord, ordinal)
}

func betweenFirstEmphasisPair(line string) (string, bool) {
	start, marker := -1, ""
	for _, m := range []string{"**", "__"} {
		if i := strings.Index(line, m); i >= 0 && (start < 0 || i < start) {
			start, marker = i, m
		}
	}
	if start < 0 {
		return "", false
	}

	rest := line[start+len(marker):]
	end := strings.Index(rest, marker)
	if end < 0 {
		return "", false
	}

	label := strings.TrimSpace(StripMarkup(rest[:end]))
	if label == "" {
		return "", false
	}

	return label, true
}
