package advice

import (
	"regexp"
	"strings"

	"github.com/futig/medi-assistant/internal/entity"
)

var (
	listBullet = regexp.MustCompile(`^(?:[-*•·]+|\d{1,2}[.)])[ \t]*`)

	symptomRewrites = strings.NewReplacer(
		"You have", "I have",
		"Have you", "I had",
		"Are you", "I feel",
	)
)

// ParseSymptomsInput splits the editable input field into symptom phrases.
// Phrases are separated by newlines or the " with " connector.
func ParseSymptomsInput(input string) []string {
	var phrases []string
	for _, line := range strings.Split(input, "\n") {
		phrases = append(phrases, strings.Split(line, SymptomConnector)...)
	}
	return MergeSymptoms(nil, phrases...)
}

// MergeSymptoms appends phrases to symptoms, skipping blanks and exact duplicates
// of an already trimmed phrase.
func MergeSymptoms(symptoms []string, phrases ...string) []string {
	out := make([]string, 0, len(symptoms)+len(phrases))
	seen := make(map[string]bool, len(symptoms)+len(phrases))

	for _, s := range append(append([]string(nil), symptoms...), phrases...) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}

	return out
}

// ParseSuggestions turns a model answer into at most MaxSuggestions questions.
// Newlines count as separators, like commas.
func ParseSuggestions(raw string) []string {
	raw = strings.ReplaceAll(raw, "\n", ",")

	items := make([]string, 0, entity.MaxSuggestions)
	seen := make(map[string]bool)

	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(listBullet.ReplaceAllString(strings.TrimSpace(StripMarkup(part)), ""))
		if item == "" || item == "?" {
			continue
		}
		if !strings.HasSuffix(item, "?") {
			item += "?"
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, item)
		if len(items) == entity.MaxSuggestions {
			break
		}
	}

	return items
}

// SuggestionToSymptom rewrites a follow-up question in the first person,
// e.g. "Are you dizzy?" becomes "I feel dizzy".
func SuggestionToSymptom(suggestion string) string {
	s := strings.TrimSpace(suggestion)
	if !strings.HasSuffix(s, "?") {
		s += "?"
	}
	s = symptomRewrites.Replace(s)
	s = strings.TrimRight(s, "?")
	return strings.TrimSpace(s)
}
