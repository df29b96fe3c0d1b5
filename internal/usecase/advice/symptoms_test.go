package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSymptomsInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "connector", input: "fever with headache", want: []string{"fever", "headache"}},
		{name: "newlines and blanks", input: "fever\n\n cough \n", want: []string{"fever", "cough"}},
		{name: "duplicates", input: "fever with cough with fever", want: []string{"fever", "cough"}},
		{name: "case differs", input: "Fever with fever", want: []string{"Fever", "fever"}},
		{name: "empty", input: "   ", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSymptomsInput(tt.input))
		})
	}
}

func TestMergeSymptoms(t *testing.T) {
	assert.Equal(t, []string{"Headache", "headache"}, MergeSymptoms([]string{"Headache"}, "headache"))
	assert.Equal(t, []string{"Headache", "cough"}, MergeSymptoms([]string{"Headache"}, " Headache ", "", "cough"))
}

func TestParseSuggestions(t *testing.T) {
	raw := "1. Do you have a sore throat?\n- Are you feeling tired\n**Have you traveled recently?**, Do you have chills?\n" +
		"Do you have a rash?\nAre you coughing at night?\n"

	got := ParseSuggestions(raw)

	assert.Equal(t, []string{
		"Do you have a sore throat?",
		"Are you feeling tired?",
		"Have you traveled recently?",
		"Do you have chills?",
		"Do you have a rash?",
	}, got)
}

func TestParseSuggestions_Empty(t *testing.T) {
	assert.Empty(t, ParseSuggestions("\n , \n"))
}

func TestSuggestionToSymptom(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Are you feeling tired?", want: "I feel feeling tired"},
		{in: "Have you traveled recently?", want: "I had traveled recently"},
		{in: "You have a rash", want: "I have a rash"},
		{in: "Do you have chills?", want: "Do you have chills"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestionToSymptom(tt.in))
		})
	}
}
