package advice

import (
	"strings"
	"testing"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestBuildAdvicePrompt(t *testing.T) {
	tests := []struct {
		name       string
		symptoms   []string
		conditions []entity.Condition
		contains   []string
		wantNone   bool
	}{
		{
			name:     "no conditions",
			symptoms: []string{"fever", "headache"},
			contains: []string{"fever with headache"},
			wantNone: true,
		},
		{
			name:       "with conditions",
			symptoms:   []string{"chest tightness"},
			conditions: []entity.Condition{entity.ConditionAsthma, entity.ConditionHypertension},
			contains:   []string{"chest tightness", "Asthma, Hypertension"},
		},
		{
			name:       "phrase containing None",
			symptoms:   []string{"None of my meds help"},
			conditions: []entity.Condition{entity.ConditionDiabetes},
			contains:   []string{"None of my meds help", "Diabetes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildAdvicePrompt(tt.symptoms, tt.conditions)

			for _, s := range tt.contains {
				assert.Contains(t, prompt, s)
			}
			for _, c := range tt.conditions {
				assert.Contains(t, prompt, string(c))
			}
			assert.Equal(t, tt.wantNone, strings.Contains(prompt, "Previous Conditions: None."))
		})
	}
}

func TestBuildSuggestionPrompt(t *testing.T) {
	prompt := BuildSuggestionPrompt([]string{"cough", "fatigue"}, nil)

	assert.Contains(t, prompt, "cough with fatigue")
	assert.Contains(t, prompt, "Previous conditions: None.")
	assert.Contains(t, prompt, "suggest 5 related")
}

func TestSystemInstructionDescribesDelimiter(t *testing.T) {
	assert.Contains(t, SystemInstruction, `"Doctor <number>: **<name>, <qualification>**"`)
	assert.Contains(t, SystemInstruction, "at least 5")
}
