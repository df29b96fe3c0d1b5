package advice

import (
	"fmt"
	"strings"

	"github.com/futig/medi-assistant/internal/entity"
)

// SymptomConnector joins symptom phrases in prompts and in the input field.
const SymptomConnector = " with "

// noConditions stands in for an empty condition set.
const noConditions = "None"

// DelimiterWord starts every clinician block in a model answer.
const DelimiterWord = "Doctor"

// SystemInstruction fixes the answer format the segmenter relies on: every
// clinician block starts on its own line with "Doctor <n>: **<name>, <qualification>**".
const SystemInstruction = "You are a medical assistant AI. Use doctor-verified sites to answer. " +
	"Answer as multiple independent doctors, at least 5 of them. " +
	"Start with a short general advice paragraph. " +
	"Then start every doctor's answer on a new line exactly as \"Doctor <number>: **<name>, <qualification>**\" " +
	"and never start any other line with the word Doctor. " +
	"Each doctor separately gives prescription guidance: suggested drugs and guidance for fast recovery, in simple and clear words. " +
	"Each doctor ends with a reliable medical reference."

// SuggestionInstruction keeps follow-up suggestions short and list-shaped.
const SuggestionInstruction = "You help patients describe their symptoms. " +
	"Reply only with short follow-up questions or related symptoms, one per line, without numbering, headlines or explanations."

const advicePreamble = "A patient asks for general health guidance."

// BuildAdvicePrompt assembles the user prompt for the advice request.
func BuildAdvicePrompt(symptoms []string, conditions []entity.Condition) string {
	var b strings.Builder
	b.WriteString(advicePreamble)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Patient Symptoms: %s.\n", JoinSymptoms(symptoms))
	fmt.Fprintf(&b, "Previous Conditions: %s.\n", joinConditions(conditions))
	b.WriteString("Provide safe guidance in clear sentences.")
	return b.String()
}

// BuildSuggestionPrompt asks for related symptoms/questions the patient may consider.
func BuildSuggestionPrompt(symptoms []string, conditions []entity.Condition) string {
	return fmt.Sprintf(
		"The patient problem: %s. Previous conditions: %s.\n"+
			"Based on the patient problem and previous conditions, suggest %d related possible symptoms/questions the patient may consider.\n"+
			"Only related symptoms, no headlines needed. They are independent of advice output.",
		JoinSymptoms(symptoms), joinConditions(conditions), entity.MaxSuggestions,
	)
}

// JoinSymptoms renders the symptom list the way the input field shows it.
func JoinSymptoms(symptoms []string) string {
	return strings.Join(symptoms, SymptomConnector)
}

func joinConditions(conditions []entity.Condition) string {
	if len(conditions) == 0 {
		return noConditions
	}

	names := make([]string, len(conditions))
	for i, c := range conditions {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
