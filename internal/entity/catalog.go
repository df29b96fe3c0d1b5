package entity

import "strings"

// Disclaimer is shown with every advice result.
const Disclaimer = "⚠️ This is not a diagnosis. It provides general health guidance. " +
	"Always consult a qualified doctor for treatment. In case of severe or urgent symptoms, " +
	"seek emergency care immediately."

// RedFlags are the emergency warning signs always listed once advice is requested.
var RedFlags = []string{
	"Severe chest pain",
	"Sudden difficulty breathing",
	"Confusion or fainting",
	"Seizure",
	"Very high blood pressure (≥ 180/120 mmHg)",
	"High fever with stiff neck",
}

// Condition is a prior-condition tag from the fixed list.
type Condition string

const (
	ConditionHypertension  Condition = "Hypertension"
	ConditionDiabetes      Condition = "Diabetes"
	ConditionAsthma        Condition = "Asthma"
	ConditionHeartDisease  Condition = "Heart Disease"
	ConditionKidneyDisease Condition = "Kidney Disease"
)

// Conditions lists the selectable tags in display order.
var Conditions = []Condition{
	ConditionHypertension,
	ConditionDiabetes,
	ConditionAsthma,
	ConditionHeartDisease,
	ConditionKidneyDisease,
}

func (c Condition) IsValid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCondition matches a tag case-insensitively.
func ParseCondition(s string) (Condition, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Conditions {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Language is a two-letter output language code.
type Language string

const DefaultLanguage Language = "en"

// Languages lists the supported output languages in display order.
var Languages = []LanguageInfo{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "mr", Name: "Marathi"},
	{Code: "ta", Name: "Tamil"},
	{Code: "te", Name: "Telugu"},
	{Code: "kn", Name: "Kannada"},
	{Code: "gu", Name: "Gujarati"},
	{Code: "pa", Name: "Punjabi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "ml", Name: "Malayalam"},
	{Code: "ur", Name: "Urdu"},
}

type LanguageInfo struct {
	Code Language `json:"code"`
	Name string   `json:"name"`
}

func (l Language) IsValid() bool {
	_, ok := l.Name()
	return ok
}

// Name returns the display name of a supported language.
func (l Language) Name() (string, bool) {
	for _, info := range Languages {
		if info.Code == l {
			return info.Name, true
		}
	}
	return "", false
}

// ParseLanguage accepts either a code ("hi") or a display name ("Hindi").
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, info := range Languages {
		if strings.EqualFold(s, string(info.Code)) || strings.EqualFold(s, info.Name) {
			return info.Code, true
		}
	}
	return "", false
}
