package advice

import (
	"strings"
	"testing"
	"unicode"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveDoctorAnswer = `Mild fever with headache is usually viral. Rest and drink fluids.

Doctor 1: **Dr. Asha Rao, MBBS**
Paracetamol 500 mg every 6 hours if needed.
Reference: WHO fever guidance

**Doctor 2: Dr. Vikram Shah, MD**
Keep a fever diary and check your temperature twice a day.

### Doctor 3: __Dr. Lina Costa, GP__
Stay hydrated. <b>Oral rehydration</b> salts help.

Doctor 4: Dr. Omar Khan
Seek care if blood pressure is <140 and >90 persists.

Doctor 5: **Dr. Mei Lin, Internal Medicine**
Rest for 48 hours.
`

func TestSegment_FiveDoctors(t *testing.T) {
	segments := Segment(fiveDoctorAnswer)
	require.Len(t, segments, 6)

	assert.Equal(t, 0, segments[0].Ordinal)
	assert.Equal(t, entity.GeneralAdviceLabel, segments[0].Label)
	assert.Equal(t, "Mild fever with headache is usually viral. Rest and drink fluids.", segments[0].Body)

	wantLabels := []string{
		"Dr. Asha Rao, MBBS",
		"Doctor 2: Dr. Vikram Shah, MD",
		"Dr. Lina Costa, GP",
		"Doctor 4",
		"Dr. Mei Lin, Internal Medicine",
	}
	for i, label := range wantLabels {
		seg := segments[i+1]
		assert.Equal(t, i+1, seg.Ordinal)
		assert.Equal(t, label, seg.Label)
		assert.NotContains(t, seg.Body, "**")
		assert.NotContains(t, seg.Body, "__")
		assert.NotContains(t, seg.Body, "<b>")
	}

	assert.Contains(t, segments[1].Body, "Paracetamol 500 mg")
	assert.Contains(t, segments[3].Body, "Oral rehydration salts help.")
	assert.Contains(t, segments[4].Body, "<140 and >90")
}

func TestSegment_NoDelimiter(t *testing.T) {
	segments := Segment("Just **rest** and drink water.\n")
	require.Len(t, segments, 1)

	assert.Equal(t, entity.AdviceSegment{
		Ordinal: 0,
		Label:   entity.GeneralAdviceLabel,
		Body:    "Just rest and drink water.",
	}, segments[0])
}

func TestSegment_Counts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{
			name: "leading text and two doctors",
			raw:  "Intro\nDoctor 1: a\nDoctor 2: b",
			want: 3,
		},
		{
			name: "starts with a doctor",
			raw:  "Doctor 1: a\nDoctor 2: b",
			want: 2,
		},
		{
			name: "empty doctor block is dropped",
			raw:  "Intro\nDoctor\nDoctor 2: b",
			want: 2,
		},
		{
			name: "word inside a sentence is not a delimiter",
			raw:  "Ask your Doctor about it.\nDoctors agree on rest.",
			want: 1,
		},
		{
			name: "possessive is not a delimiter",
			raw:  "Intro\nDoctor 1: a\nDoctor's note: keep warm.",
			want: 2,
		},
		{
			name: "bare word with colon is a delimiter",
			raw:  "Intro\n**Doctor**: a\nDoctor. b",
			want: 3,
		},
		{
			name: "empty answer",
			raw:  "  \n ",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Segment(tt.raw), tt.want)
		})
	}
}

func TestSegment_CountMatchesDelimiters(t *testing.T) {
	n := CountDelimiters(fiveDoctorAnswer)
	assert.Equal(t, 5, n)
	assert.Len(t, Segment(fiveDoctorAnswer), n+1)

	withoutIntro := fiveDoctorAnswer[strings.Index(fiveDoctorAnswer, "Doctor 1"):]
	assert.Len(t, Segment(withoutIntro), n)
}

func TestSegment_RoundTrip(t *testing.T) {
	for _, raw := range []string{
		fiveDoctorAnswer,
		"No doctors here, only <i>text</i>.",
		"## Doctor 1: **A, B**\nbody one\n__Doctor 2__ body two",
	} {
		var bodies strings.Builder
		for _, seg := range Segment(raw) {
			bodies.WriteString(seg.Body)
		}

		var withoutDelimiters strings.Builder
		for _, line := range strings.SplitAfter(raw, "\n") {
			withoutDelimiters.WriteString(delimiterPattern.ReplaceAllString(line, "${2}"))
		}

		assert.Equal(t,
			dropSpaces(StripMarkup(withoutDelimiters.String())),
			dropSpaces(bodies.String()),
		)
	}
}

func TestSegment_LabelFromEmphasizedDelimiter(t *testing.T) {
	segments := Segment("**Doctor 2: Dr. Vikram Shah, MD**\nKeep a fever diary.\n__Doctor 3__\nRest.")
	require.Len(t, segments, 2)

	assert.Equal(t, "Doctor 2: Dr. Vikram Shah, MD", segments[0].Label)
	assert.Equal(t, 1, segments[0].Ordinal)
	assert.Contains(t, segments[0].Body, "Keep a fever diary.")
	assert.Equal(t, "Doctor 3", segments[1].Label)
}

func TestSegment_PossessiveStaysInBody(t *testing.T) {
	segments := Segment("Doctor 1: **Dr. A, GP**\nDoctor's note: keep warm.")
	require.Len(t, segments, 1)

	assert.Contains(t, segments[0].Body, "Doctor's note: keep warm.")
	assert.Equal(t, 1, CountDelimiters("Doctor 1: x\nDoctor's note: y"))
}

func TestSegment_Idempotent(t *testing.T) {
	for _, seg := range Segment(fiveDoctorAnswer) {
		assert.Equal(t, seg.Body, StripMarkup(seg.Body))
	}
}

func dropSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
