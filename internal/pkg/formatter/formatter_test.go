package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *entity.AdviceReport {
	return &entity.AdviceReport{
		Title:      entity.ReportTitle,
		Disclaimer: entity.Disclaimer,
		Symptoms:   []string{"fever", "headache"},
		Language:   "en",
		Segments: []entity.RenderedSegment{
			{Ordinal: 0, Label: entity.GeneralAdviceLabel, Body: "Rest and drink fluids."},
			{Ordinal: 1, Label: "Dr. Asha Rao, MBBS", Body: "Paracetamol 500 mg if needed."},
		},
		RedFlags:    entity.RedFlags,
		GeneratedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestFactory_Create(t *testing.T) {
	factory := NewFactory()

	for format, ext := range map[entity.ResultFormat]string{
		entity.FormatMarkdown: ".md",
		entity.FormatPDF:      ".pdf",
		entity.FormatDOCX:     ".docx",
	} {
		f, err := factory.Create(format)
		require.NoError(t, err)
		assert.Equal(t, ext, f.FileExtension())
	}

	_, err := factory.Create("json")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(testReport())
	require.NoError(t, err)

	md := string(out)
	assert.Contains(t, md, "# Virtual Medi Assistant")
	assert.Contains(t, md, "Generated 2025-03-01 10:30 · Language: English")
	assert.Contains(t, md, "## Dr. Asha Rao, MBBS\n\nParacetamol 500 mg if needed.")
	assert.Contains(t, md, "## Previous conditions\n\nNone")
	assert.Contains(t, md, "- Seizure")
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(testReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
