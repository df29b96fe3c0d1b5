package formatter

import (
	"bytes"
	"fmt"

	"github.com/futig/medi-assistant/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(report *entity.AdviceReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", report.Title)
	fmt.Fprintf(&buf, "_%s_\n\n", subtitle(report))
	fmt.Fprintf(&buf, "> %s\n\n", report.Disclaimer)

	fmt.Fprintf(&buf, "## %s\n\n", symptomsHeading)
	for _, s := range report.Symptoms {
		fmt.Fprintf(&buf, "- %s\n", s)
	}
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "## %s\n\n%s\n\n", conditionsHeading, conditionsLine(report.Conditions))

	for _, seg := range report.Segments {
		fmt.Fprintf(&buf, "## %s\n\n%s\n\n", seg.Label, seg.Body)
	}

	fmt.Fprintf(&buf, "## %s\n\n", redFlagsHeading)
	for _, flag := range report.RedFlags {
		fmt.Fprintf(&buf, "- %s\n", flag)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
