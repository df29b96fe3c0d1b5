package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/medi-assistant/internal/entity"
)

const (
	symptomsHeading   = "Symptoms"
	conditionsHeading = "Previous conditions"
	redFlagsHeading   = "Seek emergency care if you notice"
	noConditions      = "None"
)

type Formatter interface {
	Format(report *entity.AdviceReport) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidFormat, format)
	}
}

// subtitle is the one-line generation note under the title.
func subtitle(report *entity.AdviceReport) string {
	language := string(report.Language)
	if name, ok := report.Language.Name(); ok {
		language = name
	}

	return fmt.Sprintf("Generated %s · Language: %s", report.GeneratedAt.Format(entity.TimestampLayout), language)
}

func conditionsLine(conditions []entity.Condition) string {
	if len(conditions) == 0 {
		return noConditions
	}

	names := make([]string, len(conditions))
	for i, c := range conditions {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
