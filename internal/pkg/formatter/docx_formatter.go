package formatter

import (
	"bytes"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(report *entity.AdviceReport) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	addStyled := func(style, text string) {
		par := doc.AddParagraph()
		if style != "" {
			par.SetStyle(style)
		}
		par.AddRun().AddText(text)
	}

	addStyled("Title", report.Title)
	addStyled("Subtitle", subtitle(report))
	addStyled("", report.Disclaimer)

	addStyled("Heading1", symptomsHeading)
	for _, s := range report.Symptoms {
		addStyled("ListParagraph", "• "+s)
	}

	addStyled("Heading1", conditionsHeading)
	addStyled("", conditionsLine(report.Conditions))

	for _, seg := range report.Segments {
		addStyled("Heading1", seg.Label)
		addStyled("", seg.Body)
	}

	addStyled("Heading1", redFlagsHeading)
	for _, flag := range report.RedFlags {
		addStyled("ListParagraph", "• "+flag)
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
