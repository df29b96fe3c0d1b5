package formatter

import (
	"bytes"
	"os"

	"github.com/futig/medi-assistant/internal/entity"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Runtime layout: fonts are shipped next to the binary.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"

	// Source layout, for `go run` from the repo root.
	pdfFontSourcePath = "internal/pkg/formatter/ttf/DejaVuSans.ttf"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}

	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}

	return ""
}

func (mf *PDFFormatter) Format(report *entity.AdviceReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(report.Title, true)
	pdf.AddPage()

	// Without the bundled font only Latin-1 text renders; the core font
	// translator replaces everything else.
	fontName := "Arial"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
		text = func(s string) string { return s }
	}

	heading := func(s string) {
		pdf.Ln(4)
		pdf.SetFont(fontName, "B", 14)
		pdf.MultiCell(0, 8, text(s), "", "", false)
	}
	paragraph := func(s string) {
		pdf.SetFont(fontName, "", 11)
		_, fontSize := pdf.GetFontSize()
		pdf.MultiCell(0, fontSize*1.5, text(s), "", "", false)
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, text(report.Title))
	pdf.Ln(12)

	paragraph(subtitle(report))
	paragraph(report.Disclaimer)

	heading(symptomsHeading)
	for _, s := range report.Symptoms {
		paragraph("- " + s)
	}

	heading(conditionsHeading)
	paragraph(conditionsLine(report.Conditions))

	for _, seg := range report.Segments {
		heading(seg.Label)
		paragraph(seg.Body)
	}

	heading(redFlagsHeading)
	for _, flag := range report.RedFlags {
		paragraph("- " + flag)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
