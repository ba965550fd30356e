package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont       = "Arial"
	pdfLineHeight = 5.0
	pdfCellPad    = 1.5
)

// header and accent colour #333366
var pdfAccent = [3]int{51, 51, 102}

// WritePDF renders doc as a paginated A4 PDF. Table headers repeat on
// every page and long cells wrap.
func WritePDF(w io.Writer, doc *Document) error {
	orientation := "P"
	if doc.Landscape {
		orientation = "L"
	}

	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	footer := tr(doc.Footer())
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(pdfFont, "", 8)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, 4, footer, "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 14)
	pdf.SetTextColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
	pdf.MultiCell(0, 7, tr(doc.Title), "", "C", false)
	if doc.Subtitle != "" {
		pdf.SetFont(pdfFont, "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 6, tr(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont(pdfFont, "B", 12)
			pdf.SetTextColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
			pdf.CellFormat(0, 8, tr(section.Heading), "", 1, "L", false, 0, "")
		}
		for _, fact := range section.Facts {
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont(pdfFont, "B", 10)
			label := tr(fact.Label + ": ")
			pdf.CellFormat(pdf.GetStringWidth(label), 6, label, "", 0, "L", false, 0, "")
			pdf.SetFont(pdfFont, "", 10)
			pdf.CellFormat(0, 6, tr(fact.Value), "", 1, "L", false, 0, "")
		}
		if section.Table != nil {
			pdf.Ln(2)
			writePDFTable(pdf, tr, section.Table)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}
	return nil
}

func writePDFTable(pdf *fpdf.Fpdf, tr func(string) string, t *Table) {
	left, _, right, bottom := pdf.GetMargins()
	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(t, pageW-left-right)

	drawHeader := func() {
		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(pdfAccent[0], pdfAccent[1], pdfAccent[2])
		pdf.SetTextColor(255, 255, 255)
		cells := make([]string, len(t.Headers))
		for i, h := range t.Headers {
			cells[i] = tr(h)
		}
		drawPDFRow(pdf, cells, widths, true, 0)
	}

	drawHeader()
	pdf.SetFont(pdfFont, "", 8)
	for n, row := range t.Rows {
		cells := make([]string, len(widths))
		for i := range cells {
			if i < len(row) {
				cells[i] = tr(CellText(row[i]))
			}
		}

		pdf.SetFont(pdfFont, "", 8)
		if pdf.GetY()+rowHeight(pdf, cells, widths) > pageH-bottom {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont(pdfFont, "", 8)
		}

		if n%2 == 1 {
			pdf.SetFillColor(242, 242, 242)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(0, 0, 0)
		drawPDFRow(pdf, cells, widths, true, t.Emphasis)
	}
}

// drawPDFRow draws one table row at the current position; emphasis is the
// 1-based column drawn in bold red (0 for none)
func drawPDFRow(pdf *fpdf.Fpdf, cells []string, widths []float64, fill bool, emphasis int) {
	height := rowHeight(pdf, cells, widths)
	x, y := pdf.GetXY()
	family, style := pdfFont, ""
	r, g, b := pdf.GetTextColor()
	size, _ := pdf.GetFontSize()

	for i, w := range widths {
		if fill {
			pdf.Rect(x, y, w, height, "F")
		}
		if i+1 == emphasis {
			pdf.SetFont(family, "B", size)
			pdf.SetTextColor(220, 0, 0)
		}
		for n, line := range wrapPDFText(pdf, cells[i], w-2*pdfCellPad) {
			pdf.SetXY(x+pdfCellPad, y+pdfCellPad+float64(n)*pdfLineHeight)
			pdf.CellFormat(w-2*pdfCellPad, pdfLineHeight, line, "", 0, "L", false, 0, "")
		}
		if i+1 == emphasis {
			pdf.SetFont(family, style, size)
			pdf.SetTextColor(r, g, b)
		}
		x += w
	}

	left, _, _, _ := pdf.GetMargins()
	pdf.SetDrawColor(221, 221, 221)
	pdf.Line(left, y+height, x, y+height)
	pdf.SetXY(left, y+height)
}

func rowHeight(pdf *fpdf.Fpdf, cells []string, widths []float64) float64 {
	lines := 1
	for i, w := range widths {
		if n := len(wrapPDFText(pdf, cells[i], w-2*pdfCellPad)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 2*pdfCellPad
}

// wrapPDFText splits already-translated (single byte) text into lines no
// wider than width in the current font. Words wider than a line are cut.
func wrapPDFText(pdf *fpdf.Fpdf, txt string, width float64) []string {
	words := strings.Fields(txt)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, word := range words {
		for len(word) > 1 && pdf.GetStringWidth(word) > width {
			cut := len(word) - 1
			for cut > 1 && pdf.GetStringWidth(word[:cut]) > width {
				cut--
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			lines = append(lines, word[:cut])
			word = word[cut:]
		}

		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if pdf.GetStringWidth(candidate) <= width {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	return append(lines, line)
}

// columnWidths distributes total across the table's columns using its
// relative Widths, or evenly when none are given
func columnWidths(t *Table, total float64) []float64 {
	n := len(t.Headers)
	widths := make([]float64, n)
	if n == 0 {
		return widths
	}

	weights := t.Widths
	if len(weights) != n {
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	for i, w := range weights {
		widths[i] = total * w / sum
	}
	return widths
}
