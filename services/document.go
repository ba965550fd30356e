package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kendall-kelly/instalacoes-api/utils"
)

// Table is a rectangular dataset shared by every report renderer.
// Cells hold string, integer or float64 values.
type Table struct {
	Name    string // sheet name in spreadsheets
	Headers []string
	Rows    [][]interface{}
	// Widths are relative column weights for PDF layout (optional)
	Widths []float64
	// Emphasis is the 1-based column drawn in bold red, 0 for none
	Emphasis int
}

// Fact is a labelled value printed above a section's table
type Fact struct {
	Label string
	Value string
}

// Section is one titled block of a Document
type Section struct {
	Heading   string
	Highlight bool
	Facts     []Fact
	Table     *Table
}

// Document is a printable report, rendered to HTML or PDF
type Document struct {
	Title       string
	Subtitle    string
	Landscape   bool
	Sections    []Section
	GeneratedAt time.Time
}

// Footer is the generation stamp printed at the bottom of every page
func (d *Document) Footer() string {
	return "Relatório gerado em " + d.GeneratedAt.Format(utils.BRDateTimeLayout)
}

// CellText formats a table cell for text outputs (CSV, HTML, PDF)
func CellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	}
	return fmt.Sprint(v)
}

// Document renders the pending orders report
func (r *PendingOrdersReport) Document(now time.Time) *Document {
	table := &Table{
		Headers:  []string{"O.S.", "Cliente", "Contato", "Endereço", "Referência", "Técnico", "Vencimento", "Status"},
		Widths:   []float64{1, 2, 1.4, 3, 2, 1.6, 1.1, 1.1},
		Emphasis: 7,
		Rows:     make([][]interface{}, 0, len(r.Rows)),
	}
	for _, row := range r.Rows {
		table.Rows = append(table.Rows, []interface{}{
			row.NumeroOS, row.Cliente, row.Contato, row.Endereco,
			row.Referencia, row.Tecnico, row.DataVencimento, row.Status,
		})
	}
	return &Document{
		Title:       r.Title,
		Landscape:   true,
		Sections:    []Section{{Table: table}},
		GeneratedAt: now,
	}
}

// AdminReportTitle heads every admin PDF
const AdminReportTitle = "Relatório Administrativo"

// Document renders the admin summary
func (a *AdminSummary) Document(now time.Time) *Document {
	statuses := &Table{Headers: []string{"Status", "Quantidade", "Percentual"}}
	for _, s := range a.Statuses {
		statuses.Rows = append(statuses.Rows, []interface{}{s.Status, s.Total, CellText(s.Percentual) + "%"})
	}

	techs := &Table{Headers: []string{"Técnico", "Total OS"}, Widths: []float64{3, 1}}
	for _, t := range a.TopTechnicians {
		techs.Rows = append(techs.Rows, []interface{}{t.Nome, t.Total})
	}

	cities := &Table{Headers: []string{"Cidade", "UF", "Total OS"}, Widths: []float64{3, 1, 1}}
	for _, c := range a.TopCities {
		cities.Rows = append(cities.Rows, []interface{}{c.Nome, c.UF, c.Total})
	}

	return &Document{
		Title:    AdminReportTitle,
		Subtitle: a.Period,
		Sections: []Section{
			{
				Heading:   "Resumo Geral",
				Highlight: true,
				Facts:     []Fact{{Label: "Total de Ordens de Serviço", Value: strconv.FormatInt(a.Total, 10)}},
				Table:     statuses,
			},
			{Heading: fmt.Sprintf("Top %d Técnicos", TopN), Table: techs},
			{Heading: fmt.Sprintf("Top %d Cidades", TopN), Table: cities},
		},
		GeneratedAt: now,
	}
}

// PerformanceDocument renders a technicians or cities performance table
func PerformanceDocument(t SummaryType, period string, table *Table, now time.Time) *Document {
	heading := "Desempenho por Técnico"
	if t == SummaryCities {
		heading = "Desempenho por Cidade"
	}
	return &Document{
		Title:       AdminReportTitle + " - " + heading,
		Subtitle:    period,
		Landscape:   true,
		Sections:    []Section{{Table: table}},
		GeneratedAt: now,
	}
}
