package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *Table {
	return &Table{
		Name:    "Desempenho Técnicos",
		Headers: []string{"Nome", "Total OS", "Taxa Conclusão (%)"},
		Rows: [][]interface{}{
			{"Ana; Silva", int64(3), 66.666},
			{"Beto", int64(0), 0.0},
		},
	}
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", CellText(nil))
	assert.Equal(t, "abc", CellText("abc"))
	assert.Equal(t, "66.67", CellText(66.666))
	assert.Equal(t, "0.00", CellText(0.0))
	assert.Equal(t, "42", CellText(int64(42)))
	assert.Equal(t, "7", CellText(7))
	assert.Equal(t, "true", CellText(true))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "CSV starts with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "\ufeff"), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nome;Total OS;Taxa Conclusão (%)", lines[0])
	assert.Equal(t, `"Ana; Silva";3;66.67`, lines[1], "fields containing the delimiter are quoted")
	assert.Equal(t, "Beto;0;0.00", lines[2])
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	table := &Table{Headers: []string{"Número OS", "Status"}}
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "\ufeffNúmero OS;Status\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Desempenho Técnicos"}, f.GetSheetList())
	rows, err := f.GetRows("Desempenho Técnicos")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nome", "Total OS", "Taxa Conclusão (%)"}, rows[0])
	assert.Equal(t, "Ana; Silva", rows[1][0])
	assert.Equal(t, "3", rows[1][1])
}

func TestWriteHTML(t *testing.T) {
	report := &PendingOrdersReport{
		Title: "Relatório de Ordens de Serviço Pendentes",
		Rows: []PendingOrderRow{{
			NumeroOS:       "OS-1",
			Cliente:        "Maria <Souza>",
			Contato:        "(84) 99999-1111",
			Endereco:       "Rua A, Centro, Natal-RN",
			Referencia:     NoReferencePlaceholder,
			Tecnico:        "Ana",
			DataVencimento: "05/06/2024",
			Status:         "PENDENTE",
		}},
	}
	doc := report.Document(time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, doc))
	out := buf.String()

	assert.Contains(t, out, "<h1>Relatório de Ordens de Serviço Pendentes</h1>")
	assert.Contains(t, out, "A4 landscape")
	assert.Contains(t, out, "<th>Vencimento</th>")
	assert.Contains(t, out, `<td class="destaque">05/06/2024</td>`, "due date column is emphasised")
	assert.Contains(t, out, "Maria &lt;Souza&gt;", "cell text is escaped")
	assert.Contains(t, out, "Relatório gerado em 01/06/2024 14:30:00")
}

func TestWritePDF(t *testing.T) {
	rows := make([][]interface{}, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, []interface{}{"Técnico com um nome bastante comprido para quebrar a linha", int64(i), 12.5})
	}
	doc := PerformanceDocument(SummaryTechnicians, "Período: 01/01/2024 a 31/01/2024",
		&Table{Headers: []string{"Nome", "Total OS", "Taxa Conclusão (%)"}, Rows: rows, Widths: []float64{1, 3, 3}},
		time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	// one "/Type /Page" per page plus the "/Type /Pages" root
	assert.Greater(t, bytes.Count(out, []byte("<</Type /Page")), 2, "long tables span several pages")
}

func TestWritePDFEmptyTable(t *testing.T) {
	doc := (&PendingOrdersReport{Title: "Relatório de Ordens de Serviço Pendentes"}).Document(time.Now())

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, doc))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
