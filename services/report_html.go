package services

import (
	"fmt"
	"html/template"
	"io"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        @page { size: A4 {{if .Landscape}}landscape{{else}}portrait{{end}}; margin: 1cm; }
        body { font-family: Arial, sans-serif; margin: 20px; }
        h1 { color: #333366; font-size: 18px; text-align: center; margin-bottom: 10px; }
        h2 { color: #333366; font-size: 14px; margin-top: 20px; }
        p { margin: 5px 0; }
        .periodo { text-align: center; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th { background-color: #333366; color: white; padding: 8px; text-align: left; font-size: 12px; }
        td { padding: 8px; border-bottom: 1px solid #ddd; font-size: 11px; }
        tr:nth-child(even) { background-color: #f2f2f2; }
        .destaque { color: red; font-weight: bold; }
        .resumo { background-color: #f9f9f9; padding: 10px; border: 1px solid #ddd; margin-bottom: 20px; }
        .footer { margin-top: 20px; text-align: center; font-size: 10px; color: #666; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    {{- if .Subtitle}}
    <p class="periodo">{{.Subtitle}}</p>
    {{- end}}
    {{- range .Sections}}
    <div{{if .Highlight}} class="resumo"{{end}}>
        {{- if .Heading}}
        <h2>{{.Heading}}</h2>
        {{- end}}
        {{- range .Facts}}
        <p><strong>{{.Label}}:</strong> {{.Value}}</p>
        {{- end}}
        {{- with .Table}}
        <table>
            <tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
            {{- range .Rows}}
            <tr>{{range .}}<td{{if .Emph}} class="destaque"{{end}}>{{.Text}}</td>{{end}}</tr>
            {{- end}}
        </table>
        {{- end}}
    </div>
    {{- end}}
    <div class="footer">{{.Footer}}</div>
</body>
</html>
`))

type htmlCell struct {
	Text string
	Emph bool
}

type htmlTable struct {
	Headers []string
	Rows    [][]htmlCell
}

type htmlSection struct {
	Heading   string
	Highlight bool
	Facts     []Fact
	Table     *htmlTable
}

type htmlDocument struct {
	Title     string
	Subtitle  string
	Landscape bool
	Sections  []htmlSection
	Footer    string
}

// WriteHTML renders doc as a standalone HTML page styled for printing
func WriteHTML(w io.Writer, doc *Document) error {
	view := htmlDocument{
		Title:     doc.Title,
		Subtitle:  doc.Subtitle,
		Landscape: doc.Landscape,
		Footer:    doc.Footer(),
	}
	for _, s := range doc.Sections {
		section := htmlSection{Heading: s.Heading, Highlight: s.Highlight, Facts: s.Facts}
		if s.Table != nil {
			t := &htmlTable{Headers: s.Table.Headers}
			for _, row := range s.Table.Rows {
				cells := make([]htmlCell, len(row))
				for i, v := range row {
					cells[i] = htmlCell{Text: CellText(v), Emph: i+1 == s.Table.Emphasis}
				}
				t.Rows = append(t.Rows, cells)
			}
			section.Table = t
		}
		view.Sections = append(view.Sections, section)
	}

	if err := documentTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}
