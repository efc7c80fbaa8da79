package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CellSeparator joins cells of one table row in FormatTables output.
const CellSeparator = " | "

// Table is the text content of one HTML table.
type Table struct {
	Caption string
	Rows    [][]string
}

// Tables returns every top-level data table in the document. Tables nested
// inside another table contribute to the text of the enclosing cell. Layout tables
// (role="presentation" or role="none") and tables whose rows are all empty
// are dropped.
func Tables(input []byte) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var tables []Table
	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("table").Length() > 0 || isLayoutTable(s) {
			return
		}
		t := Table{Caption: cleanText(s.ChildrenFiltered("caption").First().Text())}
		ownRows := s.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
			return tr.Closest("table").IsSelection(s)
		})
		ownRows.Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			nonEmpty := false
			tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
				text := cleanText(cell.Text())
				if text != "" {
					nonEmpty = true
				}
				cells = append(cells, text)
			})
			if nonEmpty {
				t.Rows = append(t.Rows, cells)
			}
		})
		if len(t.Rows) > 0 {
			tables = append(tables, t)
		}
	})
	return tables, nil
}

// FormatTables serializes tables as text: an optional caption line, then one
// line per row with cells joined by CellSeparator. Tables are separated by a
// blank line.
func FormatTables(tables []Table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if t.Caption != "" {
			b.WriteString(t.Caption)
			b.WriteString("\n")
		}
		for j, row := range t.Rows {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString(strings.Join(row, CellSeparator))
		}
	}
	return b.String()
}

func isLayoutTable(s *goquery.Selection) bool {
	role, _ := s.Attr("role")
	role = strings.ToLower(strings.TrimSpace(role))
	return role == "presentation" || role == "none"
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
