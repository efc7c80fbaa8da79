package extract

import (
	"testing"
)

func TestTables_SingleRow(t *testing.T) {
	html := `<html><body><table><tr><td>Row1</td><td>Row2</td></tr></table></body></html>`
	tables, err := Tables([]byte(html))
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if got := FormatTables(tables); got != "Row1 | Row2" {
		t.Fatalf("FormatTables=%q, want %q", got, "Row1 | Row2")
	}
}

func TestTables_HeaderCaptionAndWhitespace(t *testing.T) {
	html := `<table>
      <caption> Quarterly   results </caption>
      <thead><tr><th>Quarter</th><th>Revenue</th></tr></thead>
      <tbody>
        <tr><td>Q1</td><td>
            10
        </td></tr>
        <tr><td></td><td>  </td></tr>
        <tr><td>Q2</td><td></td></tr>
      </tbody>
    </table>`
	tables, err := Tables([]byte(html))
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	want := "Quarterly results\nQuarter | Revenue\nQ1 | 10\nQ2 | "
	if got := FormatTables(tables); got != want {
		t.Fatalf("FormatTables=%q, want %q", got, want)
	}
}

func TestTables_MultipleTablesAndNesting(t *testing.T) {
	html := `<body>
      <table><tr><td>a</td><td><table><tr><td>inner</td></tr></table></td></tr></table>
      <p>between</p>
      <table><tr><td>b</td></tr></table>
    </body>`
	tables, err := Tables([]byte(html))
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 top-level tables, got %d: %+v", len(tables), tables)
	}
	if got := FormatTables(tables); got != "a | inner\n\nb" {
		t.Fatalf("FormatTables=%q", got)
	}
}

func TestTables_SkipsLayoutAndEmpty(t *testing.T) {
	cases := map[string]string{
		"no tables":    `<html><body><p>The quick brown fox</p></body></html>`,
		"layout":       `<table role="presentation"><tr><td>layout</td></tr></table>`,
		"empty rows":   `<table><tr><td> </td></tr><tr></tr></table>`,
		"no rows":      `<table></table>`,
		"role none":    `<table role="NONE"><tr><td>x</td></tr></table>`,
		"empty source": ``,
	}
	for name, html := range cases {
		t.Run(name, func(t *testing.T) {
			tables, err := Tables([]byte(html))
			if err != nil {
				t.Fatalf("Tables: %v", err)
			}
			if len(tables) != 0 || FormatTables(tables) != "" {
				t.Fatalf("expected no tables, got %+v", tables)
			}
		})
	}
}
