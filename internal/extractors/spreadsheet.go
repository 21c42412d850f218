package extractors

import (
	"bytes"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetExtractor renders each sheet as a "Sheet: <name>" header
// followed by a column-aligned table of its rows.
type SpreadsheetExtractor struct{}

func (e *SpreadsheetExtractor) Extract(content []byte, _ string) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	defer f.Close()

	var parts []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", err
		}
		parts = append(parts, "Sheet: "+sheet)
		if table := renderTable(rows); table != "" {
			parts = append(parts, table)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

func (e *SpreadsheetExtractor) Name() string {
	return "xlsx"
}

// renderTable aligns rows into space-padded columns.
func renderTable(rows [][]string) string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return ""
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		cells := make([]string, width)
		for i, v := range row {
			cells[i] = strings.NewReplacer("\t", " ", "\n", " ").Replace(v)
		}
		tw.Write([]byte(strings.Join(cells, "\t") + "\n"))
	}
	tw.Flush()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
