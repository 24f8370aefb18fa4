package output

import (
	"io"
	"strings"
	"text/tabwriter"
)

// Table is a column-aligned report, such as the bench summary. The raw
// formatter renders it; JSON and YAML output use the report struct
// instead.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with the given header row.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row. Rows shorter than the header are padded with "-".
func (t *Table) AddRow(cells ...string) {
	for len(cells) < len(t.Headers) {
		cells = append(cells, "-")
	}
	t.Rows = append(t.Rows, cells)
}

// Render writes the header row, if any, then every row, with columns
// separated by at least two spaces.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if len(t.Headers) > 0 {
		if err := writeCells(tw, t.Headers); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := writeCells(tw, row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeCells(w io.Writer, cells []string) error {
	_, err := io.WriteString(w, strings.Join(cells, "\t")+"\n")
	return err
}
