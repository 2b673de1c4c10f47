// Package table renders a view.Grid. It supports an interactive browser
// (search, sort, paging, row actions), plain text tables, JSON output and
// raw tab-separated output.
//
// The accounts and roles commands both go through DisplayResults; the
// browse command runs Browse directly.
package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/imgajeed76/pgaccess/internal/view"
)

// DisplayOptions controls how a grid is rendered.
type DisplayOptions struct {
	// Title is printed above plain tables and included in JSON output.
	Title string
	// JSON outputs the visible page as a JSON object.
	JSON bool
	// Raw outputs rows as tab-separated values (for piping).
	Raw bool
	// ShowIDs adds a leading column with each row's entity id.
	ShowIDs bool
}

// DisplayResults writes g to w in the mode picked by opts.
func DisplayResults(w io.Writer, g view.Grid, opts DisplayOptions) error {
	switch {
	case opts.Raw:
		return PrintRaw(w, g, opts.ShowIDs)
	case opts.JSON:
		return PrintJSON(w, g, opts.Title)
	default:
		_, err := fmt.Fprintln(w, RenderText(g, opts))
		return err
	}
}

// PrintRaw writes the data cells of every visible row, tab separated. A
// grid that failed to load writes nothing and returns its error.
func PrintRaw(w io.Writer, g view.Grid, ids bool) error {
	if g.Err != nil {
		return g.Err
	}
	cols := g.DataColumns()
	for i, row := range g.Cells {
		vals := make([]string, 0, len(cols)+1)
		if ids {
			vals = append(vals, rowKey(g, i))
		}
		for _, c := range cols {
			vals = append(vals, row[c])
		}
		if _, err := fmt.Fprintln(w, strings.Join(vals, "\t")); err != nil {
			return err
		}
	}
	return nil
}

func rowKey(g view.Grid, i int) string {
	if i < len(g.Keys) {
		return g.Keys[i]
	}
	return ""
}
