package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"github.com/imgajeed76/pgaccess/internal/ui"
	"github.com/imgajeed76/pgaccess/internal/ui/styles"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// Fixed texts shown in place of rows.
const (
	NoResults        = "No results."
	ErrorLoadingData = "Error loading data"
)

// RenderText renders g as a plain table followed by the page footer.
// While loading it shows one placeholder row per page slot; on error the
// table is replaced by an error panel.
func RenderText(g view.Grid, opts DisplayOptions) string {
	if g.Status() == view.StatusError {
		return ErrorPanel(g.Err)
	}

	t := pretty.NewWriter()
	style := pretty.StyleLight
	style.Format.Header = text.FormatDefault
	style.Options.DrawBorder = false
	style.Options.SeparateColumns = true
	t.SetStyle(style)
	if opts.Title != "" {
		t.SetTitle(opts.Title)
	}

	width := len(g.Headers)
	header := HeaderCells(g)
	if opts.ShowIDs {
		width++
		header = append([]string{"ID"}, header...)
	}
	t.AppendHeader(toRow(header))

	switch g.Status() {
	case view.StatusLoading:
		for range skeletonRows(g) {
			cells := make([]string, width)
			for i := range cells {
				cells[i] = ui.Skeleton(4)
			}
			t.AppendRow(toRow(cells))
		}
	case view.StatusEmpty:
		cells := make([]string, width)
		for i := range cells {
			cells[i] = NoResults
		}
		t.AppendRow(toRow(cells), pretty.RowConfig{AutoMerge: true})
	default:
		for i, row := range g.Cells {
			if opts.ShowIDs {
				row = append([]string{styles.ID(rowKey(g, i), false)}, row...)
			}
			t.AppendRow(toRow(row))
		}
	}

	return t.Render() + "\n\n" + Footer(g)
}

// HeaderCells returns each header with its sort indicator.
func HeaderCells(g view.Grid) []string {
	out := make([]string, len(g.Headers))
	for i, h := range g.Headers {
		if ind := g.Indicators[i]; ind != "" {
			h = strings.TrimSpace(h + " " + ind)
		}
		out[i] = h
	}
	return out
}

// ErrorPanel replaces the table body when a fetch failed.
func ErrorPanel(err error) string {
	body := ErrorLoadingData
	if err != nil {
		body += "\n" + err.Error()
	}
	return styles.Render(styles.AlertStyle, body)
}

// Footer is the "Page i of n" line with Previous and Next affordances.
// Without colors a disabled affordance is left blank.
func Footer(g view.Grid) string {
	return fmt.Sprintf("Page %d of %d  %s  %s",
		max(1, g.Page), max(1, g.TotalPages),
		affordance("< Previous", g.CanPreviousPage),
		affordance("Next >", g.CanNextPage))
}

func affordance(label string, enabled bool) string {
	switch {
	case enabled:
		return styles.Render(styles.HelpKey, label)
	case styles.NoColor():
		return strings.Repeat(" ", runewidth.StringWidth(label))
	default:
		return styles.Mute(label)
	}
}

func skeletonRows(g view.Grid) int {
	if g.PageSize < 1 {
		return view.DefaultPageSize
	}
	return g.PageSize
}

func toRow(cells []string) pretty.Row {
	row := make(pretty.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

type jsonPage struct {
	Title      string              `json:"title,omitempty"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	Query      string              `json:"query,omitempty"`
	Rows       []map[string]string `json:"rows"`
}

// PrintJSON outputs the visible page of g as a JSON object keyed by column
// id, plus "id" when the grid carries row keys. Action columns are left out.
func PrintJSON(w io.Writer, g view.Grid, title string) error {
	if g.Err != nil {
		return g.Err
	}
	cols := g.DataColumns()
	rows := make([]map[string]string, len(g.Cells))
	for i, row := range g.Cells {
		obj := make(map[string]string, len(cols)+1)
		if i < len(g.Keys) {
			obj["id"] = g.Keys[i]
		}
		for _, c := range cols {
			obj[g.IDs[c]] = row[c]
		}
		rows[i] = obj
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonPage{
		Title:      title,
		Page:       max(1, g.Page),
		TotalPages: g.TotalPages,
		Query:      g.Query,
		Rows:       rows,
	})
}

// PadOrTruncate pads or truncates s to exactly width terminal cells.
func PadOrTruncate(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
