package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type TableRenderer struct{}

func NewTableRenderer() *TableRenderer { return &TableRenderer{} }

func (r *TableRenderer) Render(w io.Writer, ov Overview, opts RenderOptions) error {
	if strings.TrimSpace(ov.Date) != "" {
		fmt.Fprintln(w, bold("DATE "+ov.Date, opts.Color))
	}

	tw := newTable(w, opts.Color)
	hdr := make(table.Row, len(ov.Columns))
	for i, c := range ov.Columns {
		hdr[i] = strings.ToUpper(c)
	}
	tw.AppendHeader(hdr)

	// wrap text to MaxColWidth (default 40), no truncation
	maxWidth := opts.MaxColWidth
	if maxWidth <= 0 {
		maxWidth = 40
	}
	cfgs := make([]table.ColumnConfig, 0, len(ov.Columns))
	for i, c := range ov.Columns {
		cfg := table.ColumnConfig{Number: i + 1, WidthMax: maxWidth}
		switch c {
		case "price", "live", "chg%", "e_price", "pe", "reports":
			cfg.Align = text.AlignRight
			cfg.AlignHeader = text.AlignRight
		}
		cfgs = append(cfgs, cfg)
	}
	if len(cfgs) > 0 {
		tw.SetColumnConfigs(cfgs)
	}

	chg := indexOf(ov.Columns, "chg%")
	for _, cells := range ov.Rows {
		row := make(table.Row, len(ov.Columns))
		for i := range ov.Columns {
			if i < len(cells) {
				row[i] = cells[i]
			}
		}
		if opts.Color && chg >= 0 && chg < len(cells) {
			if c := signColor(cells[chg]); c != nil {
				for i, col := range ov.Columns {
					if col == "live" || col == "chg%" {
						row[i] = c.Sprint(row[i])
					}
				}
			}
		}
		tw.AppendRow(row)
	}
	tw.Render()
	return nil
}

func newTable(w io.Writer, color bool) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if color {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func bold(s string, color bool) string {
	if !color {
		return s
	}
	return text.Bold.Sprint(s)
}

// signColor picks green for positive and red for negative numbers, nil otherwise.
func signColor(v string) text.Colors {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasPrefix(v, "-"):
		return text.Colors{text.FgRed}
	case v != "" && strings.Trim(v, "0.%+") != "":
		return text.Colors{text.FgGreen}
	}
	return nil
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}
