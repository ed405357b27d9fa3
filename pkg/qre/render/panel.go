package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/komsit37/qre/pkg/qre/types"
	"github.com/komsit37/qre/pkg/qre/view"
)

// PanelOptions controls RenderPanel.
type PanelOptions struct {
	// Companies are always listed in the E-Price and PE sections, even
	// without a value.
	Companies []string
	Color     bool
}

// RenderPanel prints the record editor as the panel currently shows it:
// control values, visible EPS years and companies, the capped report list
// and the visible sectors.
func RenderPanel(w io.Writer, p *view.Panel, opts PanelOptions) error {
	date, _ := p.Value(types.DatePath())
	fmt.Fprintln(w, bold("DATE "+date, opts.Color))
	r, ok := p.Document().Record(p.Record())
	if !ok {
		fmt.Fprintln(w, "no quote selected")
		return nil
	}
	name, _ := p.Value(types.NamePath(""))
	price, _ := p.Value(types.PricePath(""))
	fmt.Fprintln(w, bold(fmt.Sprintf("QUOTE %s  PRICE %s", name, price), opts.Color))

	for _, kind := range []types.SeriesKind{types.SeriesEPrice, types.SeriesPE} {
		series, _ := r.Series(kind)
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.ToUpper(strings.ReplaceAll(string(kind), "_", "-")))
		tw := newTable(w, opts.Color)
		tw.AppendHeader(table.Row{"COMPANY", "VALUE"})
		for _, c := range companyNames(opts.Companies, *series) {
			v, _ := p.Value(types.SeriesPath("", kind, c))
			tw.AppendRow(table.Row{c, v})
		}
		tw.Render()
	}

	years := p.VisibleYears()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "EPS (%d of %d years)\n", len(years), len(p.Years()))
	if len(years) > 0 {
		tw := newTable(w, opts.Color)
		hdr := table.Row{"COMPANY"}
		var companies []string
		for _, y := range years {
			hdr = append(hdr, y+" VALUE", y+" GROWTH")
			companies = appendMissing(companies, p.VisibleCompanies(y)...)
		}
		tw.AppendHeader(hdr)
		for _, c := range companies {
			row := table.Row{c}
			for _, y := range years {
				if !contains(p.VisibleCompanies(y), c) {
					row = append(row, "", "")
					continue
				}
				v, _ := p.Value(types.EPSPath("", y, c, types.FieldValue))
				g, _ := p.Value(types.EPSPath("", y, c, types.FieldGrowth))
				row = append(row, v, g)
			}
			tw.AppendRow(row)
		}
		tw.Render()
	}

	shown := p.Events()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "REPORTS (%d of %d)\n", len(shown), len(p.AllEvents()))
	if len(shown) > 0 {
		tw := newTable(w, opts.Color)
		tw.AppendHeader(table.Row{"#", "COMPANY", "DATE", "COLOR"})
		all := p.AllEvents()
		for _, e := range shown {
			i := eventIndex(all, e)
			company, _ := p.Value(types.EventPath("", i, types.FieldCompany))
			d, _ := p.Value(types.EventPath("", i, types.FieldDate))
			color, _ := p.Value(types.EventPath("", i, types.FieldColor))
			tw.AppendRow(table.Row{i, company, d, color})
		}
		tw.Render()
	}

	sectors := p.VisibleSectors()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "SECTORS (%d of %d)\n", len(sectors), len(r.Sectors))
	if len(sectors) > 0 {
		tw := newTable(w, opts.Color)
		tw.AppendHeader(table.Row{"SECTOR", "TYPE"})
		for _, s := range sectors {
			t, _ := p.Value(types.SectorPath("", s))
			tw.AppendRow(table.Row{s, t})
		}
		tw.Render()
	}
	return nil
}

func companyNames(fixed []string, entries []*types.ValueEntry) []string {
	out := appendMissing(nil, fixed...)
	for _, e := range entries {
		out = appendMissing(out, e.Name)
	}
	return out
}

func appendMissing(s []string, vs ...string) []string {
	for _, v := range vs {
		if !contains(s, v) {
			s = append(s, v)
		}
	}
	return s
}

func contains(s []string, v string) bool { return indexOf(s, v) >= 0 }

func eventIndex(all []*types.ReportEvent, e *types.ReportEvent) int {
	for i, x := range all {
		if x == e {
			return i
		}
	}
	return -1
}
