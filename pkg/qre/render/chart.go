package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/komsit37/qre/pkg/qre/types"
)

// ChartOptions controls GrowthChart.
type ChartOptions struct {
	// Width is the bar length of the largest absolute growth.
	Width int
	// Companies restricts the chart to these companies when set.
	Companies []string
	Color     bool
}

// Growth is one parsed bar of the chart.
type Growth struct {
	Company string
	Value   decimal.Decimal
}

// ParseGrowth reads a growth cell such as "12.5%". Blank or unparsable
// values count as zero.
func ParseGrowth(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Growths returns the growth per company for year, in year order.
func Growths(r *types.Record, year string, only []string) []Growth {
	y := r.FindYear(year)
	if y == nil {
		return nil
	}
	var out []Growth
	for _, c := range y.Companies {
		if len(only) > 0 && !contains(only, c.Name) {
			continue
		}
		out = append(out, Growth{Company: c.Name, Value: ParseGrowth(c.Growth)})
	}
	return out
}

// ChartTitle names the chart the way it is shown above the bars.
func ChartTitle(year string, bars []Growth) string {
	switch {
	case year == "":
		return "Select a year to view EPS Growth"
	case len(bars) == 0:
		return "No growth data available for EPS " + year
	}
	for _, b := range bars {
		if !b.Value.IsZero() {
			return "EPS Growth (%) for " + year
		}
	}
	return "No numerical growth data for EPS " + year
}

// GrowthChart draws one horizontal bar per company: positive growth in
// green to the right of the axis, negative in red to the left.
func GrowthChart(w io.Writer, r *types.Record, year string, opts ChartOptions) error {
	width := opts.Width
	if width <= 0 {
		width = 20
	}
	var bars []Growth
	if r != nil {
		bars = Growths(r, year, opts.Companies)
	}
	fmt.Fprintln(w, bold(ChartTitle(year, bars), opts.Color))
	if len(bars) == 0 {
		return nil
	}

	peak := decimal.Zero
	label := 0
	for _, b := range bars {
		if a := b.Value.Abs(); a.GreaterThan(peak) {
			peak = a
		}
		if len(b.Company) > label {
			label = len(b.Company)
		}
	}
	for _, b := range bars {
		n := 0
		if !peak.IsZero() {
			n = int(b.Value.Abs().Div(peak).Mul(decimal.NewFromInt(int64(width))).Round(0).IntPart())
		}
		left := strings.Repeat(" ", width)
		right := ""
		bar := strings.Repeat("█", n)
		switch b.Value.Sign() {
		case 1:
			if opts.Color {
				bar = text.Colors{text.FgGreen}.Sprint(bar)
			}
			right = bar
		case -1:
			if opts.Color {
				bar = text.Colors{text.FgRed}.Sprint(bar)
			}
			left = strings.Repeat(" ", width-n) + bar
		}
		fmt.Fprintf(w, "%-*s %s|%s %s%%\n", label, b.Company, left, right, b.Value.String())
	}
	return nil
}
