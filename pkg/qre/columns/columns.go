package columns

import (
	"context"
	"fmt"
	"strings"

	"github.com/komsit37/qre/pkg/qre/enrich"
	"github.com/komsit37/qre/pkg/qre/types"
)

// Services provides access to external services for resolvers.
type Services struct {
	Quotes enrich.QuoteService
	// Companies is the fixed company order used by per-company columns.
	Companies []string
}

// Resolver converts a record into a string value for a given column.
type Resolver func(ctx context.Context, r *types.Record, s Services) (string, error)

// Registry maps column keys to resolvers.
var Registry = map[string]Resolver{}

// DefaultColumns is the overview layout when none is requested.
var DefaultColumns = []string{"name", "price", "e_price", "pe", "eps", "report", "sector"}

func init() {
	Registry["name"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		return r.Name, nil
	}
	Registry["price"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		return r.Price, nil
	}
	// live: market price from the quote service; blank when unavailable
	Registry["live"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		if s.Quotes == nil {
			return "", nil
		}
		q, err := s.Quotes.Get(ctx, r.Name)
		if err != nil {
			return "", nil
		}
		return q.Price, nil
	}
	Registry["chg%"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		if s.Quotes == nil {
			return "", nil
		}
		q, err := s.Quotes.Get(ctx, r.Name)
		if err != nil {
			return "", nil
		}
		return q.ChgFmt, nil
	}
	// e_price / pe: first company with a value, in fixed company order
	Registry["e_price"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		return firstValue(r.EPrice, s.Companies), nil
	}
	Registry["pe"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		return firstValue(r.PE, s.Companies), nil
	}
	// eps: latest year's first non-empty value as "YEAR: value (growth)"
	Registry["eps"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		if len(r.EPS) == 0 {
			return "", nil
		}
		y := r.EPS[len(r.EPS)-1]
		for _, c := range y.Companies {
			if c.Value == "" {
				continue
			}
			if c.Growth != "" {
				return fmt.Sprintf("%s: %s (%s)", y.Name, c.Value, c.Growth), nil
			}
			return fmt.Sprintf("%s: %s", y.Name, c.Value), nil
		}
		return y.Name, nil
	}
	Registry["years"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		names := make([]string, 0, len(r.EPS))
		for _, y := range r.EPS {
			names = append(names, y.Name)
		}
		return strings.Join(names, ","), nil
	}
	// report: most recent report event as "COMPANY DATE"
	Registry["report"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		ev := types.EventsRecentFirst(r.Events)
		if len(ev) == 0 {
			return "", nil
		}
		return ev[0].Company + " " + ev[0].Date, nil
	}
	Registry["reports"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		return fmt.Sprint(len(r.Events)), nil
	}
	// sector: main sectors, or every sector when none is main
	Registry["sector"] = func(ctx context.Context, r *types.Record, s Services) (string, error) {
		var main, all []string
		for _, t := range r.Sectors {
			all = append(all, t.Name)
			if t.Type == types.SectorMain {
				main = append(main, t.Name)
			}
		}
		if len(main) > 0 {
			return strings.Join(main, ","), nil
		}
		return strings.Join(all, ","), nil
	}
}

// Compute determines final column order: explicit columns as given with
// duplicates dropped, or DefaultColumns.
func Compute(explicit []string) []string {
	if len(explicit) == 0 {
		return append([]string(nil), DefaultColumns...)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(explicit))
	for _, k := range explicit {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// NeedsQuotes reports whether any column resolves through the quote service.
func NeedsQuotes(cols []string) bool {
	for _, c := range cols {
		if c == "live" || c == "chg%" {
			return true
		}
	}
	return false
}

// RenderValue calls the resolver for the given column. Per-company columns
// are written "e_price:COMPANY", "pe:COMPANY" and "eps:YEAR:COMPANY".
func RenderValue(ctx context.Context, col string, r *types.Record, s Services) (string, error) {
	if res, ok := Registry[col]; ok {
		return res(ctx, r, s)
	}
	parts := strings.Split(col, ":")
	switch {
	case len(parts) == 2 && parts[0] == string(types.SeriesEPrice):
		if e := types.FindValue(r.EPrice, parts[1]); e != nil {
			return e.Value, nil
		}
		return "", nil
	case len(parts) == 2 && parts[0] == string(types.SeriesPE):
		if e := types.FindValue(r.PE, parts[1]); e != nil {
			return e.Value, nil
		}
		return "", nil
	case len(parts) == 3 && parts[0] == "eps":
		if y := r.FindYear(parts[1]); y != nil {
			if c := y.FindCompany(parts[2]); c != nil {
				return c.Value, nil
			}
		}
		return "", nil
	}
	return "", fmt.Errorf("unknown column %q", col)
}

func firstValue(entries []*types.ValueEntry, order []string) string {
	for _, name := range order {
		if e := types.FindValue(entries, name); e != nil && e.Value != "" {
			return e.Value
		}
	}
	for _, e := range entries {
		if e.Value != "" {
			return e.Value
		}
	}
	return ""
}
