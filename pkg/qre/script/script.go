// Package script drives an editor from a line-oriented edit script. Each
// line is one input event: a control edit, a structural change, a display
// selection, or an undo/redo request.
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/komsit37/qre/pkg/qre/command"
	"github.com/komsit37/qre/pkg/qre/editor"
	"github.com/komsit37/qre/pkg/qre/enrich"
	"github.com/komsit37/qre/pkg/qre/filter"
	"github.com/komsit37/qre/pkg/qre/render"
	"github.com/komsit37/qre/pkg/qre/source"
	"github.com/komsit37/qre/pkg/qre/types"
)

// ListFunc prints an overview of the quotes named keys.
type ListFunc func(ctx context.Context, w io.Writer, keys []string) error

// Interpreter runs script lines against an Editor.
type Interpreter struct {
	Editor *editor.Editor
	Out    io.Writer
	Quotes enrich.QuoteService
	Source source.Source
	Sink   source.Sink
	// Path is where save writes when no path is given.
	Path  string
	List  ListFunc
	Color bool
	// Strict stops at the first failing line.
	Strict bool

	handlers map[string]handler
}

type handler struct {
	usage string
	min   int
	run   func(ctx context.Context, in *Interpreter, args []string) error
}

// ErrUsage marks a line with the wrong arguments or an unknown command.
var ErrUsage = errors.New("usage")

func New(ed *editor.Editor, out io.Writer) *Interpreter {
	in := &Interpreter{Editor: ed, Out: out}
	in.handlers = commands()
	return in
}

// Run executes every line of r. Failing lines are printed and skipped,
// unless Strict is set. The returned error counts failures.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	failed := 0
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := in.Exec(ctx, sc.Text())
		in.flushNotices()
		if err == nil {
			continue
		}
		if in.Strict {
			return fmt.Errorf("line %d: %w", n, err)
		}
		failed++
		fmt.Fprintf(in.Out, "line %d: error: %v\n", n, err)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d script line(s) failed", failed)
	}
	return nil
}

// Exec runs one line. Blank lines and lines starting with # are ignored.
func (in *Interpreter) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := Split(line)
	if err != nil {
		return err
	}
	name := strings.ToLower(args[0])
	h, ok := in.handlers[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if len(args)-1 < h.min {
		return fmt.Errorf("%w: %s %s", ErrUsage, name, h.usage)
	}
	glog.V(1).Infof("[script] %s", line)
	return h.run(ctx, in, args[1:])
}

func (in *Interpreter) flushNotices() {
	for _, n := range in.Editor.Notices() {
		fmt.Fprintf(in.Out, "warning: %v\n", n)
	}
}

// Usage lists every command with its arguments.
func (in *Interpreter) Usage() []string {
	names := make([]string, 0, len(in.handlers))
	for n := range in.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.TrimSpace(n+" "+in.handlers[n].usage))
	}
	return out
}

func commands() map[string]handler {
	return map[string]handler{
		"date": {usage: "MM/DD/YYYY", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.Edit(types.DatePath(), a[0])
		}},
		"set": {usage: "PATH VALUE", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			p, err := in.resolve(a[0])
			if err != nil {
				return err
			}
			if p.Section != types.SectionDate && p.Record != in.Editor.Selected() {
				if err := in.Editor.Select(p.Record); err != nil {
					return err
				}
			}
			return in.Editor.Edit(p, strings.Join(a[1:], " "))
		}},
		"select": {usage: "QUOTE", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.Select(a[0])
		}},
		"add": {usage: "QUOTE", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.AddRecord(a[0])
		}},
		"remove": {usage: "QUOTE", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.RemoveRecord(a[0])
		}},
		"rename": {usage: "OLD NEW", min: 2, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.RenameRecord(a[0], a[1])
		}},
		"add-year": {usage: "YEAR", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.AddYear(a[0])
		}},
		"remove-year": {usage: "YEAR", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.RemoveYear(a[0])
		}},
		"add-event": {usage: "[COMPANY [DATE [COLOR]]]", run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.AddEvent(arg(a, 0), arg(a, 1), arg(a, 2))
		}},
		"remove-event": {usage: "INDEX", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			i, err := strconv.Atoi(a[0])
			if err != nil {
				return fmt.Errorf("%w: event index %q", ErrUsage, a[0])
			}
			return in.Editor.RemoveEvent(i)
		}},
		"years": {usage: "FILTER", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			names, err := in.yearNames()
			if err != nil {
				return err
			}
			sel, err := filter.Expand(strings.Join(a, " "), names)
			if err != nil {
				return err
			}
			return in.Editor.SelectYears(sel)
		}},
		"companies": {usage: "YEAR FILTER", min: 2, run: func(_ context.Context, in *Interpreter, a []string) error {
			r, ok := in.Editor.Document().Record(in.Editor.Selected())
			if !ok || r.FindYear(a[0]) == nil {
				return in.Editor.SelectCompanies(a[0], nil)
			}
			var names []string
			for _, c := range r.FindYear(a[0]).Companies {
				names = append(names, c.Name)
			}
			sel, err := filter.Expand(strings.Join(a[1:], " "), names)
			if err != nil {
				return err
			}
			return in.Editor.SelectCompanies(a[0], sel)
		}},
		"sectors": {usage: "FILTER", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			r, ok := in.Editor.Document().Record(in.Editor.Selected())
			if !ok {
				return in.Editor.SelectSectors(nil)
			}
			var names []string
			for _, s := range r.Sectors {
				names = append(names, s.Name)
			}
			sel, err := filter.Expand(strings.Join(a, " "), names)
			if err != nil {
				return err
			}
			return in.Editor.SelectSectors(sel)
		}},
		"add-sector": {usage: "NAME [main|sub]", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.AddSector(a[0], arg(a, 1))
		}},
		"remove-sector": {usage: "NAME", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.RemoveSector(a[0])
		}},
		"companies-list": {usage: "COMPANY[,COMPANY...]", min: 1, run: func(_ context.Context, in *Interpreter, a []string) error {
			return in.Editor.SetCompanies(strings.Split(strings.Join(a, ","), ","))
		}},
		"undo": {usage: "[N]", run: func(_ context.Context, in *Interpreter, a []string) error {
			return repeat(a, func() command.Command { return in.Editor.Undo() })
		}},
		"redo": {usage: "[N]", run: func(_ context.Context, in *Interpreter, a []string) error {
			return repeat(a, func() command.Command { return in.Editor.Redo() })
		}},
		"fetch": {usage: "[QUOTE]", run: fetch},
		"show": {run: func(_ context.Context, in *Interpreter, _ []string) error {
			return render.RenderPanel(in.Out, in.Editor.Panel(), render.PanelOptions{Companies: in.Editor.Companies(), Color: in.Color})
		}},
		"chart": {usage: "[YEAR]", run: func(_ context.Context, in *Interpreter, a []string) error {
			r, _ := in.Editor.Document().Record(in.Editor.Selected())
			year := arg(a, 0)
			if year == "" {
				if vis := in.Editor.Panel().VisibleYears(); len(vis) > 0 {
					year = vis[len(vis)-1]
				}
			}
			return render.GrowthChart(in.Out, r, year, render.ChartOptions{Companies: in.Editor.Panel().VisibleCompanies(year), Color: in.Color})
		}},
		"list": {usage: "[FILTER] [sector:FILTER]", run: func(ctx context.Context, in *Interpreter, a []string) error {
			var names []string
			var sector filter.Filter
			for _, w := range a {
				expr, ok := strings.CutPrefix(w, "sector:")
				if !ok {
					names = append(names, w)
					continue
				}
				f, err := filter.Parse(expr)
				if err != nil {
					return err
				}
				sector = f
			}
			doc := in.Editor.Document()
			keys, err := filter.Expand(strings.Join(names, " "), doc.Keys())
			if err != nil {
				return err
			}
			if sector != nil {
				keys = filter.WithSector(sector, doc, keys)
			}
			if in.List == nil {
				_, err := fmt.Fprintln(in.Out, strings.Join(keys, ","))
				return err
			}
			return in.List(ctx, in.Out, keys)
		}},
		"history": {run: func(_ context.Context, in *Interpreter, _ []string) error {
			for _, e := range in.Editor.Log().Entries() {
				fmt.Fprintf(in.Out, "%s %s\n", e.ID, e.Message)
			}
			return nil
		}},
		"status": {run: func(_ context.Context, in *Interpreter, _ []string) error {
			ed := in.Editor
			_, err := fmt.Fprintf(in.Out, "quote=%s dirty=%t undo=%t redo=%t\n", ed.Selected(), ed.Dirty(), ed.CanUndo(), ed.CanRedo())
			return err
		}},
		"save": {usage: "[PATH]", run: save},
		"load": {usage: "PATH", min: 1, run: func(ctx context.Context, in *Interpreter, a []string) error {
			if in.Source == nil {
				return errors.New("no source configured")
			}
			doc, err := in.Source.Load(ctx, a[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", a[0], err)
			}
			in.Editor.Load(doc)
			in.Path = a[0]
			return nil
		}},
	}
}

// resolve parses a path, treating paths without a quote as relative to the
// displayed one: "price" means "<selected>.price".
func (in *Interpreter) resolve(s string) (types.Path, error) {
	if p, err := types.ParsePath(s); err == nil {
		return p, nil
	}
	return types.ParsePath(in.Editor.Selected() + "." + s)
}

func (in *Interpreter) yearNames() ([]string, error) {
	r, ok := in.Editor.Document().Record(in.Editor.Selected())
	if !ok {
		return nil, &command.ValidationError{Path: types.ListPath("", types.SectionEPS), Reason: "no quote is displayed"}
	}
	names := make([]string, 0, len(r.EPS))
	for _, y := range r.EPS {
		names = append(names, y.Name)
	}
	return names, nil
}

// fetch writes the live market price into the price field, as one undoable edit.
func fetch(ctx context.Context, in *Interpreter, a []string) error {
	if in.Quotes == nil {
		return errors.New("no quote service configured")
	}
	key := arg(a, 0)
	if key == "" {
		key = in.Editor.Selected()
	} else if err := in.Editor.Select(key); err != nil {
		return err
	}
	q, err := in.Quotes.Get(ctx, key)
	if err != nil {
		return err
	}
	if q.Price == "" {
		return fmt.Errorf("no price for %s", key)
	}
	return in.Editor.Edit(types.PricePath(key), q.Price)
}

func save(ctx context.Context, in *Interpreter, a []string) error {
	if in.Sink == nil {
		return errors.New("no sink configured")
	}
	path := arg(a, 0)
	if path == "" {
		path = in.Path
	}
	if path == "" {
		return fmt.Errorf("%w: save PATH", ErrUsage)
	}
	if err := in.Sink.Save(ctx, in.Editor.Document(), path); err != nil {
		return err
	}
	in.Editor.MarkSaved(false)
	in.Path = path
	return nil
}

func repeat(a []string, step func() command.Command) error {
	n := 1
	if s := arg(a, 0); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return fmt.Errorf("%w: count %q", ErrUsage, s)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if step() == nil {
			break
		}
	}
	return nil
}

func arg(a []string, i int) string {
	if i < len(a) {
		return a[i]
	}
	return ""
}
