package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/komsit37/qre/pkg/qre/columns"
	"github.com/komsit37/qre/pkg/qre/editor"
	"github.com/komsit37/qre/pkg/qre/enrich"
	"github.com/komsit37/qre/pkg/qre/filter"
	"github.com/komsit37/qre/pkg/qre/render"
	"github.com/komsit37/qre/pkg/qre/script"
	"github.com/komsit37/qre/pkg/qre/source"
	"github.com/komsit37/qre/pkg/qre/types"
)

type Runner struct {
	Source   source.Source
	Sink     source.Sink
	Renderer render.Renderer
	Quotes   enrich.QuoteService
	Writer   io.Writer
}

type ExecuteOptions struct {
	Columns     []string
	Filter      filter.Filter
	// Sector, when set, keeps only quotes tagged with a matching sector.
	Sector      filter.Filter
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
	Companies   []string
	MaxEvents   int
	// Script, when set, is run against the loaded document before rendering.
	Script io.Reader
	Strict bool
	// Save writes the document back to Output (or the loaded spec) when dirty.
	Save   bool
	Output string
	// Quiet skips the final overview.
	Quiet bool
	Now   func() time.Time
}

// Execute loads spec, applies the script, renders the overview and saves.
// An empty spec starts from a new document dated with the working date.
func (r *Runner) Execute(ctx context.Context, spec string, opts ExecuteOptions) error {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var doc *types.Document
	if spec != "" {
		d, err := r.Source.Load(ctx, spec)
		if err != nil {
			return fmt.Errorf("load %s: %w", spec, err)
		}
		doc = d
	} else {
		doc = types.NewDocument(types.DefaultWorkingDate(now()))
	}

	ed := editor.New(doc, editor.Options{Companies: opts.Companies, MaxEvents: opts.MaxEvents, Now: now})
	cols := columns.Compute(opts.Columns)
	svc := columns.Services{Companies: opts.Companies}
	if columns.NeedsQuotes(cols) {
		svc.Quotes = r.Quotes
	}
	ropts := render.RenderOptions{Color: opts.Color, PrettyJSON: opts.PrettyJSON, MaxColWidth: opts.MaxColWidth}

	target := opts.Output
	if target == "" {
		target = spec
	}
	var scriptErr error
	if opts.Script != nil {
		in := script.New(ed, r.Writer)
		in.Quotes = r.Quotes
		in.Source = r.Source
		in.Sink = r.Sink
		in.Path = target
		in.Color = opts.Color
		in.Strict = opts.Strict
		in.List = func(ctx context.Context, w io.Writer, keys []string) error {
			ov, err := BuildOverview(ctx, ed.Document(), keys, cols, svc)
			if err != nil {
				return err
			}
			return r.Renderer.Render(w, ov, ropts)
		}
		scriptErr = in.Run(ctx, opts.Script)
		if scriptErr != nil && opts.Strict {
			return scriptErr
		}
		target = in.Path
	}

	if !opts.Quiet {
		f := opts.Filter
		if f == nil {
			f = filter.Always(true)
		}
		keys := filter.Select(f, ed.Document().Keys())
		if opts.Sector != nil {
			keys = filter.WithSector(opts.Sector, ed.Document(), keys)
		}
		ov, err := BuildOverview(ctx, ed.Document(), keys, cols, svc)
		if err != nil {
			return err
		}
		if err := r.Renderer.Render(r.Writer, ov, ropts); err != nil {
			return err
		}
	}

	if opts.Save && ed.Dirty() {
		if target == "" {
			return fmt.Errorf("save: no output path")
		}
		if err := r.Sink.Save(ctx, ed.Document(), target); err != nil {
			return err
		}
		ed.MarkSaved(false)
		glog.Infof("[pipeline] saved %s", target)
	}
	return scriptErr
}

// BuildOverview resolves cols for the quotes named keys.
func BuildOverview(ctx context.Context, doc *types.Document, keys, cols []string, svc columns.Services) (render.Overview, error) {
	ov := render.Overview{Date: doc.GlobalDate, Columns: cols}
	for _, k := range keys {
		rec, ok := doc.Record(k)
		if !ok {
			continue
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			v, err := columns.RenderValue(ctx, c, rec, svc)
			if err != nil {
				return render.Overview{}, err
			}
			row[i] = v
		}
		ov.Keys = append(ov.Keys, k)
		ov.Rows = append(ov.Rows, row)
	}
	return ov, nil
}
