package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/komsit37/qre/pkg/qre/columns"
	"github.com/komsit37/qre/pkg/qre/config"
	"github.com/komsit37/qre/pkg/qre/editor"
	"github.com/komsit37/qre/pkg/qre/enrich"
	"github.com/komsit37/qre/pkg/qre/filter"
	"github.com/komsit37/qre/pkg/qre/pipeline"
	"github.com/komsit37/qre/pkg/qre/render"
	"github.com/komsit37/qre/pkg/qre/script"
	"github.com/komsit37/qre/pkg/qre/source"
	"github.com/komsit37/qre/pkg/qre/types"
)

func main() {
	defer glog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var (
		cfgFile    string
		scriptFile string
		sets       []string
		filterExpr string
		sectorExpr string
		format     string
		pretty     bool
		save       bool
		output     string
		strict     bool
		quiet      bool
	)

	rootCmd := &cobra.Command{
		Use:   "qre [quotes.yaml]",
		Short: "Edit a YAML quote report with an undoable edit script",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("accepts at most 1 YAML file or directory argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			cols := cfg.Columns
			if len(sets) > 0 {
				extra, err := columns.ExpandSets(sets)
				if err != nil {
					return err
				}
				cols = append(cols, extra...)
			}
			f, err := filter.Parse(filterExpr)
			if err != nil {
				return err
			}
			var sector filter.Filter
			if sectorExpr != "" {
				if sector, err = filter.Parse(sectorExpr); err != nil {
					return err
				}
			}
			renderer, err := rendererFor(format)
			if err != nil {
				return err
			}

			var spec string
			if len(args) == 1 {
				spec = args[0]
			}
			opts := pipeline.ExecuteOptions{
				Columns:     cols,
				Filter:      f,
				Sector:      sector,
				Color:       cfg.Color,
				PrettyJSON:  pretty,
				MaxColWidth: columnWidth(cfg.MaxColWidth, len(columns.Compute(cols))),
				Companies:   cfg.Companies,
				MaxEvents:   cfg.MaxEvents,
				Strict:      strict,
				Save:        save,
				Output:      output,
				Quiet:       quiet,
			}
			if scriptFile != "" {
				rc, err := openScript(scriptFile)
				if err != nil {
					return err
				}
				defer rc.Close()
				opts.Script = rc
			}

			yamlSrc := source.YAMLSource{}
			runner := &pipeline.Runner{
				Source:   yamlSrc,
				Sink:     yamlSrc,
				Renderer: renderer,
				Quotes:   enrich.NewCacheService(enrich.NewYFService(cfg.QuoteTimeout), cfg.CacheTTL, cfg.CacheSize),
				Writer:   cmd.OutOrStdout(),
			}
			return runner.Execute(context.Background(), spec, opts)
		},
	}

	fl := rootCmd.Flags()
	fl.StringVar(&cfgFile, "config", "", "config file (default ./qre.yaml)")
	fl.StringVarP(&scriptFile, "script", "s", "", "edit script to run, - for stdin")
	fl.StringSliceP("columns", "c", nil, "overview columns")
	fl.StringSliceVar(&sets, "set", nil, "append named column sets (default, live, report, eps, value)")
	fl.StringVarP(&filterExpr, "filter", "f", "", "quote name filter: names, glob, /regex/ or substring")
	fl.StringVar(&sectorExpr, "sector", "", "only quotes tagged with a matching sector, e.g. =Banks")
	fl.StringVar(&format, "format", "table", "output format: table, json or names")
	fl.BoolVar(&pretty, "pretty", false, "indent json output")
	fl.BoolVar(&save, "save", false, "write the document back when the script changed it")
	fl.StringVarP(&output, "output", "o", "", "save to this file instead of the input")
	fl.BoolVar(&strict, "strict", false, "stop at the first failing script line")
	fl.BoolVarP(&quiet, "quiet", "q", false, "do not print the overview")
	fl.Int("max-events", 6, "report events shown per quote")
	fl.StringSlice("companies", config.DefaultCompanies, "fixed company list")
	fl.Bool("color", true, "colorize output")
	bindFlags(v, fl, map[string]string{
		config.KeyColumns:   "columns",
		config.KeyMaxEvents: "max-events",
		config.KeyCompanies: "companies",
		config.KeyColor:     "color",
	})
	// glog flags (-v, -logtostderr, ...)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	rootCmd.AddCommand(newInitCmd(), newCommandsCmd())
	return rootCmd
}

// newInitCmd writes an empty document dated with the working date.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <quotes.yaml>",
		Short: "Create an empty quote report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			doc := types.NewDocument(types.DefaultWorkingDate(time.Now()))
			if err := (source.YAMLSource{}).Save(cmd.Context(), doc, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s dated %s\n", args[0], doc.GlobalDate)
			return nil
		},
	}
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List edit script commands",
		Run: func(cmd *cobra.Command, args []string) {
			in := script.New(editor.New(nil, editor.Options{}), io.Discard)
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(in.Usage(), "\n"))
		},
	}
}

// bindFlags lets flags override config keys; key -> flag name.
func bindFlags(v *viper.Viper, fl *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fl.Lookup(name)); err != nil {
			glog.Fatalf("bind flag %s: %v", name, err)
		}
	}
}

func rendererFor(format string) (render.Renderer, error) {
	switch strings.ToLower(format) {
	case "", "table":
		return render.NewTableRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "names":
		return render.NewNamesRenderer(), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func openScript(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open script %s: %w", name, err)
	}
	return f, nil
}

// columnWidth shares the terminal width between columns, capped at limit.
func columnWidth(limit, ncols int) int {
	width := detectTerminalWidth()
	if width <= 0 || ncols == 0 {
		return limit
	}
	w := width/ncols - 3
	if w < 8 {
		w = 8
	}
	if limit > 0 && w > limit {
		w = limit
	}
	return w
}
