// Package covcli defines the flag surface of reviewflow-coverage.
package covcli

import (
	"flag"
	"fmt"
	"io"

	"github.com/genomewalker/reviewflow/internal/coverage"
)

// Options holds the parsed command line for reviewflow-coverage.
type Options struct {
	InDir          string
	Out            string
	BreadthCutoff  float64
	EvennessCutoff float64

	ConfigPath string
	LedgerPath string
	MetricsOut string
	Watch      bool

	LogLevel string
	LogJSON  bool
	Version  bool

	// Set records which flags were given explicitly, so config file
	// values only fill the gaps.
	Set map[string]bool
}

// NewFlagSet returns the flag set for reviewflow-coverage. Usage writes
// to the flag set's current output, so callers can silence parsing and
// print it deliberately.
func NewFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s --in_dir DIR --out FILE [options]\n\n", name)
		fmt.Fprintf(out, "Per-target coverage metrics from <target>.depth files.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs parses argv into Options and checks required flags.
// --version short-circuits validation.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	fs.StringVar(&o.InDir, "in_dir", "", "directory of <target>.depth files (required)")
	fs.StringVar(&o.Out, "out", "", "output CSV path (required)")
	fs.Float64Var(&o.BreadthCutoff, "breadth_cutoff", coverage.DefaultBreadthCutoff,
		"minimum breadth_pct for a conservative pass")
	fs.Float64Var(&o.EvennessCutoff, "evenness_cutoff", coverage.DefaultEvennessCutoff,
		"minimum evenness for a conservative pass")
	fs.StringVar(&o.ConfigPath, "config", "", "optional YAML config file")
	fs.StringVar(&o.LedgerPath, "ledger", "", "optional SQLite run ledger path")
	fs.StringVar(&o.MetricsOut, "metrics_out", "", "optional Prometheus textfile for run metrics")
	fs.BoolVar(&o.Watch, "watch", false, "keep running and rebuild when depth files change")
	fs.StringVar(&o.LogLevel, "log_level", "info", "log level: debug, info, warn, error")
	fs.BoolVar(&o.LogJSON, "log_json", false, "log as JSON instead of text")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")

	if err := fs.Parse(argv); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected positional arguments: %v", fs.Args())
	}

	o.Set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.Set[f.Name] = true })

	if o.Version {
		return o, nil
	}
	if o.InDir == "" {
		return Options{}, fmt.Errorf("--in_dir is required")
	}
	if o.Out == "" {
		return Options{}, fmt.Errorf("--out is required")
	}
	return o, nil
}
