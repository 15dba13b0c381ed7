// Package senscli defines the flag surface of reviewflow-sensitivity.
package senscli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/genomewalker/reviewflow/internal/sensitivity"
)

// Options holds the parsed command line for reviewflow-sensitivity.
type Options struct {
	In         string
	OutDir     string
	Bits       []int
	Evalue     float64
	ConsPident float64
	ConsQcov   float64

	ConfigPath string
	LedgerPath string
	MetricsOut string

	LogLevel string
	LogJSON  bool
	Version  bool

	// Set records which flags were given explicitly, so config file
	// values only fill the gaps.
	Set map[string]bool
}

// intsList collects bit-score thresholds. It accepts repeated flags and
// comma-separated lists; the first explicit use replaces the default.
type intsList struct {
	vals []int
	set  bool
}

func (l *intsList) String() string {
	parts := make([]string, len(l.vals))
	for i, v := range l.vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intsList) Set(s string) error {
	if !l.set {
		l.vals = nil
		l.set = true
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("bad bit-score threshold %q", part)
		}
		l.vals = append(l.vals, v)
	}
	if len(l.vals) == 0 {
		return fmt.Errorf("no bit-score thresholds given")
	}
	return nil
}

// NewFlagSet returns the flag set for reviewflow-sensitivity. Usage
// writes to the flag set's current output, so callers can silence
// parsing and print usage deliberately.
func NewFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s --in HITS.tsv --out_dir DIR [options]\n\n", name)
		fmt.Fprintf(out, "Sensitivity tables from a homology search result TSV.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs parses argv into Options and checks required flags.
// --version short-circuits validation.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var o Options
	bits := intsList{vals: sensitivity.DefaultBits()}

	fs.StringVar(&o.In, "in", "", "homology search result TSV (required)")
	fs.StringVar(&o.OutDir, "out_dir", "", "directory for the output tables (required)")
	fs.Var(&bits, "bits", "bit-score thresholds, repeatable or comma-separated")
	fs.Float64Var(&o.Evalue, "evalue", sensitivity.DefaultEvalue,
		"e-value cutoff applied at every threshold")
	fs.Float64Var(&o.ConsPident, "cons_pident", sensitivity.DefaultConsPident,
		"conservative minimum percent identity")
	fs.Float64Var(&o.ConsQcov, "cons_qcov", sensitivity.DefaultConsQcov,
		"conservative minimum query coverage")
	fs.StringVar(&o.ConfigPath, "config", "", "optional YAML config file")
	fs.StringVar(&o.LedgerPath, "ledger", "", "optional SQLite run ledger path")
	fs.StringVar(&o.MetricsOut, "metrics_out", "", "optional Prometheus textfile for run metrics")
	fs.StringVar(&o.LogLevel, "log_level", "info", "log level: debug, info, warn, error")
	fs.BoolVar(&o.LogJSON, "log_json", false, "log as JSON instead of text")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")

	if err := fs.Parse(argv); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		return Options{}, fmt.Errorf("unexpected positional arguments: %v", fs.Args())
	}

	o.Bits = bits.vals
	o.Set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.Set[f.Name] = true })

	if o.Version {
		return o, nil
	}
	if o.In == "" {
		return Options{}, fmt.Errorf("--in is required")
	}
	if o.OutDir == "" {
		return Options{}, fmt.Errorf("--out_dir is required")
	}
	return o, nil
}
