package coverageapp

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/genomewalker/reviewflow/internal/cliutil"
	"github.com/genomewalker/reviewflow/internal/config"
	"github.com/genomewalker/reviewflow/internal/covcli"
	"github.com/genomewalker/reviewflow/internal/coverage"
	"github.com/genomewalker/reviewflow/internal/depth"
	"github.com/genomewalker/reviewflow/internal/ledger"
	"github.com/genomewalker/reviewflow/internal/report"
	"github.com/genomewalker/reviewflow/internal/runmetrics"
	"github.com/genomewalker/reviewflow/internal/version"
	"github.com/genomewalker/reviewflow/pkg/tables"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

const toolName = "coverage"

// Run is RunContext with a background context.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// RunContext parses argv, builds the coverage table once and, with
// --watch, keeps rebuilding it until ctx is canceled. It returns the
// process exit code.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := covcli.NewFlagSet("reviewflow-coverage", io.Discard)
	opts, err := covcli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return ExitOK
		}
		fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return ExitUsage
	}
	if opts.Version {
		fmt.Fprintf(stdout, "reviewflow-coverage %s\n", version.Version)
		return ExitOK
	}
	if err := cliutil.SetupLogging(stderr, opts.LogLevel, opts.LogJSON); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	suffix, err := applyConfig(&opts)
	if err != nil {
		slog.Error("coverage: config load failed", "err", err)
		return ExitRuntime
	}
	cut := coverage.Cutoffs{Breadth: opts.BreadthCutoff, Evenness: opts.EvennessCutoff}

	slog.Info("reviewflow-coverage starting",
		"in_dir", opts.InDir, "out", opts.Out,
		"breadth_cutoff", cut.Breadth, "evenness_cutoff", cut.Evenness,
		"watch", opts.Watch)

	if err := runOnce(opts, cut, suffix); err != nil {
		slog.Error("coverage: build failed", "err", err)
		return ExitRuntime
	}
	if !opts.Watch {
		return ExitOK
	}
	if err := watchDir(ctx, opts, cut, suffix); err != nil {
		slog.Error("coverage: watch failed", "err", err)
		return ExitRuntime
	}
	return ExitOK
}

// applyConfig fills option gaps from the config file, or from the
// built-in defaults when --config is not given. Explicit flags always
// win. It returns the depth-file suffix, which has no flag of its own.
func applyConfig(opts *covcli.Options) (string, error) {
	cfg := config.Defaults()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return "", err
		}
		cfg = loaded
	}
	if !opts.Set["breadth_cutoff"] {
		opts.BreadthCutoff = cfg.Coverage.BreadthCutoff
	}
	if !opts.Set["evenness_cutoff"] {
		opts.EvennessCutoff = cfg.Coverage.EvennessCutoff
	}
	if !opts.Set["ledger"] {
		opts.LedgerPath = cfg.Ledger.Path
	}
	return cfg.Coverage.DepthSuffix, nil
}

// runOnce reads every depth file under opts.InDir, summarizes each
// target, and commits the CSV. The run ledger and the metrics textfile
// are best-effort and never fail the build.
func runOnce(opts covcli.Options, cut coverage.Cutoffs, suffix string) error {
	started := time.Now().UTC()

	targets, err := depth.ReadDir(opts.InDir, suffix)
	if err != nil {
		recordFailure(opts, started, err)
		return err
	}

	rows := make([]tables.CoverageSummary, 0, len(targets))
	records, skipped, passed := 0, 0, 0
	for _, tgt := range targets {
		row := coverage.Summarize(tgt.ID, tgt.Records, cut)
		rows = append(rows, row)
		records += len(tgt.Records)
		skipped += tgt.Skipped
		if row.PassConservative {
			passed++
		}
		if tgt.Skipped > 0 {
			slog.Debug("coverage: skipped malformed depth lines",
				"target", tgt.ID, "lines", tgt.Skipped)
		}
	}

	if err := report.WriteCoverage(opts.Out, rows); err != nil {
		recordFailure(opts, started, err)
		return err
	}
	duration := time.Since(started)

	slog.Info("coverage: wrote table",
		"out", opts.Out, "targets", len(rows), "passed", passed,
		"records", records, "skipped_lines", skipped,
		"took", duration.Round(time.Millisecond))

	ledger.RecordRun(opts.LedgerPath, ledger.Run{
		Tool:        toolName,
		StartedAt:   started,
		Duration:    duration,
		InputPath:   opts.InDir,
		OutputPaths: []string{opts.Out},
		RecordsIn:   records,
		RowsWritten: len(rows),
		Passed:      passed,
	})
	runmetrics.WriteTextfile(opts.MetricsOut, runmetrics.Snapshot{
		Tool:         toolName,
		CompletedAt:  started.Add(duration),
		Duration:     duration,
		RecordsIn:    records,
		RowsWritten:  len(rows),
		Passed:       passed,
		SkippedLines: skipped,
	})
	return nil
}

// recordFailure writes an error row to the ledger when one is configured.
func recordFailure(opts covcli.Options, started time.Time, cause error) {
	ledger.RecordRun(opts.LedgerPath, ledger.Run{
		Tool:      toolName,
		StartedAt: started,
		Duration:  time.Since(started),
		InputPath: opts.InDir,
		Status:    ledger.StatusError,
		Error:     cause.Error(),
	})
}
