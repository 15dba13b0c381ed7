package sensitivityapp

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/genomewalker/reviewflow/internal/cliutil"
	"github.com/genomewalker/reviewflow/internal/config"
	"github.com/genomewalker/reviewflow/internal/hits"
	"github.com/genomewalker/reviewflow/internal/ledger"
	"github.com/genomewalker/reviewflow/internal/report"
	"github.com/genomewalker/reviewflow/internal/runmetrics"
	"github.com/genomewalker/reviewflow/internal/senscli"
	"github.com/genomewalker/reviewflow/internal/sensitivity"
	"github.com/genomewalker/reviewflow/internal/version"
)

// Exit codes returned by Run.
const (
	ExitOK      = 0
	ExitRuntime = 1
	ExitUsage   = 2
)

const toolName = "sensitivity"

// Run parses argv, builds both sensitivity tables, and returns the
// process exit code. Unlike the coverage tool there is no long-running
// mode, so no context is taken.
func Run(argv []string, stdout, stderr io.Writer) int {
	fs := senscli.NewFlagSet("reviewflow-sensitivity", io.Discard)
	opts, err := senscli.ParseArgs(fs, argv)
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
		fmt.Fprintf(stdout, "reviewflow-sensitivity %s\n", version.Version)
		return ExitOK
	}
	if err := cliutil.SetupLogging(stderr, opts.LogLevel, opts.LogJSON); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}

	if err := applyConfig(&opts); err != nil {
		slog.Error("sensitivity: config load failed", "err", err)
		return ExitRuntime
	}
	cfg := sensitivity.Config{
		Bits:       opts.Bits,
		Evalue:     opts.Evalue,
		ConsPident: opts.ConsPident,
		ConsQcov:   opts.ConsQcov,
	}

	slog.Info("reviewflow-sensitivity starting",
		"in", opts.In, "out_dir", opts.OutDir,
		"bits", cfg.Bits, "evalue", cfg.Evalue)

	if err := runOnce(opts, cfg); err != nil {
		slog.Error("sensitivity: run failed", "err", err)
		return ExitRuntime
	}
	return ExitOK
}

// applyConfig fills option gaps from the config file, or from the
// built-in defaults when --config is not given. Explicit flags always
// win.
func applyConfig(opts *senscli.Options) error {
	cfg := config.Defaults()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if !opts.Set["bits"] {
		opts.Bits = cfg.Sensitivity.Bits
	}
	if !opts.Set["evalue"] {
		opts.Evalue = cfg.Sensitivity.Evalue
	}
	if !opts.Set["cons_pident"] {
		opts.ConsPident = cfg.Sensitivity.ConsPident
	}
	if !opts.Set["cons_qcov"] {
		opts.ConsQcov = cfg.Sensitivity.ConsQcov
	}
	if !opts.Set["ledger"] {
		opts.LedgerPath = cfg.Ledger.Path
	}
	return nil
}

// runOnce reads the hits file, builds the summary and detailed tables,
// and commits both into opts.OutDir. A malformed input line fails the
// whole run before anything is written. The run ledger and the metrics
// textfile are best-effort and never fail the run.
func runOnce(opts senscli.Options, cfg sensitivity.Config) error {
	started := time.Now().UTC()

	hitRows, err := hits.ReadFile(opts.In)
	if err != nil {
		recordFailure(opts, started, err)
		return err
	}

	summary := sensitivity.Summarize(hitRows, cfg)
	detail := sensitivity.Detail(hitRows, cfg)

	summaryPath := filepath.Join(opts.OutDir, report.SummaryFileName)
	detailedPath := filepath.Join(opts.OutDir, report.DetailedFileName)

	if err := report.WriteSensitivitySummary(summaryPath, summary); err != nil {
		recordFailure(opts, started, err)
		return err
	}
	if err := report.WriteSensitivityDetailed(detailedPath, detail, cfg.Bits); err != nil {
		recordFailure(opts, started, err)
		return err
	}
	duration := time.Since(started)

	passed := 0
	for _, d := range detail {
		if d.PassConservative {
			passed++
		}
	}

	slog.Info("sensitivity: wrote tables",
		"summary", summaryPath, "detailed", detailedPath,
		"hits", len(hitRows), "thresholds", len(cfg.Bits),
		"took", duration.Round(time.Millisecond))

	ledger.RecordRun(opts.LedgerPath, ledger.Run{
		Tool:        toolName,
		StartedAt:   started,
		Duration:    duration,
		InputPath:   opts.In,
		OutputPaths: []string{summaryPath, detailedPath},
		RecordsIn:   len(hitRows),
		RowsWritten: len(summary) + len(detail),
		Passed:      passed,
	})
	runmetrics.WriteTextfile(opts.MetricsOut, runmetrics.Snapshot{
		Tool:        toolName,
		CompletedAt: started.Add(duration),
		Duration:    duration,
		RecordsIn:   len(hitRows),
		RowsWritten: len(summary) + len(detail),
		Passed:      passed,
	})
	return nil
}

// recordFailure writes an error row to the ledger when one is configured.
func recordFailure(opts senscli.Options, started time.Time, cause error) {
	ledger.RecordRun(opts.LedgerPath, ledger.Run{
		Tool:      toolName,
		StartedAt: started,
		Duration:  time.Since(started),
		InputPath: opts.In,
		Status:    ledger.StatusError,
		Error:     cause.Error(),
	})
}
