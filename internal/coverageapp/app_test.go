package coverageapp

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genomewalker/reviewflow/internal/ledger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRun_WritesCoverageTable(t *testing.T) {
	inDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "tA.depth"), "1 0\n2 5\n3 5\n4 0\n")
	writeFile(t, filepath.Join(inDir, "tB.depth"), "1 10\n2 10\n3 10\n")
	writeFile(t, filepath.Join(inDir, "notes.txt"), "not a depth file\n")
	out := filepath.Join(t.TempDir(), "coverage.csv")

	code := Run([]string{"--in_dir", inDir, "--out", out}, io.Discard, io.Discard)
	if code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}

	want := "target,breadth_pct,mean_depth,cov_evenness,pass_conservative\n" +
		"tA,50.000,2.500,0.000,0\n" +
		"tB,100.000,10.000,1.000,1\n"
	if got := readFile(t, out); got != want {
		t.Errorf("table mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRun_EmptyDirWritesHeaderOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "coverage.csv")

	code := Run([]string{"--in_dir", t.TempDir(), "--out", out}, io.Discard, io.Discard)
	if code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}
	want := "target,breadth_pct,mean_depth,cov_evenness,pass_conservative\n"
	if got := readFile(t, out); got != want {
		t.Errorf("table = %q, want header only", got)
	}
}

func TestRun_MissingInputDirFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "coverage.csv")

	code := Run([]string{"--in_dir", filepath.Join(t.TempDir(), "nope"), "--out", out},
		io.Discard, io.Discard)
	if code != ExitRuntime {
		t.Fatalf("Run = %d, want %d", code, ExitRuntime)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output written despite failed run (stat err: %v)", err)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"missing in_dir", []string{"--out", "x.csv"}},
		{"missing out", []string{"--in_dir", "."}},
		{"unknown flag", []string{"--in_dir", ".", "--out", "x.csv", "--bogus"}},
		{"positional args", []string{"--in_dir", ".", "--out", "x.csv", "stray"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr strings.Builder
			if code := Run(tt.argv, io.Discard, &stderr); code != ExitUsage {
				t.Fatalf("Run = %d, want %d", code, ExitUsage)
			}
			if !strings.Contains(stderr.String(), "Usage:") {
				t.Errorf("stderr missing usage:\n%s", stderr.String())
			}
		})
	}
}

func TestRun_HelpGoesToStdout(t *testing.T) {
	var stdout strings.Builder
	if code := Run([]string{"--help"}, &stdout, io.Discard); code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}
	if !strings.Contains(stdout.String(), "Usage: reviewflow-coverage") {
		t.Errorf("stdout missing usage:\n%s", stdout.String())
	}
}

func TestRun_Version(t *testing.T) {
	var stdout strings.Builder
	if code := Run([]string{"--version"}, &stdout, io.Discard); code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}
	if !strings.HasPrefix(stdout.String(), "reviewflow-coverage ") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRun_ConfigFileAndFlagPrecedence(t *testing.T) {
	inDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "t1.depth"), "1 8\n2 10\n3 12\n")
	cfgPath := filepath.Join(t.TempDir(), "reviewflow.yaml")
	writeFile(t, cfgPath, "coverage:\n  evenness_cutoff: 0.9\n")
	out := filepath.Join(t.TempDir(), "coverage.csv")

	// The config file tightens the cutoff past t1's evenness.
	code := Run([]string{"--in_dir", inDir, "--out", out, "--config", cfgPath},
		io.Discard, io.Discard)
	if code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}
	if got := readFile(t, out); !strings.Contains(got, "t1,100.000,10.000,0.837,0") {
		t.Errorf("config cutoff not applied:\n%s", got)
	}

	// An explicit flag beats the config file.
	code = Run([]string{"--in_dir", inDir, "--out", out, "--config", cfgPath,
		"--evenness_cutoff", "0.8"}, io.Discard, io.Discard)
	if code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}
	if got := readFile(t, out); !strings.Contains(got, "t1,100.000,10.000,0.837,1") {
		t.Errorf("flag did not override config:\n%s", got)
	}
}

func TestRun_BadConfigFails(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, cfgPath, "coverage:\n  evenness_cutoff: 3\n")

	code := Run([]string{"--in_dir", t.TempDir(), "--out", "x.csv", "--config", cfgPath},
		io.Discard, io.Discard)
	if code != ExitRuntime {
		t.Fatalf("Run = %d, want %d", code, ExitRuntime)
	}
}

func TestRun_RecordsLedgerRow(t *testing.T) {
	inDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "tB.depth"), "1 10\n2 10\n3 10\n")
	tmp := t.TempDir()
	out := filepath.Join(tmp, "coverage.csv")
	ledgerPath := filepath.Join(tmp, "runs.db")

	code := Run([]string{"--in_dir", inDir, "--out", out, "--ledger", ledgerPath},
		io.Discard, io.Discard)
	if code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}

	led, err := ledger.Open(ledgerPath)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	defer led.Close()
	runs, err := led.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d ledger rows, want 1", len(runs))
	}
	run := runs[0]
	if run.Tool != "coverage" || run.Status != ledger.StatusOK {
		t.Errorf("run = %s/%s, want coverage/%s", run.Tool, run.Status, ledger.StatusOK)
	}
	if run.RecordsIn != 3 || run.RowsWritten != 1 || run.Passed != 1 {
		t.Errorf("counters = %d/%d/%d, want 3/1/1", run.RecordsIn, run.RowsWritten, run.Passed)
	}
	if len(run.OutputPaths) != 1 || run.OutputPaths[0] != out {
		t.Errorf("OutputPaths = %v, want [%s]", run.OutputPaths, out)
	}
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	inDir := t.TempDir()
	writeFile(t, filepath.Join(inDir, "tB.depth"), "1 10\n")
	tmp := t.TempDir()
	out := filepath.Join(tmp, "coverage.csv")
	prom := filepath.Join(tmp, "reviewflow.prom")

	code := Run([]string{"--in_dir", inDir, "--out", out, "--metrics_out", prom},
		io.Discard, io.Discard)
	if code != ExitOK {
		t.Fatalf("Run = %d, want %d", code, ExitOK)
	}
	text := readFile(t, prom)
	if !strings.Contains(text, `reviewflow_rows_written{tool="coverage"} 1`) {
		t.Errorf("metrics missing rows_written series:\n%s", text)
	}
}

func TestRunContext_WatchRebuilds(t *testing.T) {
	inDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "coverage.csv")
	writeFile(t, filepath.Join(inDir, "tA.depth"), "1 10\n2 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)
	go func() {
		done <- RunContext(ctx, []string{"--in_dir", inDir, "--out", out, "--watch"},
			io.Discard, io.Discard)
	}()

	waitFor(t, "initial table", func() bool {
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "tA,")
	})

	writeFile(t, filepath.Join(inDir, "tB.depth"), "1 0\n2 4\n")
	waitFor(t, "rebuilt table", func() bool {
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "tB,")
	})

	cancel()
	select {
	case code := <-done:
		if code != ExitOK {
			t.Fatalf("RunContext = %d, want %d", code, ExitOK)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not stop after cancel")
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("%s: condition not met before deadline", what)
}
