package runmetrics

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/genomewalker/reviewflow/internal/report"
)

// Snapshot holds the counters of one completed run.
type Snapshot struct {
	// Tool names the binary that ran: "coverage" or "sensitivity".
	Tool string

	// CompletedAt is when the run finished.
	CompletedAt time.Time

	// Duration is the wall-clock run time.
	Duration time.Duration

	// RecordsIn counts parsed input records (depth lines or hits).
	RecordsIn int

	// RowsWritten counts emitted table rows across all outputs.
	RowsWritten int

	// Passed counts rows flagged pass_conservative.
	Passed int

	// SkippedLines counts malformed input lines the tolerant reader
	// dropped. Always 0 for the sensitivity tool, which has none.
	SkippedLines int
}

// Render encodes the snapshot as Prometheus text exposition, one gauge
// family per counter, each series labeled tool="<tool>".
func Render(s Snapshot) ([]byte, error) {
	families := []*dto.MetricFamily{
		gauge("reviewflow_last_run_timestamp_seconds",
			"Unix time the last run finished.",
			s.Tool, float64(s.CompletedAt.Unix())),
		gauge("reviewflow_last_run_duration_seconds",
			"Wall-clock duration of the last run.",
			s.Tool, s.Duration.Seconds()),
		gauge("reviewflow_records_read",
			"Input records parsed by the last run.",
			s.Tool, float64(s.RecordsIn)),
		gauge("reviewflow_rows_written",
			"Table rows written by the last run.",
			s.Tool, float64(s.RowsWritten)),
		gauge("reviewflow_conservative_pass",
			"Rows flagged pass_conservative by the last run.",
			s.Tool, float64(s.Passed)),
		gauge("reviewflow_lines_skipped",
			"Malformed input lines skipped by the last run.",
			s.Tool, float64(s.SkippedLines)),
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("runmetrics: encode %s: %w", mf.GetName(), err)
		}
	}
	return buf.Bytes(), nil
}

// WriteTextfile is the fire-and-forget entry point used by the tools:
// it renders snap and commits it to path for a textfile collector,
// logging (never returning) failures. A run is never failed over its
// metrics. No-op when path is empty.
func WriteTextfile(path string, snap Snapshot) {
	if path == "" {
		return
	}
	data, err := Render(snap)
	if err == nil {
		err = report.WriteAtomic(path, data)
	}
	if err != nil {
		slog.Warn("runmetrics: textfile write failed", "path", path, "err", err)
		return
	}
	slog.Debug("runmetrics: textfile written", "path", path)
}

// gauge builds a single-series gauge family labeled with the tool name.
func gauge(name, help, tool string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Label: []*dto.LabelPair{{
				Name:  proto.String("tool"),
				Value: proto.String(tool),
			}},
			Gauge: &dto.Gauge{Value: proto.Float64(value)},
		}},
	}
}
