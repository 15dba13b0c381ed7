package coverage

import (
	"math"
	"testing"

	"github.com/genomewalker/reviewflow/internal/depth"
)

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// recordsFor builds depth records with consecutive positions.
func recordsFor(depths ...float64) []depth.Record {
	recs := make([]depth.Record, len(depths))
	for i, d := range depths {
		recs[i] = depth.Record{Pos: i + 1, Depth: d}
	}
	return recs
}

func TestSummarize_Metrics(t *testing.T) {
	tests := []struct {
		name         string
		depths       []float64
		wantBreadth  float64
		wantMean     float64
		wantEvenness float64
		wantPass     bool
	}{
		{
			name:         "half covered, maximally uneven",
			depths:       []float64{0, 5, 5, 0},
			wantBreadth:  50,
			wantMean:     2.5,
			wantEvenness: 0, // pstdev equals the mean
			wantPass:     false,
		},
		{
			name:         "uniform coverage",
			depths:       []float64{10, 10, 10},
			wantBreadth:  100,
			wantMean:     10,
			wantEvenness: 1,
			wantPass:     true,
		},
		{
			name:         "no records",
			depths:       nil,
			wantBreadth:  0,
			wantMean:     0,
			wantEvenness: 0,
			wantPass:     false,
		},
		{
			name:         "all zero depth",
			depths:       []float64{0, 0, 0, 0},
			wantBreadth:  0,
			wantMean:     0,
			wantEvenness: 0, // mean not positive
			wantPass:     false,
		},
		{
			name:         "single positive record",
			depths:       []float64{7},
			wantBreadth:  100,
			wantMean:     7,
			wantEvenness: 1, // singleton spread is zero
			wantPass:     true,
		},
		{
			name:   "mild unevenness",
			depths: []float64{8, 10, 12},
			// pstdev = sqrt((4+0+4)/3) = 1.632993, evenness = 0.836700
			wantBreadth:  100,
			wantMean:     10,
			wantEvenness: 0.8367007,
			wantPass:     true,
		},
		{
			name:   "sparse spike fails breadth",
			depths: []float64{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			// 1 of 25 covered = 4% breadth, below the 5% default
			wantBreadth:  4,
			wantMean:     4,
			wantEvenness: 0,
			wantPass:     false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Summarize("t1", recordsFor(tc.depths...), DefaultCutoffs())

			if got.Target != "t1" {
				t.Errorf("Target = %q, want t1", got.Target)
			}
			if !almostEqual(got.BreadthPct, tc.wantBreadth, 1e-6) {
				t.Errorf("BreadthPct = %.6f, want %.6f", got.BreadthPct, tc.wantBreadth)
			}
			if !almostEqual(got.MeanDepth, tc.wantMean, 1e-6) {
				t.Errorf("MeanDepth = %.6f, want %.6f", got.MeanDepth, tc.wantMean)
			}
			if !almostEqual(got.Evenness, tc.wantEvenness, 1e-6) {
				t.Errorf("Evenness = %.6f, want %.6f", got.Evenness, tc.wantEvenness)
			}
			if got.PassConservative != tc.wantPass {
				t.Errorf("PassConservative = %v, want %v", got.PassConservative, tc.wantPass)
			}
		})
	}
}

func TestSummarize_CutoffBoundaries(t *testing.T) {
	// Uniform coverage scores breadth 100 and evenness exactly 1, so
	// cutoffs at those values must still pass (comparisons are inclusive).
	recs := recordsFor(10, 10, 10)

	t.Run("at cutoffs passes", func(t *testing.T) {
		got := Summarize("t", recs, Cutoffs{Breadth: 100, Evenness: 1})
		if !got.PassConservative {
			t.Error("expected pass at exact cutoff values")
		}
	})

	t.Run("above breadth cutoff fails", func(t *testing.T) {
		got := Summarize("t", recs, Cutoffs{Breadth: 100.5, Evenness: 1})
		if got.PassConservative {
			t.Error("expected fail when breadth cutoff exceeds 100")
		}
	})

	t.Run("both cutoffs must hold", func(t *testing.T) {
		// Breadth 50 clears the default breadth cutoff but evenness 0 does not.
		got := Summarize("t", recordsFor(0, 5, 5, 0), DefaultCutoffs())
		if got.PassConservative {
			t.Error("expected fail when only one cutoff is met")
		}
	})
}

func TestSummarize_MetricsInRange(t *testing.T) {
	// Property test: metrics stay in range for any depth profile.
	cases := [][]float64{
		{0},
		{0, 0, 0},
		{1e9, 0, 1e9},
		{0.001, 0.002, 0.003},
		{5, 4, 3, 2, 1, 0, 1, 2, 3, 4, 5},
		{1000000, 1},
	}
	for _, depths := range cases {
		got := Summarize("t", recordsFor(depths...), DefaultCutoffs())
		if got.BreadthPct < 0 || got.BreadthPct > 100 {
			t.Errorf("BreadthPct %.4f out of [0,100] for %v", got.BreadthPct, depths)
		}
		if got.Evenness < 0 || got.Evenness > 1 {
			t.Errorf("Evenness %.4f out of [0,1] for %v", got.Evenness, depths)
		}
		if got.MeanDepth < 0 {
			t.Errorf("MeanDepth %.4f negative for %v", got.MeanDepth, depths)
		}
	}
}

func TestSummarize_CutoffMonotonicity(t *testing.T) {
	// Raising either cutoff can only turn passes into fails.
	profiles := [][]float64{
		{0, 5, 5, 0},
		{10, 10, 10},
		{8, 10, 12},
		{0, 0, 1},
	}
	cutoffSteps := []Cutoffs{
		{Breadth: 0, Evenness: 0},
		{Breadth: 5, Evenness: 0.5},
		{Breadth: 50, Evenness: 0.8},
		{Breadth: 100, Evenness: 1},
	}
	for _, depths := range profiles {
		recs := recordsFor(depths...)
		prevPass := true
		for _, cut := range cutoffSteps {
			pass := Summarize("t", recs, cut).PassConservative
			if pass && !prevPass {
				t.Errorf("pass regained at stricter cutoffs %+v for %v", cut, depths)
			}
			prevPass = pass
		}
	}
}

func TestPstdev(t *testing.T) {
	tests := []struct {
		name   string
		depths []float64
		mean   float64
		want   float64
	}{
		{"singleton", []float64{5}, 5, 0},
		{"uniform", []float64{4, 4, 4}, 4, 0},
		{"half split", []float64{0, 5, 5, 0}, 2.5, 2.5},
		{"spread", []float64{8, 10, 12}, 10, 1.6329932},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pstdev(recordsFor(tc.depths...), tc.mean)
			if !almostEqual(got, tc.want, 1e-6) {
				t.Errorf("pstdev = %.7f, want %.7f", got, tc.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.5, 0.5}, {1, 1}, {1.5, 1},
	}
	for _, tc := range tests {
		if got := clamp01(tc.in); got != tc.want {
			t.Errorf("clamp01(%.2f) = %.2f, want %.2f", tc.in, got, tc.want)
		}
	}
}
