package depth

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultSuffix is the file-name suffix identifying depth files.
const DefaultSuffix = ".depth"

// Record is one usable line of a depth file: a 1-based reference
// position and the read depth observed there.
type Record struct {
	Pos   int
	Depth float64
}

// Target holds the parsed contents of one depth file.
type Target struct {
	// ID is the file name with the depth suffix stripped.
	ID string

	// Records are the usable lines, in file order.
	Records []Record

	// Skipped counts non-blank lines dropped by the tolerant parser:
	// short lines and lines with unparseable or negative values.
	Skipped int
}

// ReadFile parses a single depth file. Blank lines are ignored; any
// other line that does not yield a valid record is skipped and counted.
// Only I/O failures are errors.
func ReadFile(path string) ([]Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("depth: open %s: %w", path, err)
	}
	defer f.Close()

	var (
		recs    []Record
		skipped int
	)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			skipped++
			continue
		}
		pos, err := strconv.Atoi(fields[0])
		if err != nil || pos < 1 {
			skipped++
			continue
		}
		d, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			skipped++
			continue
		}
		recs = append(recs, Record{Pos: pos, Depth: d})
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("depth: read %s: %w", path, err)
	}
	return recs, skipped, nil
}

// ReadDir parses every depth file in dir, identified by suffix
// (DefaultSuffix when empty). A missing or unreadable directory is an
// error; an empty one yields an empty slice.
func ReadDir(dir, suffix string) ([]Target, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("depth: read dir: %w", err)
	}

	var targets []Target
	// os.ReadDir returns entries sorted by name, which fixes the table
	// row order.
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		recs, skipped, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		targets = append(targets, Target{
			ID:      strings.TrimSuffix(name, suffix),
			Records: recs,
			Skipped: skipped,
		})
	}
	return targets, nil
}
