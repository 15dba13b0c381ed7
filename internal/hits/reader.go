package hits

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/genomewalker/reviewflow/pkg/tables"
)

// hitColumns is the minimum field count of a search result row:
// query, target, evalue, bits, pident, alnlen, qcov, tcov.
// Extra trailing columns are ignored.
const hitColumns = 8

// MalformedInputError reports a structural problem in a search result
// TSV: a short row or an unparseable numeric field.
type MalformedInputError struct {
	Path   string
	Line   int // 1-based, counting every input line
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// ReadFile parses a tab-separated search result file into hits, in input
// order. The first structural problem is returned as a
// *MalformedInputError; no partial result accompanies it.
func ReadFile(path string) ([]tables.Hit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hits: open %s: %w", path, err)
	}
	defer f.Close()

	var out []tables.Hit
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) < hitColumns {
			return nil, &MalformedInputError{
				Path:   path,
				Line:   ln,
				Reason: fmt.Sprintf("expected %d tab-separated fields, got %d", hitColumns, len(fields)),
			}
		}
		h, err := parseHit(fields)
		if err != nil {
			return nil, &MalformedInputError{Path: path, Line: ln, Reason: err.Error()}
		}
		out = append(out, h)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hits: read %s: %w", path, err)
	}
	return out, nil
}

// parseHit converts the fields of one row into a Hit.
func parseHit(fields []string) (tables.Hit, error) {
	h := tables.Hit{Query: fields[0], Target: fields[1]}

	var err error
	if h.Evalue, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return h, fmt.Errorf("bad evalue %q", fields[2])
	}
	if h.Bits, err = strconv.ParseFloat(fields[3], 64); err != nil {
		return h, fmt.Errorf("bad bits %q", fields[3])
	}
	if h.Pident, err = strconv.ParseFloat(fields[4], 64); err != nil {
		return h, fmt.Errorf("bad pident %q", fields[4])
	}
	if h.AlnLen, err = strconv.Atoi(fields[5]); err != nil {
		return h, fmt.Errorf("bad alnlen %q", fields[5])
	}
	if h.Qcov, err = strconv.ParseFloat(fields[6], 64); err != nil {
		return h, fmt.Errorf("bad qcov %q", fields[6])
	}
	if h.Tcov, err = strconv.ParseFloat(fields[7], 64); err != nil {
		return h, fmt.Errorf("bad tcov %q", fields[7])
	}
	return h, nil
}
