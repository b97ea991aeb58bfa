package bench

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteSummary writes one line per result: "id<TAB>rmsd" with three
// decimals, or "id<TAB>N/A (reason)". A non-empty header is written first as
// a comment followed by a blank line.
func WriteSummary(w io.Writer, header string, results []Result) error {
	sw, err := NewSummaryWriter(w, header)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := sw.Write(r); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// SummaryWriter streams results to a summary as they arrive.
type SummaryWriter struct {
	buf *bufio.Writer
}

// NewSummaryWriter writes the header (if any) and returns a writer for the
// result lines. Call Flush when done.
func NewSummaryWriter(w io.Writer, header string) (*SummaryWriter, error) {
	sw := &SummaryWriter{bufio.NewWriter(w)}
	if len(header) > 0 {
		if _, err := fmt.Fprintf(sw.buf, "# %s\n\n", header); err != nil {
			return nil, err
		}
	}
	return sw, nil
}

func (sw *SummaryWriter) Write(r Result) error {
	return writeSummaryLine(sw.buf, r)
}

func (sw *SummaryWriter) Flush() error {
	return sw.buf.Flush()
}

func writeSummaryLine(w io.Writer, r Result) error {
	var err error
	if r.OK() {
		_, err = fmt.Fprintf(w, "%s\t%.3f\n", r.ID, r.RMSD)
	} else {
		_, err = fmt.Fprintf(w, "%s\tN/A (%s)\n", r.ID, r.Reason)
	}
	return err
}

// ReadSummary reads the numeric lines of a summary written by WriteSummary.
// Comments, blank lines and lines whose second field is not a number (the
// N/A lines) are skipped.
func ReadSummary(r io.Reader) (map[string]float64, error) {
	data := make(map[string]float64)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			continue
		}
		data[fields[0]] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Row is one ID present in both compared summaries.
type Row struct {
	ID     string
	A, B   float64
	Better string
}

// Comparison is the result of comparing two summaries, where a lower value
// is better.
type Comparison struct {
	LabelA, LabelB string
	Rows           []Row

	BetterA, BetterB, Ties int
}

// CompareSummaries compares the IDs that appear in both a and b, sorted by
// ID. If keep is not nil, only IDs for which it returns true are compared.
func CompareSummaries(labelA, labelB string, a, b map[string]float64,
	keep func(id string) bool) Comparison {

	cmp := Comparison{LabelA: labelA, LabelB: labelB}
	ids := make([]string, 0, len(a))
	for id := range a {
		if _, ok := b[id]; !ok {
			continue
		}
		if keep != nil && !keep(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		row := Row{ID: id, A: a[id], B: b[id]}
		switch {
		case row.A < row.B:
			row.Better = labelA
			cmp.BetterA++
		case row.A > row.B:
			row.Better = labelB
			cmp.BetterB++
		default:
			row.Better = "tie"
			cmp.Ties++
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}

// WriteComparison writes the rows of cmp followed by totals as comments.
func WriteComparison(w io.Writer, cmp Comparison) error {
	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, "# Compare RMSD between %s and %s\n", cmp.LabelA, cmp.LabelB)
	fmt.Fprintf(buf, "# Format: pdb_id   %s=...   %s=...   better=...\n\n",
		cmp.LabelA, cmp.LabelB)
	for _, row := range cmp.Rows {
		fmt.Fprintf(buf, "%s\t%s=%.3f\t%s=%.3f\tbetter=%s\n",
			row.ID, cmp.LabelA, row.A, cmp.LabelB, row.B, row.Better)
	}

	total := len(cmp.Rows)
	if total == 0 {
		fmt.Fprintf(buf, "\n# No common pdb_id found between two files.\n")
		return buf.Flush()
	}
	percent := func(n int) float64 {
		return float64(n) / float64(total) * 100
	}
	fmt.Fprintf(buf, "\n# Total proteins compared: %d\n", total)
	fmt.Fprintf(buf, "# %s better: %d (%.1f%%)\n",
		cmp.LabelA, cmp.BetterA, percent(cmp.BetterA))
	fmt.Fprintf(buf, "# %s better: %d (%.1f%%)\n",
		cmp.LabelB, cmp.BetterB, percent(cmp.BetterB))
	if cmp.Ties > 0 {
		fmt.Fprintf(buf, "# tie: %d (%.1f%%)\n", cmp.Ties, percent(cmp.Ties))
	}
	return buf.Flush()
}
