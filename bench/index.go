package bench

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Target is one record of a benchmark index: a fragment of a reference
// chain given by an inclusive residue window in the reference numbering.
type Target struct {
	ID       string
	Chain    string
	Start    int
	End      int
	Sequence string
}

// Len is the number of residues in the window. It is not positive for an
// inverted window.
func (t Target) Len() int {
	return t.End - t.Start + 1
}

var residuesPat = regexp.MustCompile(`(?i)Residues\s+(-?\d+)-(-?\d+)`)

// ParseIndex reads a benchmark index. Records look like
//
//	1e2k  Chain A  Residues 55-60  length=6  DGPHGM
//
// Blank lines, group headers ("[Group S]") and length headers ("length_6:")
// are skipped, as are lines with fewer than five fields or no residue range.
// Targets are returned in file order. If an ID appears twice, the later
// record replaces the earlier one in place.
func ParseIndex(r io.Reader) ([]Target, error) {
	var targets []Target
	seen := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 ||
			strings.HasPrefix(line, "[") ||
			strings.HasPrefix(line, "length_") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		m := residuesPat.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("residue range in %q: %w", line, err)
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("residue range in %q: %w", line, err)
		}

		t := Target{ID: fields[0], Chain: fields[2], Start: start, End: end}
		if last := fields[len(fields)-1]; !strings.Contains(last, "=") &&
			!strings.Contains(last, "-") {
			t.Sequence = last
		}
		if i, ok := seen[t.ID]; ok {
			targets[i] = t
			continue
		}
		seen[t.ID] = len(targets)
		targets = append(targets, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

// TopEntry names the predicted model selected for an ID.
type TopEntry struct {
	ID  string
	Top string
}

// ParseTopList reads lines of the form "1e2k  top_1". Blank lines, comments
// starting with '#' and lines with fewer than two fields are skipped. If an
// ID appears twice, the later model replaces the earlier one in place.
func ParseTopList(r io.Reader) ([]TopEntry, error) {
	var entries []TopEntry
	seen := make(map[string]int)
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
		e := TopEntry{ID: fields[0], Top: fields[1]}
		if i, ok := seen[e.ID]; ok {
			entries[i] = e
			continue
		}
		seen[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

var groupPat = regexp.MustCompile(`^\[Group\s+(\S+?)\]`)

// ParseGroups reads a group index made of "[Group S]" sections, each
// followed by lines whose first field is an ID. It returns a map from ID to
// group name. Lines before the first section and "length_" headers are
// ignored.
func ParseGroups(r io.Reader) (map[string]string, error) {
	groups := make(map[string]string)
	current := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if m := groupPat.FindStringSubmatch(line); m != nil {
			current = m[1]
			continue
		}
		if len(current) == 0 || strings.HasPrefix(line, "length_") {
			continue
		}
		groups[strings.Fields(line)[0]] = current
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return groups, nil
}
