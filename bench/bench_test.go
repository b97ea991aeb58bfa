package bench

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/QDockBank/Databank-Creation/pdb"
)

const index = `[Group S]
length_6:
1e2k    Chain A    Residues 55-60    length=6    DGPHGM
2qbs    Chain B    Residues 214-224  length=11   ACDEFGHIKLM
bad     Chain A    no range here     at all
short   Chain A
3abc    Chain A    Residues 10-5     length=-4   X
1e2k    Chain A    Residues 56-61    length=6    GPHGMA
`

func TestParseIndex(t *testing.T) {
	targets, err := ParseIndex(strings.NewReader(index))
	if err != nil {
		t.Fatal(err)
	}
	want := []Target{
		{ID: "1e2k", Chain: "A", Start: 56, End: 61, Sequence: "GPHGMA"},
		{ID: "2qbs", Chain: "B", Start: 214, End: 224, Sequence: "ACDEFGHIKLM"},
		{ID: "3abc", Chain: "A", Start: 10, End: 5, Sequence: "X"},
	}
	if len(targets) != len(want) {
		t.Fatalf("Expected %d targets, got %d: %v", len(want), len(targets), targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("Target %d: expected %+v, got %+v.", i, want[i], targets[i])
		}
	}
	if targets[1].Len() != 11 || targets[2].Len() > 0 {
		t.Fatalf("Unexpected window lengths %d and %d.",
			targets[1].Len(), targets[2].Len())
	}
}

func TestParseTopListAndGroups(t *testing.T) {
	top, err := ParseTopList(strings.NewReader(
		"# comment\n1e2k  top_1\n\nlonely\n2qbs top_3\n1e2k top_4\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0] != (TopEntry{"1e2k", "top_4"}) || top[1] != (TopEntry{"2qbs", "top_3"}) {
		t.Fatalf("Unexpected top list %v.", top)
	}

	groups, err := ParseGroups(strings.NewReader(
		"orphan line\n[Group S]\nlength_6:\n1e2k x\n[Group L]\n2qbs y z\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups["1e2k"] != "S" || groups["2qbs"] != "L" {
		t.Fatalf("Unexpected groups %v.", groups)
	}
}

func TestPlan(t *testing.T) {
	targets := []Target{{ID: "a"}, {ID: "b"}}
	if jobs := Plan(targets, nil); len(jobs) != 2 || jobs[1].Target.ID != "b" {
		t.Fatalf("Unexpected jobs %v.", jobs)
	}

	jobs := Plan(targets, []TopEntry{{"b", "top_2"}, {"z", "top_1"}})
	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d.", len(jobs))
	}
	if jobs[0].Target.ID != "b" || jobs[0].Top != "top_2" || jobs[0].Reason != "" {
		t.Fatalf("Unexpected first job %+v.", jobs[0])
	}
	if jobs[1].Reason != "not in benchmark index" {
		t.Fatalf("Unexpected second job %+v.", jobs[1])
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config is invalid: %s", err)
	}
	cfg.Threads = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Expected an error for zero threads.")
	}
	if got := DefaultConfig().PredictedPath("1e2k", "top_1"); got != filepath.Join("pdbqt", "protein_pdbqt", "1e2k", "1e2k_top_1.pdbqt") {
		t.Fatalf("Unexpected predicted path %s.", got)
	}
}

// fragment is a non-planar six residue CA trace.
var fragment = []pdb.Coords{
	{0, 0, 0}, {3.8, 0, 0}, {5.0, 3.6, 0},
	{4.1, 5.2, 3.1}, {1.0, 6.0, 4.5}, {-1.2, 3.9, 6.0},
}

func writeStructure(t *testing.T, path, chain string, first int, coords []pdb.Coords) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	var atoms []pdb.Atom
	for i, c := range coords {
		num := first + i
		atoms = append(atoms,
			pdb.Atom{Name: "N", Residue: "GLY", Chain: chain, ResidueSeq: num,
				Element: "N", Coords: pdb.Coords{c[0] + 1, c[1], c[2]}},
			pdb.Atom{Name: "CA", Residue: "GLY", Chain: chain, ResidueSeq: num,
				Element: "C", Coords: c})
	}
	var buf bytes.Buffer
	if err := pdb.WriteAtoms(&buf, atoms); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// moved rotates the points 90 degrees about Z and shifts them by (5, 5, 5).
func moved(coords []pdb.Coords) []pdb.Coords {
	out := make([]pdb.Coords, len(coords))
	for i, c := range coords {
		out[i] = pdb.Coords{-c[1] + 5, c[0] + 5, c[2] + 5}
	}
	return out
}

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.ReferenceDir = filepath.Join(dir, "selected")
	cfg.PredictedDir = filepath.Join(dir, "pdbqt")
	cfg.Threads = 3

	ref := func(id, chain string) {
		writeStructure(t, cfg.ReferencePath(id), chain, 55, fragment)
	}
	pred := func(id string, coords []pdb.Coords) {
		writeStructure(t, cfg.PredictedPath(id, "top_1"), "A", 0, coords)
	}

	ref("good", "A")
	pred("good", moved(fragment))

	ref("mismatch", "A")
	pred("mismatch", moved(fragment[:5]))

	ref("nochain", "B")
	pred("nochain", moved(fragment))

	ref("nopred", "A")

	pred("noref", moved(fragment))

	ref("empty", "A")
	pred("empty", nil)
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.AlignedDir = t.TempDir()

	targets := []Target{
		{ID: "good", Chain: "A", Start: 55, End: 60},
		{ID: "mismatch", Chain: "A", Start: 55, End: 60},
		{ID: "nochain", Chain: "A", Start: 55, End: 60},
		{ID: "nopred", Chain: "A", Start: 55, End: 60},
		{ID: "noref", Chain: "A", Start: 55, End: 60},
		{ID: "empty", Chain: "A", Start: 55, End: 60},
		{ID: "inverted", Chain: "A", Start: 60, End: 55},
	}
	var top []TopEntry
	for _, tg := range targets {
		top = append(top, TopEntry{tg.ID, "top_1"})
	}
	top = append(top, TopEntry{"unknown", "top_1"})

	var results []Result
	err := Run(context.Background(), cfg, Plan(targets, top), func(r Result) error {
		results = append(results, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Run failed: %s", err)
	}
	if len(results) != len(top) {
		t.Fatalf("Expected %d results, got %d.", len(top), len(results))
	}
	for i, r := range results {
		if r.ID != top[i].ID {
			t.Fatalf("Result %d is for %s, expected %s.", i, r.ID, top[i].ID)
		}
	}

	good := results[0]
	if !good.OK() || good.RMSD > 1e-3 || good.Warning != "" {
		t.Fatalf("Unexpected result %+v.", good)
	}
	checkAligned(t, cfg.AlignedPath("good"), fragment)

	wantReasons := []string{
		"",
		"atom count mismatch: pred=5, real=6",
		"the chain 'A' could not be found in '" + cfg.ReferencePath("nochain") + "'",
		"predicted file not found: " + cfg.PredictedPath("nopred", "top_1"),
		"real file not found: " + cfg.ReferencePath("noref"),
		"insufficient atoms: pred=0, real=6",
		"invalid residue range 60-55",
		"not in benchmark index",
	}
	for i, want := range wantReasons {
		if results[i].Reason != want {
			t.Fatalf("Result %d (%s): expected reason %q, got %q.",
				i, results[i].ID, want, results[i].Reason)
		}
	}
}

// checkAligned verifies that every atom of a fragment written by
// writeStructure for moved(want) was moved back onto want. The nitrogens sit
// at +1 on the x axis before the move, so they come back at -1 on the y axis.
func checkAligned(t *testing.T, path string, want []pdb.Coords) {
	aligned, err := pdb.ReadPDB(path)
	if err != nil {
		t.Fatalf("Aligned fragment not written: %s", err)
	}
	if len(aligned.Atoms) != 2*len(want) {
		t.Fatalf("Expected %d aligned atoms, got %d.",
			2*len(want), len(aligned.Atoms))
	}
	for i, atom := range aligned.Atoms {
		expect := want[i/2]
		if atom.Name == "N" {
			expect = pdb.Coords{expect[0], expect[1] - 1, expect[2]}
		}
		for k := 0; k < 3; k++ {
			if math.Abs(atom.Coords[k]-expect[k]) > 2e-3 {
				t.Fatalf("Aligned %s atom %d at %v, expected %v.",
					atom.Name, i, atom.Coords, expect)
			}
		}
	}
}

func TestRunNumberedMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Positional = false
	cfg.PredictedStart = 0
	cfg.AlignedDir = t.TempDir()

	jobs := []Job{{Target: Target{ID: "good", Chain: "A", Start: 55, End: 60}, Top: "top_1"}}
	var got Result
	err := Run(context.Background(), cfg, jobs, func(r Result) error {
		got = r
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.OK() || got.RMSD > 1e-3 || got.Predicted != 6 || got.Reference != 6 {
		t.Fatalf("Unexpected result %+v.", got)
	}
	checkAligned(t, cfg.AlignedPath("good"), fragment)

	// Renumbered from 1, the last pair has no predicted residue.
	cfg.PredictedStart = 1
	got = Compare(cfg, jobs[0])
	if !got.OK() || got.Skipped != 1 || got.Predicted != 5 || got.RMSD < 0.1 {
		t.Fatalf("Unexpected result %+v.", got)
	}

	// A reference residue without an alpha-carbon drops its pair instead
	// of shifting every later one.
	var atoms []pdb.Atom
	for i, c := range fragment {
		if i != 2 {
			atoms = append(atoms, pdb.Atom{Name: "CA", Residue: "GLY",
				Chain: "A", ResidueSeq: 55 + i, Element: "C", Coords: c})
		}
	}
	var buf bytes.Buffer
	if err := pdb.WriteAtoms(&buf, atoms); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.ReferencePath("good"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.PredictedStart = 0
	got = Compare(cfg, jobs[0])
	if !got.OK() || got.Skipped != 1 || got.Predicted != 5 || got.RMSD > 1e-3 {
		t.Fatalf("Unexpected result %+v.", got)
	}
}

func TestRunStopsOnVisitError(t *testing.T) {
	cfg := testConfig(t)
	jobs := make([]Job, 50)
	for i := range jobs {
		jobs[i] = Job{Target: Target{ID: "good", Chain: "A", Start: 55, End: 60}, Top: "top_1"}
	}
	stop := errors.New("stop")
	calls := 0
	err := Run(context.Background(), cfg, jobs, func(r Result) error {
		calls++
		if calls == 3 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("Expected the visit error, got %v.", err)
	}
	if calls != 3 {
		t.Fatalf("Expected 3 visits, got %d.", calls)
	}
}

func TestSummaryAndComparison(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSummary(&buf, "RMSD (predicted vs real)", []Result{
		{ID: "1e2k", RMSD: 1.16349},
		{ID: "2qbs", Reason: "atom count mismatch: pred=5, real=6"},
		{ID: "3abc", RMSD: 2.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "# RMSD (predicted vs real)\n\n" +
		"1e2k\t1.163\n" +
		"2qbs\tN/A (atom count mismatch: pred=5, real=6)\n" +
		"3abc\t2.500\n"
	if buf.String() != want {
		t.Fatalf("Expected summary\n%s\ngot\n%s", want, buf.String())
	}

	quantum, err := ReadSummary(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(quantum) != 2 || quantum["1e2k"] != 1.163 {
		t.Fatalf("Unexpected summary values %v.", quantum)
	}

	af2 := map[string]float64{"1e2k": 2.043, "3abc": 2.5, "9zzz": 1}
	cmp := CompareSummaries("quantum", "af2", quantum, af2, nil)
	buf.Reset()
	if err := WriteComparison(&buf, cmp); err != nil {
		t.Fatal(err)
	}
	want = "# Compare RMSD between quantum and af2\n" +
		"# Format: pdb_id   quantum=...   af2=...   better=...\n\n" +
		"1e2k\tquantum=1.163\taf2=2.043\tbetter=quantum\n" +
		"3abc\tquantum=2.500\taf2=2.500\tbetter=tie\n" +
		"\n# Total proteins compared: 2\n" +
		"# quantum better: 1 (50.0%)\n" +
		"# af2 better: 0 (0.0%)\n" +
		"# tie: 1 (50.0%)\n"
	if buf.String() != want {
		t.Fatalf("Expected comparison\n%s\ngot\n%s", want, buf.String())
	}

	only := CompareSummaries("quantum", "af2", quantum, af2,
		func(id string) bool { return id == "1e2k" })
	if len(only.Rows) != 1 || only.BetterA != 1 {
		t.Fatalf("Unexpected filtered comparison %+v.", only)
	}

	buf.Reset()
	if err := WriteComparison(&buf, CompareSummaries("a", "b", nil, af2, nil)); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "# No common pdb_id found between two files.\n") {
		t.Fatalf("Unexpected empty comparison\n%s", buf.String())
	}
}
