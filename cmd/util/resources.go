package util

import (
	"os"
	"strconv"

	"github.com/QDockBank/Databank-Creation/bench"
	"github.com/QDockBank/Databank-Creation/pdb"
)

func PDBRead(path string) *pdb.Entry {
	entry, err := pdb.ReadPDB(path)
	Assert(err, "Could not open PDB file '%s'", path)
	if entry.Malformed > 0 {
		Warnf("Skipped %d malformed ATOM records in '%s'.",
			entry.Malformed, path)
	}
	if entry.Unnumbered > 0 {
		Verbosef("%d ATOM records in '%s' have no residue number.\n",
			entry.Unnumbered, path)
	}
	return entry
}

func IndexRead(path string) []bench.Target {
	f := OpenFile(path)
	defer f.Close()

	targets, err := bench.ParseIndex(f)
	Assert(err, "Could not read benchmark index '%s'", path)
	return targets
}

func TopListRead(path string) []bench.TopEntry {
	f := OpenFile(path)
	defer f.Close()

	top, err := bench.ParseTopList(f)
	Assert(err, "Could not read top list '%s'", path)
	return top
}

func GroupsRead(path string) map[string]string {
	f := OpenFile(path)
	defer f.Close()

	groups, err := bench.ParseGroups(f)
	Assert(err, "Could not read group index '%s'", path)
	return groups
}

func SummaryRead(path string) map[string]float64 {
	f := OpenFile(path)
	defer f.Close()

	data, err := bench.ReadSummary(f)
	Assert(err, "Could not read RMSD summary '%s'", path)
	return data
}

func OpenFile(path string) *os.File {
	f, err := os.Open(path)
	Assert(err, "Could not open file '%s'", path)
	return f
}

func CreateFile(path string) *os.File {
	f, err := os.Create(path)
	Assert(err, "Could not create file '%s'", path)
	return f
}

func ParseInt(str string) int {
	num, err := strconv.ParseInt(str, 10, 32)
	Assert(err, "Could not parse '%s' as an integer", str)
	return int(num)
}
