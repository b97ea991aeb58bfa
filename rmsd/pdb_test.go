package rmsd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/QDockBank/Databank-Creation/pdb"
)

func entryOf(t *testing.T, name, chain string, first int,
	points []pdb.Coords) *pdb.Entry {

	var atoms []pdb.Atom
	for i, p := range points {
		atoms = append(atoms,
			pdb.Atom{Name: "N", Residue: "GLY", Chain: chain,
				ResidueSeq: first + i, Element: "N"},
			pdb.Atom{Name: "CA", Residue: "GLY", Chain: chain,
				ResidueSeq: first + i, Element: "C", Coords: p})
	}
	var buf bytes.Buffer
	if err := pdb.WriteAtoms(&buf, atoms); err != nil {
		t.Fatal(err)
	}
	entry, err := pdb.Read(&buf, name)
	if err != nil {
		t.Fatal(err)
	}
	return entry
}

func TestPDB(t *testing.T) {
	ref := []pdb.Coords{
		{1.5, 0, 0}, {3.25, 1, 0}, {4, 2.5, 1}, {6, 2, -1.125},
	}
	moved := make([]pdb.Coords, len(ref))
	for i, p := range ref {
		moved[i] = pdb.Coords{-p[1] + 1, p[0] + 2, p[2] + 3}
	}
	entry1 := entryOf(t, "ref.pdb", "A", 1, ref)
	entry2 := entryOf(t, "pred.pdb", "B", 101, moved)

	r, err := PDB(entry1, "A", 1, 4, entry2, "B", 101, 104)
	if err != nil {
		t.Fatalf("PDB failed: %s", err)
	}
	if r > 1e-4 {
		t.Fatalf("Expected an RMSD of 0 for a rigid motion, got %f.", r)
	}

	_, err = PDB(entry1, "A", 1, 4, entry2, "B", 101, 103)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Expected a mismatch, got %v.", err)
	}
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) ||
		mismatch.Reference != 4 || mismatch.Candidate != 3 {
		t.Fatalf("Expected mismatch 4 vs 3, got %v.", err)
	}

	_, err = PDB(entry1, "Z", 1, 4, entry2, "B", 101, 104)
	if !errors.Is(err, pdb.ErrChainNotFound) {
		t.Fatalf("Expected a missing chain, got %v.", err)
	}

	_, err = PDB(entry1, "A", 50, 60, entry2, "B", 101, 104)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("Expected an empty range, got %v.", err)
	}

	r, err = PDBAtoms("N", entry1, "A", 1, 4, entry2, "B", 101, 104)
	if err != nil || r > 1e-9 {
		t.Fatalf("Expected 0 for coincident nitrogens, got %f (%v).", r, err)
	}
}
