package rmsd

import (
	"fmt"

	"github.com/QDockBank/Databank-Creation/pdb"
)

// PDB is a convenience function for computing the RMSD between two sets of
// residues, where each set is taken from a chain of a PDB entry. Note that
// RMSD is only computed using carbon-alpha atoms.
//
// Each set of atoms to be used is specified by a four-tuple: a PDB entry, a
// chain identifier, and the start and end residue numbers to use as a range.
// (Where the range is inclusive.)
//
// An error will be returned if: chainId{1,2} does not correspond to a chain
// in entry{1,2}. The ranges specified by start{1,2}-end{1,2} are not valid.
// The ranges specified by start{1,2}-end{1,2} do not correspond to precisely
// the same number of carbon-alpha atoms.
func PDB(entry1 *pdb.Entry, chainId1 string, start1, end1 int,
	entry2 *pdb.Entry, chainId2 string, start2, end2 int) (float64, error) {

	return PDBAtoms(pdb.AlphaCarbon,
		entry1, chainId1, start1, end1, entry2, chainId2, start2, end2)
}

// PDBAtoms is like PDB, but each residue is represented by its atom with the
// given name instead of its carbon-alpha.
func PDBAtoms(kind string, entry1 *pdb.Entry, chainId1 string, start1, end1 int,
	entry2 *pdb.Entry, chainId2 string, start2, end2 int) (float64, error) {

	struct1, err := entry1.Segment(chainId1, start1, end1, kind)
	if err != nil {
		return 0.0, err
	}
	struct2, err := entry2.Segment(chainId2, start2, end2, kind)
	if err != nil {
		return 0.0, err
	}

	// Verify that neither of the atom sets is 0.
	if len(struct1) == 0 {
		return 0.0, fmt.Errorf("the range '%d-%d' (for chain %s in %s) does "+
			"not correspond to any %s ATOM records: %w",
			start1, end1, chainId1, entry1.Path, kind, ErrEmpty)
	}
	if len(struct2) == 0 {
		return 0.0, fmt.Errorf("the range '%d-%d' (for chain %s in %s) does "+
			"not correspond to any %s ATOM records: %w",
			start2, end2, chainId2, entry2.Path, kind, ErrEmpty)
	}

	// If we don't have the same number of atoms from each chain, we can't
	// compute RMSD.
	if len(struct1) != len(struct2) {
		return 0.0, fmt.Errorf("the range '%d-%d' (%d ATOM records for chain "+
			"%s in %s) does not correspond to the same number of %s atoms "+
			"as the range '%d-%d' (%d ATOM records for chain %s in %s). "+
			"It is possible that the PDB file does not contain a %s atom "+
			"for every residue index in the ranges: %w",
			start1, end1, len(struct1), chainId1, entry1.Path, kind,
			start2, end2, len(struct2), chainId2, entry2.Path, kind,
			&MismatchError{Reference: len(struct1), Candidate: len(struct2)})
	}

	// We're good to go...
	return RMSD(struct1, struct2)
}
