package bench

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/QDockBank/Databank-Creation/pdb"
)

// Config says where the structures of a benchmark live and how predicted
// fragments are matched to reference windows.
//
// File names are templates relative to their directory. "{id}" expands to
// the target ID and "{top}" to the model picked for it in the top list.
type Config struct {
	ReferenceDir  string
	ReferenceName string

	PredictedDir  string
	PredictedName string

	// AtomKind is the atom used as each residue's representative.
	AtomKind string

	// When Positional is set, the predicted fragment is the first N atoms
	// of AtomKind in the predicted file, where N is the window length.
	// Otherwise it is the window [PredictedStart, PredictedStart+N-1] of
	// PredictedChain (or the target's chain if PredictedChain is empty),
	// paired residue by residue with the reference window.
	Positional     bool
	PredictedStart int
	PredictedChain string

	// Threads is the number of comparisons run at once.
	Threads int

	// When AlignedDir is set, the superimposed predicted fragment of every
	// successful comparison is written there as a PDB file.
	AlignedDir string
}

// DefaultConfig returns the layout used by the QDockBank benchmark:
//
//	selected/{id}/{id}_protein.pdb
//	pdbqt/protein_pdbqt/{id}/{id}_{top}.pdbqt
//
// with predicted fragments read positionally.
func DefaultConfig() Config {
	return Config{
		ReferenceDir:  "selected",
		ReferenceName: "{id}/{id}_protein.pdb",
		PredictedDir:  "pdbqt/protein_pdbqt",
		PredictedName: "{id}/{id}_{top}.pdbqt",
		AtomKind:      pdb.AlphaCarbon,
		Positional:    true,
		Threads:       1,
	}
}

// Validate reports the first missing or inconsistent setting.
func (c Config) Validate() error {
	switch {
	case len(c.ReferenceDir) == 0:
		return errors.New("no reference directory given")
	case len(c.ReferenceName) == 0:
		return errors.New("no reference file name template given")
	case len(c.PredictedDir) == 0:
		return errors.New("no predicted directory given")
	case len(c.PredictedName) == 0:
		return errors.New("no predicted file name template given")
	case len(c.AtomKind) == 0:
		return errors.New("no atom kind given")
	case c.Threads < 1:
		return fmt.Errorf("thread count must be at least 1, got %d", c.Threads)
	}
	return nil
}

// UsesTop reports whether the predicted file name depends on the top list.
func (c Config) UsesTop() bool {
	return strings.Contains(c.PredictedName, "{top}")
}

// ReferencePath returns the reference structure file for an ID.
func (c Config) ReferencePath(id string) string {
	return filepath.Join(c.ReferenceDir, expand(c.ReferenceName, id, ""))
}

// PredictedPath returns the predicted structure file for an ID and its
// selected model.
func (c Config) PredictedPath(id, top string) string {
	return filepath.Join(c.PredictedDir, expand(c.PredictedName, id, top))
}

// AlignedPath returns where the aligned fragment for an ID is written.
func (c Config) AlignedPath(id string) string {
	return filepath.Join(c.AlignedDir, fmt.Sprintf("aligned_fragment_%s.pdb", id))
}

func expand(template, id, top string) string {
	return strings.NewReplacer("{id}", id, "{top}", top).Replace(template)
}
