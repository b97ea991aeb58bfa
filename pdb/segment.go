package pdb

import (
	"errors"
	"fmt"
)

var (
	// ErrChainNotFound is matched by every *ChainNotFoundError.
	ErrChainNotFound = errors.New("chain not found")

	// ErrInvalidWindow is returned when a residue window ends before it
	// starts.
	ErrInvalidWindow = errors.New("invalid residue range")
)

// ChainNotFoundError is returned when a named chain does not exist in an
// entry. It indicates malformed input rather than sparse data.
type ChainNotFoundError struct {
	Path  string
	Chain string
}

func (e *ChainNotFoundError) Error() string {
	return fmt.Sprintf("the chain '%s' could not be found in '%s'",
		e.Chain, e.Path)
}

func (e *ChainNotFoundError) Is(target error) bool {
	return target == ErrChainNotFound
}

// Segment returns the coordinates of the atoms named kind for every residue
// of the given chain whose sequence number lies in the inclusive window
// [start, end]. Residues are visited in file order and residues without
// such an atom are skipped, so the result may be shorter than the window.
//
// An empty result is not an error. Callers decide whether a window with no
// atoms is worth reporting.
func (e *Entry) Segment(chain string, start, end int, kind string) ([]Coords, error) {
	if start > end {
		return nil, fmt.Errorf("%w %d-%d", ErrInvalidWindow, start, end)
	}
	c := e.Chain(chain)
	if c == nil {
		return nil, &ChainNotFoundError{Path: e.Path, Chain: chain}
	}
	return c.Segment(start, end, kind), nil
}

// Segment is the same as Entry.Segment, but on a chain that is already in
// hand. An inverted window yields no coordinates.
func (c *Chain) Segment(start, end int, kind string) []Coords {
	return CoordsOf(c.SegmentAtoms(start, end, kind))
}

// SegmentN is the positional extraction mode: it returns the coordinates of
// the first n atoms named kind in the entry's atom stream. Residue numbers
// and chain identifiers are ignored.
//
// This tolerates predicted structures with missing or inconsistent residue
// numbering, but silently returns the wrong residues if the first n matching
// atoms are not the intended ones.
func (e *Entry) SegmentN(n int, kind string) []Coords {
	return FirstN(e.Atoms, kind, n)
}

// FirstN returns the coordinates of the first n atoms named kind.
func FirstN(atoms []Atom, kind string, n int) []Coords {
	return CoordsOf(FirstNAtoms(atoms, kind, n))
}

// FirstNAtoms is like FirstN, but returns the atoms themselves.
func FirstNAtoms(atoms []Atom, kind string, n int) []Atom {
	if n <= 0 {
		return nil
	}
	picked := make([]Atom, 0, n)
	for _, atom := range atoms {
		if atom.Name != kind {
			continue
		}
		picked = append(picked, atom)
		if len(picked) == n {
			break
		}
	}
	return picked
}

// SegmentAtoms is like Chain.Segment, but returns the atoms themselves.
func (c *Chain) SegmentAtoms(start, end int, kind string) []Atom {
	atoms := make([]Atom, 0, max(0, end-start+1))
	for _, r := range c.Residues {
		if r.SequenceNum < start || r.SequenceNum > end {
			continue
		}
		if atom, ok := r.Atom(kind); ok {
			atoms = append(atoms, atom)
		}
	}
	return atoms
}

// WindowAtoms returns every atom of the residues numbered in the inclusive
// window [start, end], in file order.
func (c *Chain) WindowAtoms(start, end int) []Atom {
	var atoms []Atom
	for _, r := range c.Residues {
		if r.SequenceNum >= start && r.SequenceNum <= end {
			atoms = append(atoms, r.Atoms...)
		}
	}
	return atoms
}

// SpanN returns the run of the atom stream covering the residues that the
// first n atoms named kind belong to, from the first atom of the first such
// residue to the last atom of the last one. It is the whole fragment that
// SegmentN picks its points from.
//
// Residues in the stream are runs of consecutive atoms with the same chain,
// residue name, number and insertion code.
func (e *Entry) SpanN(n int, kind string) []Atom {
	if n <= 0 {
		return nil
	}
	first, last, taken := -1, -1, 0
	for i, atom := range e.Atoms {
		if atom.Name != kind {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		taken++
		if taken == n {
			break
		}
	}
	if first < 0 {
		return nil
	}
	for first > 0 && sameResidue(e.Atoms[first-1], e.Atoms[first]) {
		first--
	}
	for last+1 < len(e.Atoms) && sameResidue(e.Atoms[last], e.Atoms[last+1]) {
		last++
	}
	return append([]Atom(nil), e.Atoms[first:last+1]...)
}

func sameResidue(a, b Atom) bool {
	return a.Chain == b.Chain &&
		a.Residue == b.Residue &&
		a.ResidueSeq == b.ResidueSeq &&
		a.InsertionCode == b.InsertionCode
}

// ResiduePair maps a residue number in a reference chain to the residue
// number it corresponds to in a candidate chain.
type ResiduePair struct {
	Ref, Cand int
}

// Offset builds the correspondence table for a reference window
// [start, end] whose candidate residues are renumbered from candStart.
func Offset(start, end, candStart int) []ResiduePair {
	pairs := make([]ResiduePair, 0, max(0, end-start+1))
	for num := start; num <= end; num++ {
		pairs = append(pairs, ResiduePair{num, candStart + num - start})
	}
	return pairs
}

// SegmentPairs extracts two corresponding coordinate sequences using an
// explicit residue correspondence table. A pair contributes a point to both
// sequences only if both residues exist and carry an atom named kind;
// otherwise it is skipped and counted.
//
// If a chain has several residues with the same number (insertion codes),
// the first one in file order is used.
func SegmentPairs(ref, cand *Chain, pairs []ResiduePair, kind string) (refCoords, candCoords []Coords, skipped int) {
	refIdx, candIdx := ref.byNumber(), cand.byNumber()
	refCoords = make([]Coords, 0, len(pairs))
	candCoords = make([]Coords, 0, len(pairs))
	for _, p := range pairs {
		r1, ok1 := refIdx[p.Ref]
		r2, ok2 := candIdx[p.Cand]
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		a1, ok1 := r1.Atom(kind)
		a2, ok2 := r2.Atom(kind)
		if !ok1 || !ok2 {
			skipped++
			continue
		}
		refCoords = append(refCoords, a1.Coords)
		candCoords = append(candCoords, a2.Coords)
	}
	return refCoords, candCoords, skipped
}

// CoordsOf returns the positions of atoms, in order.
func CoordsOf(atoms []Atom) []Coords {
	coords := make([]Coords, len(atoms))
	for i, atom := range atoms {
		coords[i] = atom.Coords
	}
	return coords
}

func (c *Chain) byNumber() map[int]*Residue {
	idx := make(map[int]*Residue, len(c.Residues))
	for _, r := range c.Residues {
		if _, ok := idx[r.SequenceNum]; !ok {
			idx[r.SequenceNum] = r
		}
	}
	return idx
}
