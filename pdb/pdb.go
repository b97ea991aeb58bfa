package pdb

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O', "MSE": 'M',
}

// ErrResidueNumber is returned by ParseAtom when a record's residue sequence
// number cannot be read. The rest of the atom is still returned.
var ErrResidueNumber = errors.New("unreadable residue sequence number")

// AlphaCarbon is the atom name of the alpha-carbon, which is the atom kind
// used to represent a residue in segment comparisons.
const AlphaCarbon = "CA"

// Coords is a point in three dimensional space.
type Coords [3]float64

// Atom is a single ATOM or HETATM record.
type Atom struct {
	Serial        int
	Name          string
	Residue       string
	Chain         string
	ResidueSeq    int
	InsertionCode byte
	Element       string
	Hetero        bool
	Coords
}

// Residue is a group of consecutive ATOM records sharing a chain, residue
// name, sequence number and insertion code.
type Residue struct {
	Name          string
	SequenceNum   int
	InsertionCode byte
	Atoms         []Atom
}

// Atom returns the first atom in this residue with the given name.
func (r *Residue) Atom(name string) (Atom, bool) {
	for _, atom := range r.Atoms {
		if atom.Name == name {
			return atom, true
		}
	}
	return Atom{}, false
}

// Ca returns the alpha-carbon atom in this residue, if it has one.
func (r *Residue) Ca() (Atom, bool) {
	return r.Atom(AlphaCarbon)
}

// Chain represents a protein chain or subunit. Residues are kept in the
// order in which they appear in the file.
type Chain struct {
	Entry    *Entry
	Ident    string
	Sequence []byte
	Residues []*Residue
}

// String returns a FASTA-like formatted string of this chain.
func (c *Chain) String() string {
	first, last := 0, 0
	if len(c.Residues) > 0 {
		first = c.Residues[0].SequenceNum
		last = c.Residues[len(c.Residues)-1].SequenceNum
	}
	return fmt.Sprintf("> Chain %s (%d, %d) :: length %d\n%s",
		c.Ident, first, last, len(c.Sequence), string(c.Sequence))
}

// Entry is a parsed structure file. Only the first model is read.
//
// Chains hold both ATOM and HETATM records, so modified residues such as
// selenomethionine keep their place in a chain.
//
// Atoms holds every ATOM record of that model in file order, regardless of
// chain or residue number. It is what the positional extraction mode scans,
// since predicted structures often carry no usable residue numbering.
type Entry struct {
	Path   string
	IdCode string
	Chains []*Chain
	Atoms  []Atom

	// Malformed counts records that could not be parsed and were skipped.
	Malformed int

	// Unnumbered counts records without a readable residue number. They
	// are in Atoms but not in any chain.
	Unnumbered int
}

// Chain returns the chain with the given identifier, or nil if no such
// chain exists. The comparison is case sensitive.
func (e *Entry) Chain(ident string) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// Name returns the ID code of the entry, falling back to the base name of
// its file.
func (e *Entry) Name() string {
	if len(e.IdCode) > 0 {
		return strings.ToLower(e.IdCode)
	}
	return path.Base(e.Path)
}

// ReadPDB reads a PDB (or PDBQT) file. If the file cannot be read, or there
// is an error parsing it, an error is returned.
//
// If the file name ends with ".gz", gzip decompression will be used.
func ReadPDB(fileName string) (*Entry, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if path.Ext(fileName) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", fileName, err)
		}
		defer gz.Close()
		reader = gz
	}
	return Read(reader, fileName)
}

// Read parses ATOM, HETATM, SEQRES and HEADER records from r. The name
// given is stored as the entry's path and used in error messages.
func Read(r io.Reader, name string) (*Entry, error) {
	entry := &Entry{Path: name}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// The record name is always in the first six columns.
		record := line
		if len(record) > 6 {
			record = record[0:6]
		}
		switch strings.TrimSpace(record) {
		case "HEADER":
			if len(line) >= 66 {
				entry.IdCode = strings.TrimSpace(line[62:66])
			}
		case "SEQRES":
			entry.parseSeqres(line)
		case "ATOM", "HETATM":
			entry.parseAtom(line)
		case "ENDMDL":
			return entry, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return entry, nil
}

// getOrMakeChain looks for a chain corresponding to the chain identifier.
// If one doesn't exist, it is created and appended to the entry.
func (e *Entry) getOrMakeChain(ident string) *Chain {
	if chain := e.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{Entry: e, Ident: ident}
	e.Chains = append(e.Chains, chain)
	return chain
}

// parseSeqres adds the residues of a SEQRES record to its chain's sequence.
// Residues that aren't amino acids are ignored.
//
// N.B. This assumes that the SEQRES records are in order in the file.
func (e *Entry) parseSeqres(line string) {
	if len(line) < 12 {
		return
	}
	chain := e.getOrMakeChain(strings.TrimSpace(line[11:12]))

	// Residues are in columns 20-22, 24-26, ..., 68-70.
	for i := 19; i+3 <= len(line) && i <= 67; i += 4 {
		residue := strings.TrimSpace(line[i : i+3])
		if single, ok := AminoThreeToOne[residue]; ok {
			chain.Sequence = append(chain.Sequence, single)
		}
	}
}

// parseAtom adds an ATOM record to the flat atom stream, and an ATOM or
// HETATM record to the residue it belongs to.
func (e *Entry) parseAtom(line string) {
	atom, err := ParseAtom(line)
	switch {
	case errors.Is(err, ErrResidueNumber):
		e.Unnumbered++
		if !atom.Hetero {
			e.Atoms = append(e.Atoms, atom)
		}
		return
	case err != nil:
		e.Malformed++
		return
	}
	if !atom.Hetero {
		e.Atoms = append(e.Atoms, atom)
	}

	chain := e.getOrMakeChain(atom.Chain)
	var last *Residue
	if n := len(chain.Residues); n > 0 {
		last = chain.Residues[n-1]
	}
	if last == nil ||
		last.SequenceNum != atom.ResidueSeq ||
		last.InsertionCode != atom.InsertionCode ||
		last.Name != atom.Residue {
		last = &Residue{
			Name:          atom.Residue,
			SequenceNum:   atom.ResidueSeq,
			InsertionCode: atom.InsertionCode,
		}
		chain.Residues = append(chain.Residues, last)
	}

	// Alternate locations repeat an atom name. The first one wins.
	if _, ok := last.Atom(atom.Name); !ok {
		last.Atoms = append(last.Atoms, atom)
	}
}

// ParseAtom reads a single ATOM (or HETATM) record.
//
// Fixed columns are tried first. Some docking tools write PDBQT files whose
// coordinate columns drift, so when the fixed columns do not hold numbers
// the coordinates are taken from the 7th, 8th and 9th whitespace separated
// fields instead.
//
// If only the residue sequence number is unreadable, the atom is returned
// along with an error matching ErrResidueNumber.
func ParseAtom(line string) (Atom, error) {
	var atom Atom
	if len(line) < 27 {
		return atom, fmt.Errorf("ATOM record too short: %q", line)
	}
	atom.Hetero = strings.HasPrefix(line, "HETATM")

	atom.Serial, _ = strconv.Atoi(strings.TrimSpace(line[6:11]))
	atom.Name = strings.TrimSpace(line[12:16])
	atom.Residue = strings.TrimSpace(line[17:20])
	atom.Chain = strings.TrimSpace(line[21:22])
	atom.InsertionCode = line[26]
	if atom.InsertionCode == ' ' {
		atom.InsertionCode = 0
	}
	var seqErr error
	if seq, err := strconv.Atoi(strings.TrimSpace(line[22:26])); err != nil {
		seqErr = fmt.Errorf("%w in %q", ErrResidueNumber, line)
	} else {
		atom.ResidueSeq = seq
	}

	if coords, err := fixedCoords(line); err == nil {
		atom.Coords = coords
	} else if coords, ferr := fieldCoords(line); ferr == nil {
		atom.Coords = coords
	} else {
		return atom, fmt.Errorf("coordinates in %q: %w", line, err)
	}
	if len(line) >= 78 {
		atom.Element = strings.TrimSpace(line[76:78])
	}
	return atom, seqErr
}

func fixedCoords(line string) (Coords, error) {
	var c Coords
	if len(line) < 54 {
		return c, fmt.Errorf("line has %d columns, need 54", len(line))
	}
	for i := 0; i < 3; i++ {
		lo := 30 + i*8
		v, err := strconv.ParseFloat(strings.TrimSpace(line[lo:lo+8]), 64)
		if err != nil {
			return c, err
		}
		c[i] = v
	}
	return c, nil
}

func fieldCoords(line string) (Coords, error) {
	var c Coords
	fields := strings.Fields(line)
	if len(fields) < 9 {
		return c, fmt.Errorf("line has %d fields, need 9", len(fields))
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[6+i], 64)
		if err != nil {
			return c, err
		}
		c[i] = v
	}
	return c, nil
}
