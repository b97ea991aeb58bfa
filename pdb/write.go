package pdb

import (
	"bufio"
	"fmt"
	"io"
)

// WriteAtoms writes atoms as fixed-column ATOM (or HETATM) records,
// followed by an END record. Serial numbers are reassigned from 1.
func WriteAtoms(w io.Writer, atoms []Atom) error {
	buf := bufio.NewWriter(w)
	for i, atom := range atoms {
		if _, err := fmt.Fprintln(buf, FormatAtom(i+1, atom)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(buf, "END"); err != nil {
		return err
	}
	return buf.Flush()
}

// FormatAtom formats a single ATOM record with the given serial number.
func FormatAtom(serial int, atom Atom) string {
	// Atom names shorter than four characters start in column 14.
	name := atom.Name
	if len(name) < 4 {
		name = " " + name
	}
	icode := atom.InsertionCode
	if icode == 0 {
		icode = ' '
	}
	chain := atom.Chain
	if len(chain) == 0 {
		chain = " "
	}
	record := "ATOM"
	if atom.Hetero {
		record = "HETATM"
	}
	return fmt.Sprintf("%-6s%5d %-4s %3s %1.1s%4d%c   %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		record, serial, name, atom.Residue, chain, atom.ResidueSeq, icode,
		atom.Coords[0], atom.Coords[1], atom.Coords[2], 1.0, 0.0,
		atom.Element)
}
