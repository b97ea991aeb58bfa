package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/QDockBank/Databank-Creation/cmd/util"
	"github.com/QDockBank/Databank-Creation/pdb"
	"github.com/QDockBank/Databank-Creation/rmsd"
)

var (
	flagPredStart = 0
	flagPredChain = ""
	flagOutput    = "-"
)

func init() {
	flag.IntVar(&flagPredStart, "pred-start", flagPredStart,
		"When positive, residues of the reference window are paired with\n"+
			"predicted residues numbered from this one. Otherwise the\n"+
			"predicted fragment is the first N atoms of the predicted file.")
	flag.StringVar(&flagPredChain, "pred-chain", flagPredChain,
		"The chain of the predicted fragment when -pred-start is set.\n"+
			"Defaults to the reference chain.")
	flag.StringVar(&flagOutput, "o", flagOutput,
		"The PDB file to write the aligned fragment to, with every atom of\n"+
			"its residues. Use '-' for stdout.")

	util.FlagUse("atom")
	util.FlagParse("ref-pdb-file chain-id start stop pred-pdb-file",
		"Superimposes a predicted fragment onto a window of a reference\n"+
			"chain and writes the moved fragment as PDB ATOM records.")
	util.AssertNArg(5)
}

func main() {
	ref := util.PDBRead(util.Arg(0))
	chain := util.Arg(1)
	start, end := util.ParseInt(util.Arg(2)), util.ParseInt(util.Arg(3))
	pred := util.PDBRead(util.Arg(4))
	n := end - start + 1

	var refCoords, predCoords []pdb.Coords
	var fragment []pdb.Atom
	if flagPredStart > 0 {
		refChain := ref.Chain(chain)
		if refChain == nil {
			util.Assert(&pdb.ChainNotFoundError{Path: ref.Path, Chain: chain})
		}
		ident := flagPredChain
		if len(ident) == 0 {
			ident = chain
		}
		predChain := pred.Chain(ident)
		if predChain == nil {
			util.Assert(&pdb.ChainNotFoundError{Path: pred.Path, Chain: ident})
		}

		var skipped int
		pairs := pdb.Offset(start, end, flagPredStart)
		refCoords, predCoords, skipped = pdb.SegmentPairs(refChain, predChain,
			pairs, util.FlagAtom)
		if skipped > 0 {
			util.Warnf("Skipped %d residue pairs without '%s'.",
				skipped, util.FlagAtom)
		}
		fragment = predChain.WindowAtoms(flagPredStart, flagPredStart+n-1)
	} else {
		var err error
		refCoords, err = ref.Segment(chain, start, end, util.FlagAtom)
		util.Assert(err)
		predCoords = pred.SegmentN(n, util.FlagAtom)
		fragment = pred.SpanN(n, util.FlagAtom)
	}
	if len(refCoords) == 0 || len(predCoords) == 0 {
		util.Fatalf("Insufficient '%s' atoms: pred=%d, real=%d.",
			util.FlagAtom, len(predCoords), len(refCoords))
	}

	a, err := rmsd.Align(refCoords, predCoords)
	util.Assert(err)
	for i, p := range a.Apply(pdb.CoordsOf(fragment)) {
		fragment[i].Coords = p
	}

	out := os.Stdout
	if flagOutput != "-" {
		out = util.CreateFile(flagOutput)
		defer out.Close()
	}
	util.Assert(pdb.WriteAtoms(out, fragment), "Could not write fragment")
	fmt.Fprintf(os.Stderr, "RMSD: %.3f\n", a.RMSD)
}
