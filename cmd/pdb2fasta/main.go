package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/QDockBank/Databank-Creation/cmd/util"
	"github.com/QDockBank/Databank-Creation/pdb"
)

var (
	flagChain          = ""
	flagSeparateChains = false
	flagSeqRes         = false
	flagWindow         = ""
)

func init() {
	flag.BoolVar(&flagSeparateChains, "separate-chains", flagSeparateChains,
		"When set, each chain will get its own FASTA entry.")
	flag.StringVar(&flagChain, "chain", flagChain,
		"A comma separated list of chain identifiers. Only amino acids\n"+
			"belonging to a chain specified will be included.")
	flag.BoolVar(&flagSeqRes, "seqres", flagSeqRes,
		"When set, sequences will be read from the SEQRES records.\n"+
			"Otherwise, sequences are read from residues in ATOM records.")
	flag.StringVar(&flagWindow, "window", flagWindow,
		"An inclusive residue range 'start-end'. When set, only residues\n"+
			"numbered in this range are included. Implies ATOM sequences.")

	util.FlagUse("atom")
	util.FlagParse("in-pdb-file [out-fasta-file]",
		"Writes the amino acid sequences of a PDB file as FASTA.")
	if util.NArg() < 1 || util.NArg() > 2 {
		util.Usage()
	}
}

func main() {
	entry := util.PDBRead(util.Arg(0))

	out := os.Stdout
	if util.NArg() == 2 {
		out = util.CreateFile(util.Arg(1))
		defer out.Close()
	}

	start, end, windowed := parseWindow()
	type fasEntry struct {
		header string
		seq    []byte
	}
	var entries []fasEntry
	if !flagSeparateChains {
		header := entry.Name()
		if len(entry.Chains) == 1 {
			header = chainHeader(entry.Chains[0])
		}
		var seq []byte
		for _, chain := range entry.Chains {
			if isChainUsable(chain) {
				seq = append(seq, chainSequence(chain, start, end, windowed)...)
			}
		}
		if len(seq) == 0 {
			util.Fatalf("Could not find any amino acids.")
		}
		entries = append(entries, fasEntry{header, seq})
	} else {
		for _, chain := range entry.Chains {
			if !isChainUsable(chain) {
				continue
			}
			seq := chainSequence(chain, start, end, windowed)
			entries = append(entries, fasEntry{chainHeader(chain), seq})
		}
	}
	if len(entries) == 0 {
		util.Fatalf("Could not find any chains with amino acids.")
	}

	buf := bufio.NewWriter(out)
	for _, e := range entries {
		fmt.Fprintf(buf, ">%s\n", e.header)
		for i := 0; i < len(e.seq); i += 60 {
			fmt.Fprintf(buf, "%s\n", e.seq[i:min(i+60, len(e.seq))])
		}
	}
	util.Assert(buf.Flush(), "Could not write FASTA")
}

func parseWindow() (start, end int, ok bool) {
	if len(flagWindow) == 0 {
		return 0, 0, false
	}
	i := strings.LastIndex(flagWindow, "-")
	if i <= 0 {
		util.Fatalf("Invalid window '%s'. Expected 'start-end'.", flagWindow)
	}
	start = util.ParseInt(flagWindow[:i])
	end = util.ParseInt(flagWindow[i+1:])
	return start, end, true
}

func chainHeader(chain *pdb.Chain) string {
	return fmt.Sprintf("%s%s", chain.Entry.Name(), chain.Ident)
}

// chainSequence returns the SEQRES sequence of a chain, or the one letter
// codes of its residues that have an atom of the selected kind.
func chainSequence(chain *pdb.Chain, start, end int, windowed bool) []byte {
	if flagSeqRes && !windowed {
		return chain.Sequence
	}
	var seq []byte
	for _, res := range chain.Residues {
		if windowed && (res.SequenceNum < start || res.SequenceNum > end) {
			continue
		}
		if _, ok := res.Atom(util.FlagAtom); !ok {
			continue
		}
		if code, ok := pdb.AminoThreeToOne[res.Name]; ok {
			seq = append(seq, code)
		} else {
			seq = append(seq, 'X')
		}
	}
	return seq
}

func isChainUsable(chain *pdb.Chain) bool {
	if len(flagChain) == 0 {
		return true
	}
	for _, ident := range strings.Split(flagChain, ",") {
		if chain.Ident == strings.TrimSpace(ident) {
			return true
		}
	}
	return false
}
