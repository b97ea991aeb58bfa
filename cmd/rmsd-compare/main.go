package main

import (
	"flag"
	"os"

	"github.com/QDockBank/Databank-Creation/bench"
	"github.com/QDockBank/Databank-Creation/cmd/util"
)

var (
	flagLabelA = "quantum"
	flagLabelB = "af2"
	flagGroups = ""
	flagGroup  = ""
	flagOutput = "-"
)

func init() {
	flag.StringVar(&flagLabelA, "a", flagLabelA,
		"The label of the first summary.")
	flag.StringVar(&flagLabelB, "b", flagLabelB,
		"The label of the second summary.")
	flag.StringVar(&flagGroups, "groups", flagGroups,
		"A group index file with '[Group S]' sections. Required by -group.")
	flag.StringVar(&flagGroup, "group", flagGroup,
		"When set, only IDs in this group of the -groups file are compared.")
	flag.StringVar(&flagOutput, "o", flagOutput,
		"The file to write the comparison to. Use '-' for stdout.")

	util.FlagParse("summary-a summary-b",
		"Compares two RMSD summaries written by rmsd-bench. For every ID\n"+
			"present in both, the lower RMSD is better.")
	util.AssertNArg(2)
	if len(flagGroup) > 0 && len(flagGroups) == 0 {
		util.Fatalf("-group requires -groups.")
	}
}

func main() {
	a := util.SummaryRead(util.Arg(0))
	b := util.SummaryRead(util.Arg(1))

	var keep func(string) bool
	if len(flagGroup) > 0 {
		groups := util.GroupsRead(flagGroups)
		keep = func(id string) bool {
			return groups[id] == flagGroup
		}
	}
	cmp := bench.CompareSummaries(flagLabelA, flagLabelB, a, b, keep)

	out := os.Stdout
	if flagOutput != "-" {
		out = util.CreateFile(flagOutput)
		defer out.Close()
	}
	util.Assert(bench.WriteComparison(out, cmp), "Could not write comparison")
}
