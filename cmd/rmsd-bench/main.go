package main

import (
	"context"
	"flag"
	"os"

	"github.com/QDockBank/Databank-Creation/bench"
	"github.com/QDockBank/Databank-Creation/cmd/util"
)

var (
	cfg = bench.DefaultConfig()

	flagTop    = ""
	flagOutput = "rmsd_summary.txt"
	flagHeader = ""
)

func init() {
	flag.StringVar(&flagTop, "top", flagTop,
		"A file listing the predicted model to use for each ID, one\n"+
			"'id top_N' pair per line. When set, only the IDs in this file\n"+
			"are compared, in its order.")
	flag.StringVar(&flagOutput, "o", flagOutput,
		"The file to write the RMSD summary to. Use '-' for stdout.")
	flag.StringVar(&flagHeader, "header", flagHeader,
		"An optional comment written at the top of the summary.")
	flag.StringVar(&cfg.ReferenceDir, "ref-dir", cfg.ReferenceDir,
		"The directory containing reference structures.")
	flag.StringVar(&cfg.ReferenceName, "ref-name", cfg.ReferenceName,
		"The reference file name template. '{id}' is replaced by the ID.")
	flag.StringVar(&cfg.PredictedDir, "pred-dir", cfg.PredictedDir,
		"The directory containing predicted structures.")
	flag.StringVar(&cfg.PredictedName, "pred-name", cfg.PredictedName,
		"The predicted file name template. '{id}' is replaced by the ID\n"+
			"and '{top}' by the model named in the top list.")
	flag.BoolVar(&cfg.Positional, "positional", cfg.Positional,
		"When set, a predicted fragment is the first N atoms of the\n"+
			"predicted file, where N is the length of the residue window.\n"+
			"Otherwise residues are matched by number from -pred-start.")
	flag.IntVar(&cfg.PredictedStart, "pred-start", cfg.PredictedStart,
		"The first residue number of a predicted fragment when\n"+
			"-positional is false.")
	flag.StringVar(&cfg.PredictedChain, "pred-chain", cfg.PredictedChain,
		"The chain of a predicted fragment when -positional is false.\n"+
			"Defaults to the chain of the reference window.")
	flag.StringVar(&cfg.AlignedDir, "aligned-dir", cfg.AlignedDir,
		"When set, every superimposed predicted fragment is written to\n"+
			"this directory as aligned_fragment_{id}.pdb.")

	util.FlagUse("cpu", "verbose", "atom")
	util.FlagParse("index-file",
		"Computes the RMSD between every fragment of a benchmark index and\n"+
			"its predicted structure, and writes a summary.")
	util.AssertNArg(1)

	cfg.AtomKind = util.FlagAtom
	cfg.Threads = max(1, util.FlagCpu)
}

func main() {
	util.AssertIsDir(cfg.ReferenceDir)
	util.AssertIsDir(cfg.PredictedDir)

	targets := util.IndexRead(util.Arg(0))
	var top []bench.TopEntry
	if len(flagTop) > 0 {
		top = util.TopListRead(flagTop)
	} else if cfg.UsesTop() {
		util.Fatalf("The predicted file name template '%s' needs a top list "+
			"(set -top).", cfg.PredictedName)
	}
	jobs := bench.Plan(targets, top)
	util.Verbosef("Comparing %d fragments with %d workers.\n",
		len(jobs), cfg.Threads)
	if len(cfg.AlignedDir) > 0 {
		util.Assert(os.MkdirAll(cfg.AlignedDir, 0755),
			"Could not create directory '%s'", cfg.AlignedDir)
	}

	out := os.Stdout
	if flagOutput != "-" {
		out = util.CreateFile(flagOutput)
	}
	summary, err := bench.NewSummaryWriter(out, flagHeader)
	util.Assert(err, "Could not write summary header")

	progress := util.NewProgress(len(jobs))
	err = bench.Run(context.Background(), cfg, jobs,
		func(r bench.Result) error {
			progress.Record(r)
			return summary.Write(r)
		})
	progress.Close()
	util.Assert(err, "Could not compare fragments")
	util.Assert(summary.Flush(), "Could not write summary")

	if flagOutput != "-" {
		if !util.Warning(out.Close(), "Could not close '%s'", flagOutput) {
			util.Warnf("All done! Summary written to '%s'.", flagOutput)
		}
	}
}
