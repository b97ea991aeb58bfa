package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/QDockBank/Databank-Creation/pdb"
	"github.com/QDockBank/Databank-Creation/rmsd"
)

// Job is one comparison to run. Reason is preset when the job is known to
// be unanswerable before any file is read.
type Job struct {
	Target Target
	Top    string
	Reason string
}

// Plan turns an index and an optional top list into jobs. Without a top list
// there is one job per target in index order. With one, there is one job per
// top list entry in its order, and entries missing from the index are
// reported as such.
func Plan(targets []Target, top []TopEntry) []Job {
	if top == nil {
		jobs := make([]Job, len(targets))
		for i, t := range targets {
			jobs[i] = Job{Target: t}
		}
		return jobs
	}

	byID := make(map[string]Target, len(targets))
	for _, t := range targets {
		byID[t.ID] = t
	}
	jobs := make([]Job, len(top))
	for i, e := range top {
		t, ok := byID[e.ID]
		if !ok {
			jobs[i] = Job{
				Target: Target{ID: e.ID},
				Top:    e.Top,
				Reason: "not in benchmark index",
			}
			continue
		}
		jobs[i] = Job{Target: t, Top: e.Top}
	}
	return jobs
}

// Result is the outcome of one comparison. A result either has an RMSD or a
// Reason explaining why none could be computed.
type Result struct {
	ID     string
	RMSD   float64
	Reason string

	// Predicted and Reference are the number of atoms extracted.
	Predicted, Reference int

	// Skipped is the number of residue pairs left out in numbered mode
	// because one side lacks the atom.
	Skipped int

	// Warning is set when the RMSD was computed but a side output (the
	// aligned fragment) failed.
	Warning string
}

// OK reports whether an RMSD was computed.
func (r Result) OK() bool {
	return len(r.Reason) == 0
}

func (r Result) String() string {
	if r.OK() {
		return fmt.Sprintf("%s => RMSD=%.3f", r.ID, r.RMSD)
	}
	return fmt.Sprintf("%s => N/A (%s)", r.ID, r.Reason)
}

// Run compares every job on cfg.Threads workers and calls visit with each
// result, in job order. A job that cannot be compared yields a Result with a
// Reason; it never stops the batch.
//
// Run returns early with the first error returned by visit, or with the
// context's error if it is cancelled.
func Run(ctx context.Context, cfg Config, jobs []Job, visit func(Result) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type indexed struct {
		i int
		r Result
	}
	in := make(chan int, cfg.Threads*2)
	out := make(chan indexed, cfg.Threads*2)

	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for i := range in {
				if ctx.Err() != nil {
					return
				}
				r := Compare(cfg, jobs[i])
				select {
				case out <- indexed{i, r}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(in)
		for i := range jobs {
			select {
			case in <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	// Workers finish out of order; hold results until their turn.
	pending := make(map[int]Result)
	next := 0
	for ir := range out {
		pending[ir.i] = ir.r
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := visit(r); err != nil {
				cancel()
				return err
			}
		}
	}
	if next < len(jobs) {
		return ctx.Err()
	}
	return nil
}

// Compare runs a single comparison of a predicted fragment against its
// reference window.
func Compare(cfg Config, job Job) Result {
	t := job.Target
	res := Result{ID: t.ID, Reason: job.Reason}
	if !res.OK() {
		return res
	}

	n := t.Len()
	if n <= 0 {
		res.Reason = fmt.Sprintf("invalid residue range %d-%d", t.Start, t.End)
		return res
	}

	predPath := cfg.PredictedPath(t.ID, job.Top)
	if !isFile(predPath) {
		res.Reason = "predicted file not found: " + predPath
		return res
	}
	refPath := cfg.ReferencePath(t.ID)
	if !isFile(refPath) {
		res.Reason = "real file not found: " + refPath
		return res
	}

	predEntry, err := pdb.ReadPDB(predPath)
	if err != nil {
		res.Reason = fmt.Sprintf("cannot read %s: %s", predPath, err)
		return res
	}
	refEntry, err := pdb.ReadPDB(refPath)
	if err != nil {
		res.Reason = fmt.Sprintf("cannot read %s: %s", refPath, err)
		return res
	}

	refCoords, predCoords, skipped, err := extract(cfg, refEntry, predEntry, t)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	res.Predicted, res.Reference = len(predCoords), len(refCoords)
	res.Skipped = skipped

	if len(predCoords) == 0 || len(refCoords) == 0 {
		res.Reason = fmt.Sprintf("insufficient atoms: pred=%d, real=%d",
			len(predCoords), len(refCoords))
		return res
	}

	a, err := rmsd.Align(refCoords, predCoords)
	switch {
	case errors.Is(err, rmsd.ErrMismatch):
		res.Reason = err.Error()
		return res
	case err != nil:
		res.Reason = "cannot compute RMSD: " + err.Error()
		return res
	}
	res.RMSD = a.RMSD

	if len(cfg.AlignedDir) > 0 {
		fragment := fragmentAtoms(cfg, predEntry, t)
		if err := writeAligned(cfg.AlignedPath(t.ID), fragment, a); err != nil {
			res.Warning = fmt.Sprintf("cannot write aligned fragment: %s", err)
		}
	}
	return res
}

// extract returns the corresponding reference and predicted points of a
// target.
//
// In positional mode the reference window is read by residue number and
// the predicted points are the first atoms of the stream. Otherwise residue
// start+k of the reference is paired with residue PredictedStart+k of the
// predicted chain, and pairs missing the atom on either side are skipped.
func extract(cfg Config, ref, pred *pdb.Entry, t Target) (
	refCoords, predCoords []pdb.Coords, skipped int, err error) {

	if cfg.Positional {
		refCoords, err = ref.Segment(t.Chain, t.Start, t.End, cfg.AtomKind)
		if err != nil {
			return nil, nil, 0, err
		}
		return refCoords, pred.SegmentN(t.Len(), cfg.AtomKind), 0, nil
	}

	refChain := ref.Chain(t.Chain)
	if refChain == nil {
		return nil, nil, 0, &pdb.ChainNotFoundError{Path: ref.Path, Chain: t.Chain}
	}
	ident := predictedChain(cfg, t)
	predChain := pred.Chain(ident)
	if predChain == nil {
		return nil, nil, 0, &pdb.ChainNotFoundError{Path: pred.Path, Chain: ident}
	}
	pairs := pdb.Offset(t.Start, t.End, cfg.PredictedStart)
	refCoords, predCoords, skipped = pdb.SegmentPairs(refChain, predChain,
		pairs, cfg.AtomKind)
	return refCoords, predCoords, skipped, nil
}

// fragmentAtoms returns every atom of the predicted residues a target was
// compared on. It is called only after extract succeeded.
func fragmentAtoms(cfg Config, pred *pdb.Entry, t Target) []pdb.Atom {
	if cfg.Positional {
		return pred.SpanN(t.Len(), cfg.AtomKind)
	}
	start := cfg.PredictedStart
	return pred.Chain(predictedChain(cfg, t)).WindowAtoms(start, start+t.Len()-1)
}

func predictedChain(cfg Config, t Target) string {
	if len(cfg.PredictedChain) > 0 {
		return cfg.PredictedChain
	}
	return t.Chain
}

// writeAligned moves atoms with the alignment's transform and writes them.
func writeAligned(path string, atoms []pdb.Atom, a *rmsd.Alignment) error {
	moved := make([]pdb.Atom, len(atoms))
	for i, p := range a.Apply(pdb.CoordsOf(atoms)) {
		moved[i] = atoms[i]
		moved[i].Coords = p
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pdb.WriteAtoms(f, moved); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
