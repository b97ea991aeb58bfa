package util

import (
	"github.com/QDockBank/Databank-Creation/bench"
)

// Progress reports comparison results as they complete. Records without an
// RMSD are always logged; the running tally only with -verbose.
type Progress struct {
	results chan bench.Result
	done    chan struct{}
}

func NewProgress(total int) Progress {
	p := Progress{make(chan bench.Result), make(chan struct{})}
	go func() {
		completed := 0
		naCount := 0
		for r := range p.results {
			completed += 1
			if !r.OK() {
				naCount += 1
				if FlagVerbose {
					Warnf("\r%s                                    \n", r)
				} else {
					Warnf("%s", r)
				}
			} else {
				Verbosef("\r%s                                    \n", r)
			}
			if r.Skipped > 0 {
				Warnf("%s: %d residue pairs without '%s' skipped",
					r.ID, r.Skipped, FlagAtom)
			}
			if len(r.Warning) > 0 {
				Warnf("%s: %s", r.ID, r.Warning)
			}

			ratio := 100.0 * (float64(completed) / float64(total))
			Verbosef("\r%d of %d records compared (%0.2f%% done, %d N/A)",
				completed, total, ratio, naCount)
		}
		Verbosef("\n")
		p.done <- struct{}{}
	}()
	return p
}

func (p Progress) Record(r bench.Result) {
	p.results <- r
}

func (p Progress) Close() {
	close(p.results)
	<-p.done
}
