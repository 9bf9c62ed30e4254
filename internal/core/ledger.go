package core

import (
	"sort"

	"github.com/mhmtszr/concurrent-swiss-map"
)

// Result is the final state of one file in a run.
type Result struct {
	Source  string
	Target  string
	Outcome Outcome
	Stage   Stage
	Err     error
}

// Summary counts results by how they ended.
type Summary struct {
	Moved   int
	Skipped int
	Failed  int
}

// Ledger collects per-file results written concurrently by pool workers.
type Ledger struct {
	results *csmap.CsMap[string, Result]
}

func NewLedger() *Ledger {
	return &Ledger{results: csmap.Create[string, Result]()}
}

// Record stores r under its source path, replacing an earlier result.
func (l *Ledger) Record(r Result) {
	l.results.Store(r.Source, r)
}

// Get returns the result recorded for source.
func (l *Ledger) Get(source string) (Result, bool) {
	return l.results.Load(source)
}

func (l *Ledger) Len() int {
	return l.results.Count()
}

// Results returns every result ordered by source path.
func (l *Ledger) Results() []Result {
	out := make([]Result, 0, l.results.Count())
	l.results.Range(func(_ string, r Result) bool {
		out = append(out, r)
		return false
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

func (l *Ledger) Summary() Summary {
	var s Summary
	l.results.Range(func(_ string, r Result) bool {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Outcome.Moved():
			s.Moved++
		default:
			s.Skipped++
		}
		return false
	})
	return s
}
