package model

import "time"

// SymbolOutcome is the typed result of processing one symbol in a scan pass.
// Err is set for failures; Kind and Price are meaningful only when Err is nil.
type SymbolOutcome struct {
	Symbol  Symbol
	Kind    CrossKind
	Price   float64
	Date    time.Time
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the symbol was skipped because of an error.
func (o SymbolOutcome) Failed() bool { return o.Err != nil }

// ScanResult aggregates one scan pass. It lives only until the summary is sent.
type ScanResult struct {
	Market      string
	StartedAt   time.Time
	Elapsed     time.Duration
	Total       int
	Processed   int
	Golden      int
	Dead        int
	Failed      int
	Interrupted bool
}

// Add folds a symbol outcome into the aggregate.
func (r *ScanResult) Add(o SymbolOutcome) {
	r.Processed++
	if o.Failed() {
		r.Failed++
		return
	}
	switch o.Kind {
	case CrossGolden:
		r.Golden++
	case CrossDead:
		r.Dead++
	}
}
