package recorder

import (
	"errors"
	"time"
)

// FailureRecord is one skipped symbol.
type FailureRecord struct {
	Timestamp time.Time
	Market    string
	Symbol    string
	Reason    string // model.Reason* classification
	Error     string
}

// Recorder is an append-only sink for failed symbols.
type Recorder interface {
	RecordFailure(rec *FailureRecord) error
	Close() error
}

// MultiRecorder fans every record out to all recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordFailure(rec *FailureRecord) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordFailure(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
