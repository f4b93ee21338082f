package model

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidWindow    = errors.New("invalid moving average windows")
)

// Failure reasons used in logs, failure records and metrics labels.
const (
	ReasonInsufficientData = "insufficient_data"
	ReasonFetch            = "fetch"
	ReasonUnexpected       = "unexpected"
)

// DataFetchError reports that a price series could not be obtained for a symbol.
type DataFetchError struct {
	Symbol string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }

// DeliveryError reports a notification that the destination rejected or never received.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// FailureReason classifies a per-symbol error.
func FailureReason(err error) string {
	var fetchErr *DataFetchError
	switch {
	case errors.Is(err, ErrInsufficientData):
		return ReasonInsufficientData
	case errors.As(err, &fetchErr):
		return ReasonFetch
	default:
		return ReasonUnexpected
	}
}
