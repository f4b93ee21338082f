package strategy

import (
	"fmt"

	"CrossSentinel/internal/calculator"
	"CrossSentinel/internal/model"
)

// MASamples computes the short and long simple moving averages over series and
// returns only the dates where both are defined.
func MASamples(series model.PriceSeries, short, long int) ([]model.MASample, error) {
	if short <= 0 || short >= long {
		return nil, fmt.Errorf("%w: short=%d long=%d", model.ErrInvalidWindow, short, long)
	}
	closes := series.Closes()
	shortMA, err := calculator.SMASeries(closes, short)
	if err != nil {
		return nil, err
	}
	longMA, err := calculator.SMASeries(closes, long)
	if err != nil {
		return nil, err
	}
	if len(series) < long {
		return nil, nil
	}
	samples := make([]model.MASample, 0, len(series)-long+1)
	for i := long - 1; i < len(series); i++ {
		samples = append(samples, model.MASample{
			Date:  series[i].Date,
			Short: shortMA[i],
			Long:  longMA[i],
		})
	}
	return samples, nil
}

// Detect classifies the transition between the two most recent moving-average
// samples and returns the latest close alongside it. Equal averages never count
// as a cross.
func Detect(series model.PriceSeries, short, long int) (model.CrossKind, float64, error) {
	if short <= 0 || short >= long {
		return model.CrossNone, 0, fmt.Errorf("%w: short=%d long=%d", model.ErrInvalidWindow, short, long)
	}
	if len(series) < long {
		return model.CrossNone, 0, fmt.Errorf("%w: have %d bars, need at least %d", model.ErrInsufficientData, len(series), long)
	}
	samples, err := MASamples(series, short, long)
	if err != nil {
		return model.CrossNone, 0, err
	}
	if len(samples) < 2 {
		return model.CrossNone, 0, fmt.Errorf("%w: %d moving average samples, need 2", model.ErrInsufficientData, len(samples))
	}

	prev := samples[len(samples)-2]
	curr := samples[len(samples)-1]
	last, _ := series.Last()

	switch {
	case prev.Short < prev.Long && curr.Short > curr.Long:
		return model.CrossGolden, last.Close, nil
	case prev.Short > prev.Long && curr.Short < curr.Long:
		return model.CrossDead, last.Close, nil
	default:
		return model.CrossNone, last.Close, nil
	}
}

// Detector holds one market's crossover parameters.
type Detector struct {
	Short   int
	Long    int
	MinBars int // raises the minimum series length above Long+1
}

// NewDetector validates the windows and returns a Detector.
func NewDetector(short, long, minBars int) (*Detector, error) {
	if short <= 0 || short >= long {
		return nil, fmt.Errorf("%w: short=%d long=%d", model.ErrInvalidWindow, short, long)
	}
	return &Detector{Short: short, Long: long, MinBars: minBars}, nil
}

// RequiredBars is the minimum series length Evaluate accepts.
func (d *Detector) RequiredBars() int {
	if d.MinBars > d.Long+1 {
		return d.MinBars
	}
	return d.Long + 1
}

// Evaluate enforces the market's minimum history and runs Detect.
func (d *Detector) Evaluate(series model.PriceSeries) (model.CrossKind, float64, error) {
	if need := d.RequiredBars(); len(series) < need {
		return model.CrossNone, 0, fmt.Errorf("%w: have %d bars, need at least %d", model.ErrInsufficientData, len(series), need)
	}
	return Detect(series, d.Short, d.Long)
}
