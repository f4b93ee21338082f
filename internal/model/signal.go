package model

import "time"

// CrossKind classifies the latest moving-average transition.
type CrossKind int

const (
	CrossNone CrossKind = iota
	CrossGolden
	CrossDead
)

func (k CrossKind) String() string {
	switch k {
	case CrossGolden:
		return "golden"
	case CrossDead:
		return "dead"
	default:
		return "none"
	}
}

// MASample is a date with both moving averages defined.
type MASample struct {
	Date  time.Time
	Short float64
	Long  float64
}

// CrossoverEvent is a detected golden or dead cross for one symbol.
type CrossoverEvent struct {
	Market     string
	Symbol     Symbol
	Kind       CrossKind
	Price      float64
	Date       time.Time // date of the latest bar
	DetectedAt time.Time
}
