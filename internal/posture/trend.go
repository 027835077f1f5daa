// Package posture holds the pure scoring functions used to judge a reporting
// window: trend classification between adjacent windows and compliance
// classification of an aggregate score.
package posture

import (
	"math"

	"github.com/xkilldash9x/secreport/api/schemas"
)

const (
	// DefaultDeadband is the minimum mean difference that counts as a real change.
	DefaultDeadband = 5.0
	// NeutralScore stands in for the mean of an empty percentage series so a
	// window without history does not read as a decline.
	NeutralScore = 100.0
)

// TrendAnalyzer classifies the direction between two windows of samples.
type TrendAnalyzer struct {
	Deadband float64
	Neutral  float64
}

// NewTrendAnalyzer returns an analyzer for 0-100 percentage series.
func NewTrendAnalyzer(deadband float64) TrendAnalyzer {
	return TrendAnalyzer{Deadband: deadband, Neutral: NeutralScore}
}

// Analyze compares the mean of current against the mean of previous.
// Differences within the deadband (inclusive) are stable.
func (a TrendAnalyzer) Analyze(current, previous []float64) schemas.Trend {
	diff := Mean(current, a.Neutral) - Mean(previous, a.Neutral)
	switch {
	case diff > a.Deadband:
		return schemas.TrendImproving
	case diff < -a.Deadband:
		return schemas.TrendDeclining
	default:
		return schemas.TrendStable
	}
}

// Mean returns the arithmetic mean of samples, or neutral for an empty series.
func Mean(samples []float64, neutral float64) float64 {
	if len(samples) == 0 {
		return neutral
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// RoundScore rounds a mean score to the nearest integer and clamps it to [0, 100].
func RoundScore(v float64) int {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return int(math.Round(v))
	}
}
