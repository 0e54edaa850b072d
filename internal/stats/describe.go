package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary describes one group of observations for plotting.
type Summary struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	// CILow/CIHigh bound the Student-t interval; equal to Mean when N < 2.
	CILow  float64
	CIHigh float64
}

// HasCI reports whether an interval could be computed.
func (s Summary) HasCI() bool { return s.N >= 2 }

// Describe summarizes xs with a two-sided confidence interval at level (e.g. 0.95).
// Levels outside (0,1) fall back to 0.95.
func Describe(xs []float64, level float64) Summary {
	if level <= 0 || level >= 1 {
		level = 0.95
	}
	s := Summary{N: len(xs)}
	if len(xs) == 0 {
		return s
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = stat.Mean(xs, nil)
	s.Median = median(sorted)
	s.CILow, s.CIHigh = s.Mean, s.Mean
	if len(xs) < 2 {
		return s
	}
	s.StdDev = stat.StdDev(xs, nil)
	se := s.StdDev / math.Sqrt(float64(len(xs)))
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(len(xs) - 1)}.Quantile(1 - (1-level)/2)
	s.CILow = s.Mean - t*se
	s.CIHigh = s.Mean + t*se
	return s
}

// median of an already sorted slice; even lengths average the middle pair.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
