// Package stats implements the rank test and summaries used to annotate trap plots.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrTooFewGroups indicates fewer than two groups were supplied.
	ErrTooFewGroups = errors.New("at least two groups are required")
	// ErrInsufficientSample indicates a group below the minimum size.
	ErrInsufficientSample = errors.New("insufficient sample")
	// ErrNoVariation indicates every observation is identical, so ranks carry no information.
	ErrNoVariation = errors.New("all observations are identical")
)

// Result is the outcome of a rank test.
type Result struct {
	Statistic float64
	PValue    float64
	DF        int
	N         []int
}

// Significant reports whether p falls below alpha.
func (r Result) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// KruskalOptions tunes preconditions. MinGroupSize below 1 is treated as 1.
type KruskalOptions struct {
	MinGroupSize int
}

// KruskalWallis runs the H-test with the default minimum group size of one.
func KruskalWallis(groups ...[]float64) (Result, error) {
	return KruskalWallisWith(KruskalOptions{}, groups...)
}

// KruskalWallisWith computes the tie-corrected H statistic over the groups and
// its chi-squared p-value with k-1 degrees of freedom.
func KruskalWallisWith(opt KruskalOptions, groups ...[]float64) (Result, error) {
	if len(groups) < 2 {
		return Result{}, ErrTooFewGroups
	}
	minSize := opt.MinGroupSize
	if minSize < 1 {
		minSize = 1
	}
	type obs struct {
		v float64
		g int
	}
	var all []obs
	res := Result{N: make([]int, len(groups)), DF: len(groups) - 1}
	for gi, g := range groups {
		if len(g) < minSize {
			return Result{}, fmt.Errorf("%w: group %d has %d observations, need %d", ErrInsufficientSample, gi, len(g), minSize)
		}
		res.N[gi] = len(g)
		for _, v := range g {
			if math.IsNaN(v) {
				return Result{}, fmt.Errorf("group %d: NaN observation", gi)
			}
			all = append(all, obs{v: v, g: gi})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].v < all[j].v })

	n := float64(len(all))
	rankSum := make([]float64, len(groups))
	var ties float64
	for i := 0; i < len(all); {
		j := i + 1
		for j < len(all) && all[j].v == all[i].v {
			j++
		}
		// ranks i+1..j share their average
		avg := float64(i+1+j) / 2
		for k := i; k < j; k++ {
			rankSum[all[k].g] += avg
		}
		t := float64(j - i)
		ties += t*t*t - t
		i = j
	}
	correction := 1 - ties/(n*n*n-n)
	if correction <= 0 {
		return Result{}, ErrNoVariation
	}

	var h float64
	for gi, rs := range rankSum {
		h += rs * rs / float64(res.N[gi])
	}
	h = 12/(n*(n+1))*h - 3*(n+1)
	h /= correction
	if h < 0 {
		h = 0
	}
	res.Statistic = h
	res.PValue = distuv.ChiSquared{K: float64(res.DF)}.Survival(h)
	return res, nil
}
