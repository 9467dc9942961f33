// Package graphutil provides small numeric helpers shared by the graph layer and the
// quality functions built on top of it.
package graphutil

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
)

// Number is any integer or floating point type
type Number interface {
	constraints.Integer | constraints.Float
}

// Range returns the sequence 0, 1, ..., n-1. Each call returns a fresh slice.
// Returns an empty slice for n <= 0.
func Range(n int) []int {
	if n <= 0 {
		return []int{}
	}
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	return seq
}

// Sum adds up seq, starting from the zero value of T
func Sum[T Number](seq []T) T {
	var total T
	for _, x := range seq {
		total += x
	}
	return total
}

// Pair is an (index, count) pair, e.g. a neighbour and its multiplicity
type Pair struct {
	Index int
	Count int
}

// PairCompareReverseSecond orders pairs by descending Count.
// It is a strict weak ordering suitable for sort.Slice.
func PairCompareReverseSecond(a, b Pair) bool {
	return a.Count > b.Count
}

// SortPairsReverseSecond sorts pairs by descending Count, keeping the input order of
// pairs with equal counts.
func SortPairsReverseSecond(pairs []Pair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return PairCompareReverseSecond(pairs[i], pairs[j])
	})
}

// KL returns the binary Kullback-Leibler divergence of p from q:
//
//	q log(q/p) + (1-q) log((1-q)/(1-p))
//
// It is only meaningful for p and q in (0, 1). A term whose logarithm would be
// singular is dropped, so callers that care about the boundary must handle 0 and 1
// themselves.
func KL(q, p float64) float64 {
	kl := 0.0
	if q > 0 && p > 0 {
		kl += q * math.Log(q/p)
	}
	if q < 1 && p < 1 {
		kl += (1 - q) * math.Log((1-q)/(1-p))
	}
	return kl
}

// KLL is the signed variant of KL used for log-likelihood ratios: the divergence is
// negated when q < p, so it is positive only when q exceeds p.
func KLL(q, p float64) float64 {
	kl := KL(q, p)
	if q < p {
		kl = -kl
	}
	return kl
}

// RenumberMembership relabels community ids densely over [0, k) in order of first
// appearance and returns the new labelling and k. The input is not modified.
func RenumberMembership(membership []int) ([]int, int) {
	relabel := make(map[int]int)
	dense := make([]int, len(membership))
	for v, c := range membership {
		id, ok := relabel[c]
		if !ok {
			id = len(relabel)
			relabel[c] = id
		}
		dense[v] = id
	}
	return dense, len(relabel)
}
