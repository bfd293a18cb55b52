package scales

import "math"

// BandScale maps a discrete, ordered domain onto uniform bands of a
// continuous range. Padding is applied both between bands and at the outer
// edges, as a fraction of the step.
type BandScale[T comparable] struct {
	domain    []T
	index     map[T]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale builds a band scale over [r0, r1] with the given padding
func NewBandScale[T comparable](domain []T, r0, r1, padding float64) *BandScale[T] {
	n := float64(len(domain))
	step := (r1 - r0) / math.Max(1, n-padding+padding*2)
	start := r0 + (r1-r0-step*(n-padding))*0.5

	index := make(map[T]int, len(domain))
	for i, v := range domain {
		index[v] = i
	}

	return &BandScale[T]{
		domain:    domain,
		index:     index,
		start:     start,
		step:      step,
		bandwidth: step * (1 - padding),
	}
}

// Map returns the start of the band for v; ok is false for values outside
// the domain.
func (s *BandScale[T]) Map(v T) (pos float64, ok bool) {
	i, ok := s.index[v]
	if !ok {
		return 0, false
	}
	return s.start + s.step*float64(i), true
}

// Bandwidth returns the width of each band
func (s *BandScale[T]) Bandwidth() float64 {
	return s.bandwidth
}

// Step returns the distance between the starts of adjacent bands
func (s *BandScale[T]) Step() float64 {
	return s.step
}

// Domain returns the ordered domain
func (s *BandScale[T]) Domain() []T {
	return s.domain
}
