package scales

// LinearScale maps a continuous domain onto a continuous range. Output is
// not clamped: values outside the domain extrapolate past the range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinearScale builds a scale from [d0, d1] to [r0, r1]
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Map applies the scale. A degenerate domain (d0 == d1) maps every value to
// the start of the range.
func (s LinearScale) Map(x float64) float64 {
	if s.D0 == s.D1 {
		return s.R0
	}
	return s.R0 + (x-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}
