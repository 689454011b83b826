package sentiment

import "math/rand/v2"

// RandomSource yields uniform values in [0, 1). The scorer draws from it for
// emotion noise, confidence and subjectivity, in that order.
type RandomSource interface {
	Float64() float64
}

// SourceFunc adapts a plain function to RandomSource.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// DefaultSource is safe for concurrent use.
var DefaultSource RandomSource = SourceFunc(rand.Float64)

// FixedSource always returns v.
func FixedSource(v float64) RandomSource {
	return SourceFunc(func() float64 { return v })
}
