package projection

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// NoiseSource yields uniform samples in [0,1)
type NoiseSource interface {
	Float64() float64
}

// uniformSource samples distuv.Uniform. A nil Src draws from the global
// generator, which is safe for concurrent use.
type uniformSource struct {
	dist distuv.Uniform
}

func (u uniformSource) Float64() float64 {
	return u.dist.Rand()
}

// DefaultNoise returns the production noise source
func DefaultNoise() NoiseSource {
	return uniformSource{dist: distuv.Uniform{Min: 0, Max: 1}}
}

// ConstantNoise always returns u. ConstantNoise(0.5) disables noise.
type ConstantNoise float64

// Float64 implements NoiseSource
func (c ConstantNoise) Float64() float64 {
	return float64(c)
}

// NoNoise makes every projection deterministic
const NoNoise = ConstantNoise(0.5)

// SequenceNoise replays values in order and then repeats the last one.
// Not safe for concurrent use.
type SequenceNoise struct {
	Values []float64
	next   int
}

// Float64 implements NoiseSource
func (s *SequenceNoise) Float64() float64 {
	if len(s.Values) == 0 {
		return 0.5
	}
	if s.next >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	v := s.Values[s.next]
	s.next++
	return v
}
