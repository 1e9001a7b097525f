package objective

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sg47/optspace/pkg/utils"
)

// NoiseKind names an observation-noise model.
type NoiseKind string

const (
	NoiseNone    NoiseKind = "none"
	NoiseGauss   NoiseKind = "gauss"
	NoiseUniform NoiseKind = "uniform"
)

// NoiseSpec configures the noise added to observed objective values.
// The zero value means noiseless observations.
type NoiseSpec struct {
	Kind  NoiseKind
	Scale float64
}

type noiseModel interface {
	sample(rng *utils.RandSource) float64
}

// gaussNoise draws N(0, scale) perturbations.
type gaussNoise struct {
	scale float64
}

func (g gaussNoise) sample(rng *utils.RandSource) float64 {
	return distuv.Normal{Mu: 0, Sigma: g.scale, Src: rng}.Rand()
}

// uniformNoise draws from a width-scale interval centered on zero.
type uniformNoise struct {
	scale float64
}

func (u uniformNoise) sample(rng *utils.RandSource) float64 {
	return rng.UniformFloat64(-0.5, 0.5) * u.scale
}

func newNoiseModel(spec NoiseSpec) (noiseModel, error) {
	switch spec.Kind {
	case "", NoiseNone:
		return nil, nil
	case NoiseGauss:
		if spec.Scale <= 0 {
			return nil, fmt.Errorf("gauss noise requires a positive scale, got %g", spec.Scale)
		}
		return gaussNoise{scale: spec.Scale}, nil
	case NoiseUniform:
		if spec.Scale <= 0 {
			return nil, fmt.Errorf("uniform noise requires a positive scale, got %g", spec.Scale)
		}
		return uniformNoise{scale: spec.Scale}, nil
	default:
		return nil, &UnknownNoiseError{Kind: spec.Kind}
	}
}

// UnknownNoiseError reports an unrecognized noise model name.
type UnknownNoiseError struct {
	Kind NoiseKind
}

func (e *UnknownNoiseError) Error() string {
	return fmt.Sprintf("unknown noise kind: %q", e.Kind)
}
