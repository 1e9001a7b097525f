package objective

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sg47/optspace/pkg/logger"
	"github.com/sg47/optspace/pkg/space"
	"github.com/sg47/optspace/pkg/utils"
)

// Func is a single-fidelity objective: one assignment in, one value out.
// Evaluations are expensive by assumption; the caller never invokes fn
// beyond what was asked.
type Func func(point space.Assignment) (float64, error)

// FidelFunc is a multi-fidelity objective, evaluated at an explicit
// fidelity setting.
type FidelFunc func(fidel, point space.Assignment) (float64, error)

// Result records one objective evaluation.
type Result struct {
	ID        string
	Point     space.Assignment
	Fidel     space.Assignment // nil for single-fidelity evaluations
	Value     float64          // observed value, noise included
	TrueValue float64          // value before noise
	Cost      float64          // fidelity evaluation cost, 0 when single-fidelity
}

// Config carries the caller options shared by both constructors.
type Config struct {
	Noise NoiseSpec // zero value means noiseless observations
	Seed  int64     // RNG seed for noise and candidate generation; 0 = time-based
}

// DefaultConfig returns a noiseless configuration.
func DefaultConfig() Config {
	return Config{}
}

// Caller wraps the black-box objective behind a recording, noise-adding
// evaluation harness over a typed parameter space. It is safe for
// concurrent use; a mutex serializes the internal RNG.
type Caller struct {
	fn     Func
	mfFn   FidelFunc
	domain *space.Domain
	bounds [][2]float64
	noise  noiseModel
	fidel  *fidelity
	logger *slog.Logger

	mu  sync.Mutex
	rng *utils.RandSource
}

// New creates a single-fidelity caller for fn over the domain.
func New(fn Func, domain *space.Domain, cfg Config) (*Caller, error) {
	if fn == nil {
		return nil, fmt.Errorf("objective function is required")
	}
	c, err := newCaller(domain, cfg)
	if err != nil {
		return nil, err
	}
	c.fn = fn
	return c, nil
}

func newCaller(domain *space.Domain, cfg Config) (*Caller, error) {
	if domain == nil {
		return nil, fmt.Errorf("domain is required")
	}
	noise, err := newNoiseModel(cfg.Noise)
	if err != nil {
		return nil, err
	}
	return &Caller{
		domain: domain,
		bounds: domain.FlatBounds(),
		noise:  noise,
		logger: logger.Default,
		rng:    utils.NewRandSource(cfg.Seed),
	}, nil
}

// SetLogger overrides the default logger.
func (c *Caller) SetLogger(l *slog.Logger) {
	c.logger = l
}

// Domain returns the parameter space the caller evaluates over.
func (c *Caller) Domain() *space.Domain {
	return c.domain
}

// IsNoisy reports whether observations carry a noise model.
func (c *Caller) IsNoisy() bool {
	return c.noise != nil
}

// Eval evaluates the objective at a point, adding observation noise when
// configured. Multi-fidelity callers evaluate at their fidel-to-opt.
func (c *Caller) Eval(point space.Assignment) (Result, error) {
	if c.fidel != nil {
		return c.evalAtFidel(c.fidel.toOpt, point, true)
	}
	return c.eval(point, true)
}

// EvalNoiseless evaluates the objective bypassing the noise model.
func (c *Caller) EvalNoiseless(point space.Assignment) (Result, error) {
	if c.fidel != nil {
		return c.evalAtFidel(c.fidel.toOpt, point, false)
	}
	return c.eval(point, false)
}

// EvalMultiple evaluates points sequentially, stopping at the first error.
func (c *Caller) EvalMultiple(points []space.Assignment) ([]Result, error) {
	results := make([]Result, 0, len(points))
	for _, p := range points {
		res, err := c.Eval(p)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// EvalParallel evaluates points with at most maxParallel objective calls in
// flight. Results keep the input order. The first error or context
// cancellation wins; remaining evaluations are skipped.
func (c *Caller) EvalParallel(ctx context.Context, points []space.Assignment, maxParallel int) ([]Result, error) {
	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]Result, len(points))
	errs := make([]error, len(points))
	sem := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup

	for i, p := range points {
		wg.Add(1)
		go func(i int, p space.Assignment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			res, err := c.Eval(p)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = res
		}(i, p)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (c *Caller) eval(point space.Assignment, noisy bool) (Result, error) {
	if _, err := c.domain.Flatten(point); err != nil {
		return Result{}, fmt.Errorf("invalid point: %w", err)
	}
	trueVal, err := c.fn(point)
	if err != nil {
		return Result{}, fmt.Errorf("objective evaluation failed: %w", err)
	}
	res := Result{
		ID:        utils.GenerateEvalID(),
		Point:     point,
		Value:     c.observe(trueVal, noisy),
		TrueValue: trueVal,
	}
	c.logger.Debug("evaluated objective",
		"id", res.ID,
		"value", res.Value)
	return res, nil
}

// observe applies the noise model to a true value.
func (c *Caller) observe(trueVal float64, noisy bool) float64 {
	if !noisy || c.noise == nil {
		return trueVal
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return trueVal + c.noise.sample(c.rng)
}

// CubeFromPoint maps a point onto the unit cube [0,1]^d in canonical flat
// order, for optimizers that propose normalized coordinates.
func (c *Caller) CubeFromPoint(a space.Assignment) ([]float64, error) {
	flat, err := c.domain.Flatten(a)
	if err != nil {
		return nil, err
	}
	return utils.MapToCube(flat, c.bounds), nil
}

// PointFromCube maps unit-cube coordinates back into a typed assignment.
func (c *Caller) PointFromCube(z []float64) (space.Assignment, error) {
	if len(z) != c.domain.Dimensionality() {
		return nil, fmt.Errorf("cube point has %d components, domain has dimensionality %d",
			len(z), c.domain.Dimensionality())
	}
	return c.domain.Unflatten(utils.MapToBounds(z, c.bounds))
}

// EvalCube evaluates the objective at unit-cube coordinates.
func (c *Caller) EvalCube(z []float64) (Result, error) {
	point, err := c.PointFromCube(z)
	if err != nil {
		return Result{}, err
	}
	return c.Eval(point)
}
