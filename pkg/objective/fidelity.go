package objective

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/sg47/optspace/pkg/space"
	"github.com/sg47/optspace/pkg/utils"
)

// CostFunc prices an evaluation at a fidelity setting. Costs must be
// positive at the fidel-to-opt.
type CostFunc func(fidel space.Assignment) float64

// fidelToOptTol is the fraction of the fidelity-space diameter within
// which a fidelity counts as the fidel-to-opt.
const fidelToOptTol = 1e-2

// FidelityConfig describes the fidelity space of a multi-fidelity
// objective: where cheap approximations live, what they cost, and which
// setting yields the exact objective.
type FidelityConfig struct {
	Space *space.Domain
	Cost  CostFunc
	ToOpt space.Assignment
}

type fidelity struct {
	space     *space.Domain
	bounds    [][2]float64
	cost      CostFunc
	toOpt     space.Assignment
	toOptFlat []float64
	toOptCost float64
	diam      float64
}

// NewMultiFidelity creates a caller for a multi-fidelity objective.
// Single-fidelity entry points evaluate at the fidel-to-opt.
func NewMultiFidelity(fn FidelFunc, domain *space.Domain, fc FidelityConfig, cfg Config) (*Caller, error) {
	if fn == nil {
		return nil, fmt.Errorf("objective function is required")
	}
	c, err := newCaller(domain, cfg)
	if err != nil {
		return nil, err
	}
	if fc.Space == nil {
		return nil, fmt.Errorf("fidelity space is required")
	}
	if fc.Cost == nil {
		return nil, fmt.Errorf("fidelity cost function is required")
	}
	toOptFlat, err := fc.Space.Flatten(fc.ToOpt)
	if err != nil {
		return nil, fmt.Errorf("invalid fidel-to-opt: %w", err)
	}
	toOptCost := fc.Cost(fc.ToOpt)
	if !(toOptCost > 0) {
		return nil, fmt.Errorf("fidelity cost at fidel-to-opt must be positive, got %g", toOptCost)
	}

	bounds := fc.Space.FlatBounds()
	los := make([]float64, len(bounds))
	his := make([]float64, len(bounds))
	for i, b := range bounds {
		los[i] = b[0]
		his[i] = b[1]
	}

	c.mfFn = fn
	c.fidel = &fidelity{
		space:     fc.Space,
		bounds:    bounds,
		cost:      fc.Cost,
		toOpt:     fc.ToOpt,
		toOptFlat: toOptFlat,
		toOptCost: toOptCost,
		diam:      floats.Distance(his, los, 2),
	}
	return c, nil
}

// IsMultiFidelity reports whether the caller has a fidelity space.
func (c *Caller) IsMultiFidelity() bool {
	return c.fidel != nil
}

// FidelitySpace returns the fidelity space, or nil for single-fidelity
// callers.
func (c *Caller) FidelitySpace() *space.Domain {
	if c.fidel == nil {
		return nil
	}
	return c.fidel.space
}

// FidelToOpt returns the fidelity at which the objective is exact.
func (c *Caller) FidelToOpt() space.Assignment {
	if c.fidel == nil {
		return nil
	}
	out := make(space.Assignment, len(c.fidel.toOpt))
	for k, v := range c.fidel.toOpt {
		out[k] = v
	}
	return out
}

// EvalAtFidel evaluates the objective at an explicit fidelity setting.
func (c *Caller) EvalAtFidel(fidel, point space.Assignment) (Result, error) {
	return c.evalAtFidel(fidel, point, true)
}

func (c *Caller) evalAtFidel(fidel, point space.Assignment, noisy bool) (Result, error) {
	if c.fidel == nil {
		return Result{}, &NotMultiFidelityError{Op: "EvalAtFidel"}
	}
	if _, err := c.fidel.space.Flatten(fidel); err != nil {
		return Result{}, fmt.Errorf("invalid fidel: %w", err)
	}
	if _, err := c.domain.Flatten(point); err != nil {
		return Result{}, fmt.Errorf("invalid point: %w", err)
	}
	trueVal, err := c.mfFn(fidel, point)
	if err != nil {
		return Result{}, fmt.Errorf("objective evaluation failed: %w", err)
	}
	res := Result{
		ID:        utils.GenerateEvalID(),
		Point:     point,
		Fidel:     fidel,
		Value:     c.observe(trueVal, noisy),
		TrueValue: trueVal,
		Cost:      c.fidel.cost(fidel),
	}
	c.logger.Debug("evaluated objective",
		"id", res.ID,
		"value", res.Value,
		"cost", res.Cost)
	return res, nil
}

// Cost returns the evaluation cost at a fidelity setting.
func (c *Caller) Cost(fidel space.Assignment) (float64, error) {
	if c.fidel == nil {
		return 0, &NotMultiFidelityError{Op: "Cost"}
	}
	if _, err := c.fidel.space.Flatten(fidel); err != nil {
		return 0, fmt.Errorf("invalid fidel: %w", err)
	}
	return c.fidel.cost(fidel), nil
}

// CostRatio returns the cost of a fidelity relative to the fidel-to-opt.
func (c *Caller) CostRatio(fidel space.Assignment) (float64, error) {
	cost, err := c.Cost(fidel)
	if err != nil {
		return 0, err
	}
	return cost / c.fidel.toOptCost, nil
}

// IsFidelToOpt reports whether a fidelity is within tolerance of the
// fidel-to-opt, measured against the fidelity-space diameter.
func (c *Caller) IsFidelToOpt(fidel space.Assignment) (bool, error) {
	if c.fidel == nil {
		return false, &NotMultiFidelityError{Op: "IsFidelToOpt"}
	}
	flat, err := c.fidel.space.Flatten(fidel)
	if err != nil {
		return false, fmt.Errorf("invalid fidel: %w", err)
	}
	dist := floats.Distance(flat, c.fidel.toOptFlat, 2)
	if c.fidel.diam == 0 {
		return dist == 0, nil
	}
	return dist < fidelToOptTol*c.fidel.diam, nil
}

// InformationGap measures how far a fidelity sits from the fidel-to-opt,
// normalized by the fidelity-space diameter.
func (c *Caller) InformationGap(fidel space.Assignment) (float64, error) {
	if c.fidel == nil {
		return 0, &NotMultiFidelityError{Op: "InformationGap"}
	}
	flat, err := c.fidel.space.Flatten(fidel)
	if err != nil {
		return 0, fmt.Errorf("invalid fidel: %w", err)
	}
	if c.fidel.diam == 0 {
		return 0, nil
	}
	return floats.Distance(flat, c.fidel.toOptFlat, 2) / c.fidel.diam, nil
}

// CandidateFidels generates a set of candidate fidelity settings covering
// the fidelity space: a grid for up to three dimensions, random points
// beyond that. With filterByCost, candidates at least as expensive as the
// fidel-to-opt are dropped. The fidel-to-opt is always the last element.
func (c *Caller) CandidateFidels(filterByCost bool) ([]space.Assignment, error) {
	if c.fidel == nil {
		return nil, &NotMultiFidelityError{Op: "CandidateFidels"}
	}

	d := c.fidel.space.Dimensionality()
	var cube [][]float64
	switch d {
	case 1:
		for _, z := range utils.Linspace(0, 1, 100) {
			cube = append(cube, []float64{z})
		}
	case 2:
		for i := 0; i < 25; i++ {
			for j := 0; j < 25; j++ {
				cube = append(cube, []float64{cellCenter(i, 25), cellCenter(j, 25)})
			}
		}
	case 3:
		for i := 0; i < 10; i++ {
			for j := 0; j < 10; j++ {
				for k := 0; k < 10; k++ {
					cube = append(cube, []float64{cellCenter(i, 10), cellCenter(j, 10), cellCenter(k, 10)})
				}
			}
		}
		cube = append(cube, c.randomCube(1000, d)...)
	default:
		cube = c.randomCube(4000, d)
	}

	fidels := make([]space.Assignment, 0, len(cube)+1)
	for _, z := range cube {
		fidel, err := c.fidel.space.Unflatten(utils.MapToBounds(z, c.fidel.bounds))
		if err != nil {
			return nil, err
		}
		if filterByCost && c.fidel.cost(fidel) >= c.fidel.toOptCost {
			continue
		}
		fidels = append(fidels, fidel)
	}
	return append(fidels, c.FidelToOpt()), nil
}

// cellCenter returns the center of cell i in a k-cell partition of [0,1].
func cellCenter(i, k int) float64 {
	return (float64(i) + 0.5) / float64(k)
}

func (c *Caller) randomCube(n, d int) [][]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]float64, n)
	for i := range out {
		row := make([]float64, d)
		for j := range row {
			row[j] = c.rng.Float64()
		}
		out[i] = row
	}
	return out
}

// NotMultiFidelityError reports a fidelity operation invoked on a
// single-fidelity caller.
type NotMultiFidelityError struct {
	Op string
}

func (e *NotMultiFidelityError) Error() string {
	return fmt.Sprintf("%s requires a multi-fidelity caller", e.Op)
}
