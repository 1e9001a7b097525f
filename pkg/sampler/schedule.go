package sampler

import (
	"errors"
	"math"

	"github.com/sg47/optspace/pkg/space"
	"github.com/sg47/optspace/pkg/utils"
)

// BudgetSchedule yields the per-point attempt budget for successive
// sampling rounds (0-indexed). Schedules let callers recover from
// ExhaustedError by escalating the budget instead of hand-rolling retry
// loops.
type BudgetSchedule interface {
	// NextBudget returns the attempt budget for the given round number
	NextBudget(round int) int
}

// ConstantBudget retries every round with the same budget
type ConstantBudget struct {
	Budget int
}

// NewConstantBudget creates a constant budget schedule
func NewConstantBudget(budget int) *ConstantBudget {
	return &ConstantBudget{Budget: budget}
}

// NextBudget returns the constant budget
func (cb *ConstantBudget) NextBudget(round int) int {
	return cb.Budget
}

// LinearBudget grows the budget by a fixed step each round
type LinearBudget struct {
	Base int
	Step int
	Max  int
}

// NewLinearBudget creates a linear budget schedule
func NewLinearBudget(base, step, max int) *LinearBudget {
	return &LinearBudget{Base: base, Step: step, Max: max}
}

// NextBudget returns the linearly increasing budget
func (lb *LinearBudget) NextBudget(round int) int {
	budget := lb.Base + lb.Step*round
	if budget > lb.Max {
		return lb.Max
	}
	return budget
}

// GeometricBudget multiplies the budget each round
type GeometricBudget struct {
	Base       int
	Multiplier float64
	Max        int
}

// NewGeometricBudget creates a geometric budget schedule
func NewGeometricBudget(base, max int, multiplier float64) *GeometricBudget {
	if multiplier <= 1 {
		multiplier = 2.0
	}
	return &GeometricBudget{Base: base, Multiplier: multiplier, Max: max}
}

// NextBudget returns the geometrically increasing budget
func (gb *GeometricBudget) NextBudget(round int) int {
	budget := float64(gb.Base) * math.Pow(gb.Multiplier, float64(round))
	if budget > float64(gb.Max) {
		return gb.Max
	}
	return int(budget)
}

// BudgetFromConfig creates a budget schedule from config parameters
func BudgetFromConfig(scheduleType string, base int, max int) BudgetSchedule {
	if max == 0 {
		max = 100000
	}

	switch scheduleType {
	case "constant":
		return NewConstantBudget(base)
	case "linear":
		return NewLinearBudget(base, base, max)
	case "geometric":
		return NewGeometricBudget(base, max, 2.0)
	default:
		// Default to doubling
		return NewGeometricBudget(base, max, 2.0)
	}
}

// SampleWithSchedule retries whole batches under a budget schedule until
// one round succeeds or rounds run out, reusing a single RNG stream so the
// call stays deterministic for a fixed nonzero seed. On failure it returns
// the last round's ExhaustedError.
func (s *Sampler) SampleWithSchedule(n int, schedule BudgetSchedule, rounds int, seed int64) ([]space.Assignment, error) {
	if rounds < 1 {
		return nil, errors.New("schedule needs at least one round")
	}
	rng := utils.NewRandSource(seed)
	var last error
	for round := 0; round < rounds; round++ {
		budget := schedule.NextBudget(round)
		points, _, err := s.sample(n, budget, rng)
		if err == nil {
			return points, nil
		}
		var ex *ExhaustedError
		if !errors.As(err, &ex) {
			return nil, err
		}
		last = err
		s.logger.Debug("sampling round exhausted",
			"round", round,
			"budget", budget,
			"succeeded", ex.Succeeded)
	}
	return nil, last
}
