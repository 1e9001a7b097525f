package sampler

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sg47/optspace/pkg/constraint"
	"github.com/sg47/optspace/pkg/logger"
	"github.com/sg47/optspace/pkg/space"
	"github.com/sg47/optspace/pkg/utils"
)

// Distribution draws one scalar component. gonum's stat/distuv types
// satisfy it; custom proposals only need Rand.
type Distribution interface {
	Rand() float64
}

// Sampler generates feasible assignments by rejection sampling: draw each
// variable independently within its bounds, keep the point if the
// constraint set accepts it, retry up to a per-point attempt budget.
//
// Configure with SetLogger/SetDistribution before sharing; Sample itself is
// read-only and safe for concurrent calls, each owning its own RNG stream.
type Sampler struct {
	domain *space.Domain
	cons   *constraint.Set
	dists  map[string]Distribution
	logger *slog.Logger
}

// New creates a sampler over a constraint set (which carries its domain).
func New(set *constraint.Set) *Sampler {
	return &Sampler{
		domain: set.Domain(),
		cons:   set,
		dists:  make(map[string]Distribution),
		logger: logger.Default,
	}
}

// SetLogger overrides the default logger.
func (s *Sampler) SetLogger(l *slog.Logger) {
	s.logger = l
}

// SetDistribution installs a base distribution for one variable, replacing
// the uniform default. Draws still go through full feasibility checking, so
// a proposal that strays outside the variable's bounds only costs retries.
// For int variables each draw is rounded and clamped into the declared
// range.
func (s *Sampler) SetDistribution(name string, d Distribution) error {
	if _, err := s.domain.Get(name); err != nil {
		return err
	}
	s.dists[name] = d
	return nil
}

// Sample returns n feasible assignments, each drawn and retried
// independently under the per-point attempt budget. The result is
// deterministic for a fixed nonzero seed. All-or-nothing: if any point
// exhausts its budget the call fails with ExhaustedError and returns no
// points.
func (s *Sampler) Sample(n, maxAttempts int, seed int64) ([]space.Assignment, error) {
	points, _, err := s.sample(n, maxAttempts, utils.NewRandSource(seed))
	return points, err
}

// SampleStats is Sample plus per-batch rejection statistics.
func (s *Sampler) SampleStats(n, maxAttempts int, seed int64) ([]space.Assignment, *BatchStats, error) {
	points, attempts, err := s.sample(n, maxAttempts, utils.NewRandSource(seed))
	if err != nil {
		return nil, nil, err
	}
	return points, newBatchStats(attempts, maxAttempts), nil
}

// Validate reports every violated bound or constraint for an externally
// proposed assignment; an empty result means the point is feasible.
func (s *Sampler) Validate(a space.Assignment) []constraint.Violation {
	return s.cons.Explain(a)
}

// IsFeasible is the short-circuiting boolean form of Validate.
func (s *Sampler) IsFeasible(a space.Assignment) bool {
	return s.cons.IsFeasible(a)
}

func (s *Sampler) sample(n, maxAttempts int, rng *utils.RandSource) ([]space.Assignment, []int, error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("sample count must not be negative, got %d", n)
	}
	if maxAttempts < 1 {
		return nil, nil, fmt.Errorf("attempt budget must be positive, got %d", maxAttempts)
	}

	draws := s.buildDraws(rng)
	points := make([]space.Assignment, 0, n)
	attempts := make([]int, 0, n)

	for i := 0; i < n; i++ {
		accepted := false
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			cand := s.drawPoint(draws)
			if s.cons.IsFeasible(cand) {
				points = append(points, cand)
				attempts = append(attempts, attempt)
				accepted = true
				break
			}
		}
		if !accepted {
			s.logger.Warn("rejection sampling exhausted",
				"requested", n,
				"succeeded", i,
				"budget", maxAttempts)
			return nil, nil, &ExhaustedError{Requested: n, Succeeded: i, Budget: maxAttempts}
		}
	}

	total := 0
	for _, a := range attempts {
		total += a
	}
	s.logger.Debug("sampled feasible points",
		"count", n,
		"total_attempts", total)
	return points, attempts, nil
}

// drawFunc produces one component value for one variable.
type drawFunc func() float64

// buildDraws binds each variable to its component generator for one call:
// the installed override, or a uniform draw over the bounds.
func (s *Sampler) buildDraws(rng *utils.RandSource) []drawFunc {
	vars := s.domain.Variables()
	draws := make([]drawFunc, len(vars))
	for i, v := range vars {
		if d, ok := s.dists[v.Name]; ok {
			draws[i] = d.Rand
			continue
		}
		if v.Constant {
			val := v.Min
			draws[i] = func() float64 { return val }
			continue
		}
		if v.IsInt() {
			min, max := int64(v.Min), int64(v.Max)
			draws[i] = func() float64 { return float64(rng.IntBetween(min, max)) }
			continue
		}
		u := distuv.Uniform{Min: v.Min, Max: v.Max, Src: rng}
		draws[i] = u.Rand
	}
	return draws
}

func (s *Sampler) drawPoint(draws []drawFunc) space.Assignment {
	vars := s.domain.Variables()
	a := make(space.Assignment, len(vars))
	for i, v := range vars {
		draw := draws[i]
		if v.IsInt() {
			if v.Kind() == space.KindVector {
				comps := make([]int64, v.Dim)
				for j := range comps {
					comps[j] = roundToIntBounds(draw(), v)
				}
				a[v.Name] = space.IntVector(comps...)
			} else {
				a[v.Name] = space.Int(roundToIntBounds(draw(), v))
			}
			continue
		}
		if v.Kind() == space.KindVector {
			comps := make([]float64, v.Dim)
			for j := range comps {
				comps[j] = draw()
			}
			a[v.Name] = space.FloatVector(comps...)
		} else {
			a[v.Name] = space.Float(draw())
		}
	}
	return a
}

func roundToIntBounds(c float64, v space.Variable) int64 {
	return int64(utils.ClampFloat64(math.Round(c), v.Min, v.Max))
}

// ExhaustedError reports that rejection sampling ran out of attempts before
// finding enough feasible points. It is the one recoverable error category:
// callers retry with a larger budget (see BudgetSchedule) or switch to a
// directed proposal strategy.
type ExhaustedError struct {
	Requested int
	Succeeded int
	Budget    int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("rejection sampling exhausted: found %d of %d points within %d attempts each",
		e.Succeeded, e.Requested, e.Budget)
}
