package objective

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sg47/optspace/pkg/space"
)

func testDomain(t *testing.T) *space.Domain {
	t.Helper()
	d, err := space.NewDomain([]space.Variable{
		{Name: "x", Type: space.TypeFloat, Min: 0, Max: 10},
		{Name: "k", Type: space.TypeInt, Min: 0, Max: 5},
	})
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}
	return d
}

// sumObjective adds the two components.
func sumObjective(point space.Assignment) (float64, error) {
	x, _ := point["x"].FloatValue()
	k, _ := point["k"].IntValue()
	return x + float64(k), nil
}

func testPoint(x float64, k int64) space.Assignment {
	return space.Assignment{"x": space.Float(x), "k": space.Int(k)}
}

func TestNewValidation(t *testing.T) {
	d := testDomain(t)

	if _, err := New(nil, d, DefaultConfig()); err == nil {
		t.Error("Expected error for nil objective function")
	}
	if _, err := New(sumObjective, nil, DefaultConfig()); err == nil {
		t.Error("Expected error for nil domain")
	}
	if _, err := New(sumObjective, d, Config{Noise: NoiseSpec{Kind: "weird"}}); err == nil {
		t.Error("Expected error for unknown noise kind")
	}
}

func TestEval(t *testing.T) {
	c, err := New(sumObjective, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := c.Eval(testPoint(2.5, 3))
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	if res.Value != 5.5 || res.TrueValue != 5.5 {
		t.Errorf("Expected value 5.5, got value %g true %g", res.Value, res.TrueValue)
	}
	if !strings.HasPrefix(res.ID, "eval-") {
		t.Errorf("Expected an eval id, got %q", res.ID)
	}
	if res.Fidel != nil {
		t.Error("Single-fidelity results should not carry a fidel")
	}
	if res.Cost != 0 {
		t.Errorf("Single-fidelity results should have zero cost, got %g", res.Cost)
	}
	if c.IsNoisy() {
		t.Error("Default config should be noiseless")
	}
}

func TestEvalInvalidPoint(t *testing.T) {
	c, err := New(sumObjective, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Missing variable
	_, err = c.Eval(space.Assignment{"x": space.Float(1)})
	if err == nil {
		t.Error("Expected error for incomplete point")
	}

	// Wrong type
	_, err = c.Eval(space.Assignment{"x": space.Int(1), "k": space.Int(1)})
	if err == nil {
		t.Error("Expected error for mistyped point")
	}
}

func TestEvalObjectiveError(t *testing.T) {
	fail := func(space.Assignment) (float64, error) {
		return 0, fmt.Errorf("simulator crashed")
	}
	c, err := New(fail, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.Eval(testPoint(1, 1))
	if err == nil || !strings.Contains(err.Error(), "simulator crashed") {
		t.Errorf("Expected the objective error to propagate, got %v", err)
	}
}

func TestEvalNoiseless(t *testing.T) {
	cfg := Config{Noise: NoiseSpec{Kind: NoiseGauss, Scale: 1.0}, Seed: 5}
	c, err := New(sumObjective, testDomain(t), cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !c.IsNoisy() {
		t.Error("Expected a noisy caller")
	}

	noisy, err := c.Eval(testPoint(2, 1))
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if noisy.TrueValue != 3 {
		t.Errorf("Expected true value 3, got %g", noisy.TrueValue)
	}
	if noisy.Value == noisy.TrueValue {
		t.Error("Expected gauss noise to perturb the observed value")
	}

	clean, err := c.EvalNoiseless(testPoint(2, 1))
	if err != nil {
		t.Fatalf("EvalNoiseless failed: %v", err)
	}
	if clean.Value != clean.TrueValue {
		t.Errorf("Expected noiseless observation, got value %g true %g", clean.Value, clean.TrueValue)
	}
}

func TestEvalNoiseDeterminism(t *testing.T) {
	cfg := Config{Noise: NoiseSpec{Kind: NoiseGauss, Scale: 0.5}, Seed: 77}

	values := func() []float64 {
		c, err := New(sumObjective, testDomain(t), cfg)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		out := make([]float64, 5)
		for i := range out {
			res, err := c.Eval(testPoint(1, 1))
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			out[i] = res.Value
		}
		return out
	}

	first := values()
	second := values()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Same seed should reproduce noise: %g != %g", first[i], second[i])
		}
	}
}

func TestEvalMultiple(t *testing.T) {
	c, err := New(sumObjective, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	points := []space.Assignment{
		testPoint(1, 0),
		testPoint(2, 1),
		testPoint(3, 2),
	}
	results, err := c.EvalMultiple(points)
	if err != nil {
		t.Fatalf("EvalMultiple failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	expected := []float64{1, 3, 5}
	for i, res := range results {
		if res.Value != expected[i] {
			t.Errorf("Result %d: expected %g, got %g", i, expected[i], res.Value)
		}
	}
}

func TestEvalMultipleStopsOnError(t *testing.T) {
	calls := 0
	fn := func(point space.Assignment) (float64, error) {
		calls++
		if x, _ := point["x"].FloatValue(); x == 2 {
			return 0, fmt.Errorf("bad point")
		}
		return 0, nil
	}
	c, err := New(fn, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = c.EvalMultiple([]space.Assignment{
		testPoint(1, 0),
		testPoint(2, 0),
		testPoint(3, 0),
	})
	if err == nil {
		t.Fatal("Expected the second point's error to propagate")
	}
	if calls != 2 {
		t.Errorf("Expected evaluation to stop after the failure, got %d calls", calls)
	}
}

func TestEvalParallel(t *testing.T) {
	var inFlight, exceeded int64
	fn := func(point space.Assignment) (float64, error) {
		if atomic.AddInt64(&inFlight, 1) > 4 {
			atomic.StoreInt64(&exceeded, 1)
		}
		defer atomic.AddInt64(&inFlight, -1)
		x, _ := point["x"].FloatValue()
		return x * 2, nil
	}
	c, err := New(fn, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	points := make([]space.Assignment, 20)
	for i := range points {
		points[i] = testPoint(float64(i)/2, 0)
	}

	results, err := c.EvalParallel(context.Background(), points, 4)
	if err != nil {
		t.Fatalf("EvalParallel failed: %v", err)
	}
	if len(results) != 20 {
		t.Fatalf("Expected 20 results, got %d", len(results))
	}

	// Results keep input order
	for i, res := range results {
		if want := float64(i); res.Value != want {
			t.Errorf("Result %d: expected %g, got %g", i, want, res.Value)
		}
	}
	if atomic.LoadInt64(&exceeded) != 0 {
		t.Error("Expected at most 4 evaluations in flight")
	}
}

func TestEvalParallelPropagatesError(t *testing.T) {
	fn := func(point space.Assignment) (float64, error) {
		if x, _ := point["x"].FloatValue(); x == 3 {
			return 0, fmt.Errorf("bad point")
		}
		return 0, nil
	}
	c, err := New(fn, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	points := []space.Assignment{testPoint(1, 0), testPoint(3, 0), testPoint(5, 0)}
	if _, err := c.EvalParallel(context.Background(), points, 2); err == nil {
		t.Error("Expected the error to propagate")
	}
}

func TestEvalParallelCancellation(t *testing.T) {
	c, err := New(sumObjective, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	points := []space.Assignment{testPoint(1, 0), testPoint(2, 0)}
	if _, err := c.EvalParallel(ctx, points, 2); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestCubeMapping(t *testing.T) {
	c, err := New(sumObjective, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	z, err := c.CubeFromPoint(testPoint(2.5, 5))
	if err != nil {
		t.Fatalf("CubeFromPoint failed: %v", err)
	}
	if len(z) != 2 || z[0] != 0.25 || z[1] != 1 {
		t.Errorf("Unexpected cube point: %v", z)
	}

	point, err := c.PointFromCube([]float64{0.25, 1})
	if err != nil {
		t.Fatalf("PointFromCube failed: %v", err)
	}
	if x, _ := point["x"].FloatValue(); x != 2.5 {
		t.Errorf("Expected x 2.5, got %g", x)
	}
	if k, _ := point["k"].IntValue(); k != 5 {
		t.Errorf("Expected k 5, got %d", k)
	}

	// Dimensionality mismatch
	if _, err := c.PointFromCube([]float64{0.5}); err == nil {
		t.Error("Expected error for wrong cube dimensionality")
	}
}

func TestEvalCube(t *testing.T) {
	c, err := New(sumObjective, testDomain(t), DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := c.EvalCube([]float64{0.25, 0})
	if err != nil {
		t.Fatalf("EvalCube failed: %v", err)
	}
	// x = 2.5, k = 0
	if res.Value != 2.5 {
		t.Errorf("Expected value 2.5, got %g", res.Value)
	}
}
