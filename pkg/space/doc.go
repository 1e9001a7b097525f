// Package space defines the typed parameter space for constrained black-box
// optimization.
//
// A space is an ordered set of variables, each a scalar or fixed-length
// vector of floats or ints bounded by [min, max], optionally carrying a
// covariance-kernel hint for a downstream surrogate model. The declaration
// order is canonical and fixes the component layout of flattened points.
//
// Main Types:
//   - Variable: one scalar or vector variable with bounds and an optional kernel hint
//   - Domain: the immutable, ordered collection of variables
//   - Value: a tagged concrete value (scalar/vector, float/int)
//   - Assignment: a full point, mapping every variable name to a Value
//
// Usage:
//
//	domain, err := space.NewDomain([]space.Variable{
//	    {Name: "rw", Type: space.TypeFloat, Min: 0.05, Max: 0.15, Kernel: "se"},
//	    {Name: "L_Kw", Type: space.TypeFloat, Min: 0.0, Max: 1.0, Dim: 2},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	point := space.Assignment{
//	    "rw":   space.Float(0.1),
//	    "L_Kw": space.FloatVector(0.3, 0.7),
//	}
//	flat, err := domain.Flatten(point) // [0.1, 0.3, 0.7]
package space
