package space

import (
	"testing"
)

func TestValueScalars(t *testing.T) {
	f := Float(0.1)
	if f.Kind() != ValueFloat {
		t.Error("Expected ValueFloat kind")
	}
	if f.Len() != 1 {
		t.Errorf("Expected len 1, got %d", f.Len())
	}
	if v, ok := f.FloatValue(); !ok || v != 0.1 {
		t.Errorf("Expected FloatValue 0.1, got %v (%v)", v, ok)
	}
	if _, ok := f.IntValue(); ok {
		t.Error("Float value should not expose IntValue")
	}

	i := Int(42)
	if i.Kind() != ValueInt {
		t.Error("Expected ValueInt kind")
	}
	if v, ok := i.IntValue(); !ok || v != 42 {
		t.Errorf("Expected IntValue 42, got %v (%v)", v, ok)
	}

	// Components promote to float64
	if c, ok := i.Component(0); !ok || c != 42.0 {
		t.Errorf("Expected component 42.0, got %v (%v)", c, ok)
	}
	if _, ok := i.Component(1); ok {
		t.Error("Scalar should only have component 0")
	}
}

func TestValueVectors(t *testing.T) {
	fv := FloatVector(1.5, 2.5)
	if fv.Kind() != ValueFloatVector {
		t.Error("Expected ValueFloatVector kind")
	}
	if fv.Len() != 2 {
		t.Errorf("Expected len 2, got %d", fv.Len())
	}
	if c, ok := fv.Component(1); !ok || c != 2.5 {
		t.Errorf("Expected component 2.5, got %v (%v)", c, ok)
	}
	if _, ok := fv.Component(2); ok {
		t.Error("Component 2 should be out of range")
	}

	iv := IntVector(3, 4, 5)
	if iv.Kind() != ValueIntVector {
		t.Error("Expected ValueIntVector kind")
	}
	if c, ok := iv.Component(2); !ok || c != 5.0 {
		t.Errorf("Expected promoted component 5.0, got %v (%v)", c, ok)
	}
}

func TestValueVectorCopies(t *testing.T) {
	src := []float64{1, 2}
	fv := FloatVector(src...)
	src[0] = 99

	if c, _ := fv.Component(0); c != 1 {
		t.Error("Constructor should copy its input")
	}

	out, _ := fv.FloatVec()
	out[1] = 99
	if c, _ := fv.Component(1); c != 2 {
		t.Error("Accessor should return a copy")
	}
}

func TestValueEqual(t *testing.T) {
	if !Float(1.5).Equal(Float(1.5)) {
		t.Error("Equal floats should compare equal")
	}
	if Float(1.5).Equal(Float(2.5)) {
		t.Error("Different floats should not compare equal")
	}
	if Float(1).Equal(Int(1)) {
		t.Error("Different kinds should not compare equal")
	}
	if !IntVector(1, 2).Equal(IntVector(1, 2)) {
		t.Error("Equal int vectors should compare equal")
	}
	if IntVector(1, 2).Equal(IntVector(1, 3)) {
		t.Error("Different int vectors should not compare equal")
	}
}

func TestVariableFits(t *testing.T) {
	tests := []struct {
		name    string
		v       Variable
		val     Value
		wantErr bool
	}{
		{"scalar float fits", Variable{Name: "rw", Type: TypeFloat, Min: 0, Max: 1}, Float(0.5), false},
		{"scalar int fits", Variable{Name: "r", Type: TypeInt, Min: 0, Max: 10}, Int(5), false},
		{"scalar float rejects int", Variable{Name: "rw", Type: TypeFloat, Min: 0, Max: 1}, Int(1), true},
		{"scalar rejects vector", Variable{Name: "rw", Type: TypeFloat, Min: 0, Max: 1}, FloatVector(0.5), true},
		{"vector fits", Variable{Name: "L", Type: TypeFloat, Min: 0, Max: 1, Dim: 2}, FloatVector(0.1, 0.2), false},
		{"vector dim mismatch", Variable{Name: "L", Type: TypeFloat, Min: 0, Max: 1, Dim: 2}, FloatVector(0.1), true},
		{"vector type mismatch", Variable{Name: "L", Type: TypeInt, Min: 0, Max: 9, Dim: 2}, FloatVector(1, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.v.Fits(tt.val)
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestFlatten(t *testing.T) {
	d, err := NewDomain(boreholeVars())
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}

	a := Assignment{
		"rw":    Float(0.1),
		"L_Kw":  FloatVector(0.25, 0.5),
		"Tu":    Float(80000),
		"Tl":    Float(100),
		"Hu_Hl": FloatVector(1000, 1500),
		"r":     Int(25000),
	}

	flat, err := d.Flatten(a)
	if err != nil {
		t.Fatalf("Expected flatten to succeed: %v", err)
	}
	expected := []float64{0.1, 0.25, 0.5, 80000, 100, 1000, 1500, 25000}
	if len(flat) != len(expected) {
		t.Fatalf("Expected %d components, got %d", len(expected), len(flat))
	}
	for i := range expected {
		if flat[i] != expected[i] {
			t.Errorf("Component %d = %g, expected %g", i, flat[i], expected[i])
		}
	}
}

func TestFlattenErrors(t *testing.T) {
	d, err := NewDomain(boreholeVars())
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}

	// Missing variable
	a := Assignment{"rw": Float(0.1)}
	if _, err := d.Flatten(a); err == nil {
		t.Error("Expected error for missing variables")
	}

	// Wrong shape
	a = Assignment{
		"rw":    Float(0.1),
		"L_Kw":  FloatVector(0.25),
		"Tu":    Float(80000),
		"Tl":    Float(100),
		"Hu_Hl": FloatVector(1000, 1500),
		"r":     Int(25000),
	}
	if _, err := d.Flatten(a); err == nil {
		t.Error("Expected error for dim mismatch")
	}
}

func TestUnflatten(t *testing.T) {
	d, err := NewDomain(boreholeVars())
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}

	flat := []float64{0.1, 0.25, 0.5, 80000, 100, 1000, 1500, 25000.4}
	a, err := d.Unflatten(flat)
	if err != nil {
		t.Fatalf("Expected unflatten to succeed: %v", err)
	}

	if v, _ := a["rw"].FloatValue(); v != 0.1 {
		t.Errorf("Expected rw 0.1, got %g", v)
	}
	if vec, ok := a["L_Kw"].FloatVec(); !ok || vec[0] != 0.25 || vec[1] != 0.5 {
		t.Errorf("Unexpected L_Kw vector: %v", vec)
	}

	// Int components round to the nearest integer
	if v, _ := a["r"].IntValue(); v != 25000 {
		t.Errorf("Expected r 25000, got %d", v)
	}
}

func TestUnflattenIntClamping(t *testing.T) {
	d, err := NewDomain([]Variable{
		{Name: "r", Type: TypeInt, Min: 100, Max: 50000},
	})
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}

	a, err := d.Unflatten([]float64{50000.4})
	if err != nil {
		t.Fatalf("Expected unflatten to succeed: %v", err)
	}
	if v, _ := a["r"].IntValue(); v != 50000 {
		t.Errorf("Expected rounding to clamp at 50000, got %d", v)
	}

	a, err = d.Unflatten([]float64{12.6})
	if err != nil {
		t.Fatalf("Expected unflatten to succeed: %v", err)
	}
	if v, _ := a["r"].IntValue(); v != 100 {
		t.Errorf("Expected clamping to lower bound 100, got %d", v)
	}
}

func TestUnflattenLengthMismatch(t *testing.T) {
	d, err := NewDomain(boreholeVars())
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}

	if _, err := d.Unflatten([]float64{1, 2, 3}); err == nil {
		t.Error("Expected error for wrong component count")
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	d, err := NewDomain(boreholeVars())
	if err != nil {
		t.Fatalf("Failed to build domain: %v", err)
	}

	a := Assignment{
		"rw":    Float(0.12),
		"L_Kw":  FloatVector(0.3, 0.7),
		"Tu":    Float(90000),
		"Tl":    Float(75.5),
		"Hu_Hl": FloatVector(500, 1999),
		"r":     Int(50000),
	}

	flat, err := d.Flatten(a)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	back, err := d.Unflatten(flat)
	if err != nil {
		t.Fatalf("Unflatten failed: %v", err)
	}

	for name, val := range a {
		if !back[name].Equal(val) {
			t.Errorf("Round trip changed %q: %v != %v", name, back[name], val)
		}
	}
}
