package core

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func vecNear(a, b Vec3) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestVec3_AddCommutativeAndAssociative(t *testing.T) {
	vectors := []Vec3{
		NewVec3(1, 5, 7),
		NewVec3(-5, 10, 0),
		NewVec3(0.25, -3.5, 1e3),
		NewVec3(0, 0, 0),
	}

	for _, a := range vectors {
		for _, b := range vectors {
			if a.Add(b) != b.Add(a) {
				t.Errorf("Expected %v + %v to be commutative", a, b)
			}
			for _, c := range vectors {
				left := a.Add(b).Add(c)
				right := a.Add(b.Add(c))
				if !vecNear(left, right) {
					t.Errorf("Expected (a+b)+c == a+(b+c), got %v vs %v", left, right)
				}
			}
		}
	}
}

func TestVec3_Add(t *testing.T) {
	got := NewVec3(1, 5, 7).Add(NewVec3(-5, 10, 0))
	want := NewVec3(-4, 15, 7)
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestVec3_DotSymmetric(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-4, 0.5, 2)
	if a.Dot(b) != b.Dot(a) {
		t.Errorf("Expected a·b == b·a, got %f vs %f", a.Dot(b), b.Dot(a))
	}
	if a.Dot(b) != 3 {
		t.Errorf("Expected a·b = 3, got %f", a.Dot(b))
	}
}

func TestVec3_ComponentWise(t *testing.T) {
	a := NewVec3(2, 6, -8)
	b := NewVec3(2, 3, 4)

	if got := a.MultiplyVec(b); got != NewVec3(4, 18, -32) {
		t.Errorf("MultiplyVec: got %v", got)
	}
	if got := a.DivideVec(b); got != NewVec3(1, 2, -2) {
		t.Errorf("DivideVec: got %v", got)
	}
	if got := a.Negate(); got != NewVec3(-2, -6, 8) {
		t.Errorf("Negate: got %v", got)
	}
	if got := a.Multiply(0.5); got != NewVec3(1, 3, -4) {
		t.Errorf("Multiply: got %v", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
	}{
		{"axis", NewVec3(0, 0, -7)},
		{"diagonal", NewVec3(1, 1, 1)},
		{"tiny", NewVec3(1e-6, -2e-6, 3e-6)},
		{"large", NewVec3(1e6, 2e5, -3e7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.v.Normalize()
			if math.Abs(n.Length()-1) > tolerance {
				t.Errorf("Expected unit length, got %f", n.Length())
			}

			for _, k := range []float64{0.001, 1, 3.5, 1e4} {
				scaled := tt.v.Multiply(k).Normalize()
				if !vecNear(scaled, n) {
					t.Errorf("Expected normalize(%v*%f) == %v, got %v", tt.v, k, n, scaled)
				}
			}
		})
	}
}

func TestVec3_LengthSquared(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected float64
	}{
		{"zero", NewVec3(0, 0, 0), 0},
		{"axis", NewVec3(0, -3, 0), 9},
		{"pythagorean", NewVec3(2, 3, 6), 49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.LengthSquared(); got != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
			if got := tt.v.Length(); math.Abs(got*got-tt.expected) > tolerance {
				t.Errorf("Expected Length()^2 == %f, got %f", tt.expected, got*got)
			}
		})
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	if got := NewVec3(0, 0, 0).Normalize(); got != NewVec3(0, 0, 0) {
		t.Errorf("Expected zero vector, got %v", got)
	}
}

func TestVec3_Reflect(t *testing.T) {
	incoming := NewVec3(1, -1, 0)
	normal := NewVec3(0, 1, 0)

	got := incoming.Reflect(normal)
	want := NewVec3(1, 1, 0)
	if !vecNear(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestVec3_ToRGBA(t *testing.T) {
	tests := []struct {
		name          string
		color         Vec3
		expectedR     uint8
		expectedG     uint8
		expectedB     uint8
		expectedAlpha uint8
	}{
		{"black", NewVec3(0, 0, 0), 0, 0, 0, 255},
		{"white", NewVec3(1, 1, 1), 255, 255, 255, 255},
		{"truncates", NewVec3(0.5, 0.999, 0.1), 127, 254, 25, 255},
		{"compresses highlight by max channel", NewVec3(2, 1, 0.5), 255, 127, 63, 255},
		{"negative clamps to zero", NewVec3(-0.5, 0.2, 0), 0, 51, 0, 255},
		{"NaN maps to zero", NewVec3(math.NaN(), 0.2, 0), 0, 51, 0, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.color.ToRGBA()
			if c.R != tt.expectedR || c.G != tt.expectedG || c.B != tt.expectedB || c.A != tt.expectedAlpha {
				t.Errorf("Expected (%d,%d,%d,%d), got (%d,%d,%d,%d)",
					tt.expectedR, tt.expectedG, tt.expectedB, tt.expectedAlpha, c.R, c.G, c.B, c.A)
			}
		})
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -1))
	if got := r.At(4); got != NewVec3(1, 2, -1) {
		t.Errorf("Expected (1,2,-1), got %v", got)
	}
}
