package curve

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-12

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func threeNodeCurve(t *testing.T) *Curve {
	t.Helper()
	c, err := New(Point{1, 0.03}, Point{5, 0.04}, Point{10, 0.05})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestRateInterpolation(t *testing.T) {
	c := threeNodeCurve(t)

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"before first node", 0.5, 0.03},
		{"on first node", 1, 0.03},
		{"between first and second", 3, 0.035},
		{"on middle node", 5, 0.04},
		{"between second and third", 7.5, 0.045},
		{"on last node", 10, 0.05},
		{"after last node", 20, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Rate(tt.t)
			if !almostEqual(got, tt.want, tol) {
				t.Errorf("Expected rate %v at t=%v, got %v", tt.want, tt.t, got)
			}
		})
	}
}

func TestEmptyAndSingleNodeCurve(t *testing.T) {
	var empty Curve
	if r := empty.Rate(3); r != 0 {
		t.Errorf("Expected 0 rate on empty curve, got %v", r)
	}
	if df := empty.DiscountFactor(3); df != 1 {
		t.Errorf("Expected discount factor 1 on empty curve, got %v", df)
	}

	single, err := New(Point{2, 0.04})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for _, x := range []float64{0.25, 2, 30} {
		if r := single.Rate(x); r != 0.04 {
			t.Errorf("Expected flat 0.04 at t=%v, got %v", x, r)
		}
	}
}

func TestAddRateOverwritesAndKeepsOrder(t *testing.T) {
	c, _ := New()
	for _, p := range []Point{{10, 0.05}, {1, 0.03}, {5, 0.04}, {5, 0.045}} {
		if err := c.AddRate(p.Tenor, p.Rate); err != nil {
			t.Fatalf("AddRate(%v, %v) failed: %v", p.Tenor, p.Rate, err)
		}
	}

	pts := c.Points()
	if len(pts) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(pts))
	}
	wantTenors := []float64{1, 5, 10}
	for i, p := range pts {
		if p.Tenor != wantTenors[i] {
			t.Errorf("Expected tenor %v at index %d, got %v", wantTenors[i], i, p.Tenor)
		}
	}
	if pts[1].Rate != 0.045 {
		t.Errorf("Expected overwritten rate 0.045, got %v", pts[1].Rate)
	}
}

func TestAddRateRejectsBadTenor(t *testing.T) {
	c, _ := New()
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := c.AddRate(bad, 0.01); !errors.Is(err, ErrInvalidTenor) {
			t.Errorf("Expected ErrInvalidTenor for tenor %v, got %v", bad, err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Expected no nodes after rejected inserts, got %d", c.Len())
	}
}

func TestDiscountFactor(t *testing.T) {
	c, _ := New(Point{1, 0.05})
	got := c.DiscountFactor(10)
	want := math.Exp(-0.5)
	if !almostEqual(got, want, tol) {
		t.Errorf("Expected discount factor %v, got %v", want, got)
	}
}

func TestShiftedLeavesOriginalUntouched(t *testing.T) {
	c := threeNodeCurve(t)
	before := c.Points()

	shocked := c.Shifted(1)

	for i, p := range c.Points() {
		if p != before[i] {
			t.Errorf("Original node %d mutated: %+v -> %+v", i, before[i], p)
		}
	}
	for i, p := range shocked.Points() {
		want := before[i].Rate + BasisPoint
		if !almostEqual(p.Rate, want, tol) {
			t.Errorf("Expected shocked rate %v at node %d, got %v", want, i, p.Rate)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := threeNodeCurve(t)
	cp := c.Clone()
	if err := cp.AddRate(30, 0.06); err != nil {
		t.Fatalf("AddRate failed: %v", err)
	}
	cp.ParallelShift(100)

	if c.Len() != 3 {
		t.Errorf("Expected original to keep 3 nodes, got %d", c.Len())
	}
	if r := c.Rate(3); !almostEqual(r, 0.035, tol) {
		t.Errorf("Expected original rate 0.035, got %v", r)
	}
}
