package bond

import (
	"errors"
	"math"
	"testing"

	"bond-market-maker/internal/curve"
)

func flatCurve(t *testing.T, r float64) *curve.Curve {
	t.Helper()
	c, err := curve.New(curve.Point{Tenor: 1, Rate: r})
	if err != nil {
		t.Fatalf("curve.New failed: %v", err)
	}
	return c
}

func TestZeroCouponPrice(t *testing.T) {
	z, err := NewZeroCoupon("ZC10", 1000, 10)
	if err != nil {
		t.Fatalf("NewZeroCoupon failed: %v", err)
	}

	got := Price(z, flatCurve(t, 0.05))
	want := 1000 * math.Exp(-0.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected price %v, got %v", want, got)
	}
	if math.Abs(got-606.53) > 0.01 {
		t.Errorf("Expected price close to 606.53, got %.4f", got)
	}
}

func TestVanillaAnnualSchedule(t *testing.T) {
	v, err := NewVanilla("V5", 1000, 5, 0.04, 1)
	if err != nil {
		t.Fatalf("NewVanilla failed: %v", err)
	}

	flows := v.CashFlows(nil)
	if len(flows) != 5 {
		t.Fatalf("Expected 5 cash flows, got %d", len(flows))
	}
	for i, cf := range flows {
		wantTime := float64(i + 1)
		wantAmount := 40.0
		if i == 4 {
			wantAmount = 1040
		}
		if math.Abs(cf.Time-wantTime) > 1e-12 {
			t.Errorf("Flow %d: expected time %v, got %v", i, wantTime, cf.Time)
		}
		if math.Abs(cf.Amount-wantAmount) > 1e-9 {
			t.Errorf("Flow %d: expected amount %v, got %v", i, wantAmount, cf.Amount)
		}
	}
}

func TestScheduleMatchesToleranceLoop(t *testing.T) {
	// reference: t = dt, 2dt, ... while t <= maturity + 0.001, accumulated
	loopTimes := func(maturity float64, frequency int) []float64 {
		var out []float64
		dt := 1.0 / float64(frequency)
		for x := dt; x <= maturity+scheduleTolerance; x += dt {
			out = append(out, x)
		}
		return out
	}

	maturities := []float64{0.5, 1, 2, 2.25, 2.3, 5, 7.5, 10, 10.0005, 12.75, 30}
	frequencies := []int{1, 2, 4, 12}

	for _, m := range maturities {
		for _, f := range frequencies {
			v, err := NewVanilla("V", 100, m, 0.05, f)
			if err != nil {
				t.Fatalf("NewVanilla(%v, %d) failed: %v", m, f, err)
			}
			want := loopTimes(m, f)
			got := v.CashFlows(nil)
			if len(want) == 0 {
				continue
			}
			if len(got) != len(want) {
				t.Errorf("maturity=%v freq=%d: expected %d flows, got %d", m, f, len(want), len(got))
				continue
			}
			for i := range want {
				if math.Abs(got[i].Time-want[i]) > 1e-9 {
					t.Errorf("maturity=%v freq=%d flow %d: expected time %v, got %v", m, f, i, want[i], got[i].Time)
				}
			}
		}
	}
}

func TestVanillaShortMaturityFallback(t *testing.T) {
	v, err := NewVanilla("SHORT", 100, 0.25, 0.04, 1)
	if err != nil {
		t.Fatalf("NewVanilla failed: %v", err)
	}
	flows := v.CashFlows(nil)
	if len(flows) != 1 {
		t.Fatalf("Expected a single fallback flow, got %d", len(flows))
	}
	if flows[0].Time != 0.25 {
		t.Errorf("Expected fallback at maturity 0.25, got %v", flows[0].Time)
	}
	if math.Abs(flows[0].Amount-104) > 1e-9 {
		t.Errorf("Expected fallback amount 104, got %v", flows[0].Amount)
	}
}

func TestFloatingCouponsFollowCurve(t *testing.T) {
	c, err := curve.New(curve.Point{Tenor: 1, Rate: 0.03}, curve.Point{Tenor: 2, Rate: 0.05})
	if err != nil {
		t.Fatalf("curve.New failed: %v", err)
	}
	fl, err := NewFloating("FRN2", 100, 2, 0.01, 2)
	if err != nil {
		t.Fatalf("NewFloating failed: %v", err)
	}

	flows := fl.CashFlows(c)
	if len(flows) != 4 {
		t.Fatalf("Expected 4 flows, got %d", len(flows))
	}
	want := []CashFlow{
		{Amount: 100 * (0.03 + 0.01) / 2, Time: 0.5},
		{Amount: 100 * (0.03 + 0.01) / 2, Time: 1},
		{Amount: 100 * (0.04 + 0.01) / 2, Time: 1.5},
		{Amount: 100*(0.05+0.01)/2 + 100, Time: 2},
	}
	for i := range want {
		if math.Abs(flows[i].Amount-want[i].Amount) > 1e-9 || math.Abs(flows[i].Time-want[i].Time) > 1e-12 {
			t.Errorf("Flow %d: expected %+v, got %+v", i, want[i], flows[i])
		}
	}
}

func TestFloatingShortMaturityHasNoFlows(t *testing.T) {
	fl, err := NewFloating("FRN_SHORT", 100, 0.1, 0.01, 4)
	if err != nil {
		t.Fatalf("NewFloating failed: %v", err)
	}
	if flows := fl.CashFlows(flatCurve(t, 0.03)); len(flows) != 0 {
		t.Errorf("Expected no flows, got %d", len(flows))
	}
}

func TestPriceIsDeterministic(t *testing.T) {
	c := flatCurve(t, 0.04)
	v, _ := NewVanilla("V", 100, 7, 0.045, 2)
	first := Price(v, c)
	for i := 0; i < 5; i++ {
		if p := Price(v, c); p != first {
			t.Fatalf("Expected identical price %v, got %v", first, p)
		}
	}
}

func TestConstructorValidation(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"vanilla zero frequency", Spec{Kind: KindVanilla, Ticker: "A", Notional: 100, Maturity: 5, Frequency: 0}, ErrInvalidFrequency},
		{"floating negative frequency", Spec{Kind: KindFloating, Ticker: "B", Notional: 100, Maturity: 5, Frequency: -2}, ErrInvalidFrequency},
		{"zero maturity", Spec{Kind: KindZeroCoupon, Ticker: "C", Notional: 100, Maturity: 0}, ErrInvalidMaturity},
		{"empty ticker", Spec{Kind: KindZeroCoupon, Ticker: " ", Notional: 100, Maturity: 1}, ErrEmptyTicker},
		{"unknown kind", Spec{Kind: "CONVERTIBLE", Ticker: "D", Notional: 100, Maturity: 1}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if b != nil {
				t.Errorf("Expected nil bond on error, got %#v", b)
			}
		})
	}
}

func TestNewDispatchesOnKind(t *testing.T) {
	specs := []Spec{
		{Kind: KindVanilla, Ticker: "V", Notional: 100, Maturity: 5, Coupon: 0.04, Frequency: 2},
		{Kind: KindZeroCoupon, Ticker: "Z", Notional: 100, Maturity: 5},
		{Kind: KindFloating, Ticker: "F", Notional: 100, Maturity: 5, Spread: 0.005, Frequency: 4},
	}
	for _, s := range specs {
		b, err := New(s)
		if err != nil {
			t.Fatalf("New(%+v) failed: %v", s, err)
		}
		if b.Kind() != s.Kind {
			t.Errorf("Expected kind %s, got %s", s.Kind, b.Kind())
		}
		if b.Ticker() != s.Ticker {
			t.Errorf("Expected ticker %s, got %s", s.Ticker, b.Ticker())
		}
		if b.Description() == "" {
			t.Errorf("Expected a description for %s", s.Ticker)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"vanilla": KindVanilla,
		"FIXED":   KindVanilla,
		"zero":    KindZeroCoupon,
		"frn":     KindFloating,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil {
			t.Errorf("ParseKind(%q) failed: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q): expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseKind("swap"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}
